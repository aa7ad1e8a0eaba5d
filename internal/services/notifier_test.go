package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wedding_backend/internal/models"
	"wedding_backend/internal/services/dto"
	"wedding_backend/internal/testutil"
	"wedding_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChannel(t *testing.T) {
	email := "garcia@test.com"
	phone := "+34600111222"

	tests := []struct {
		name      string
		requested models.Channel
		family    models.Family
		want      models.Channel
		wantErr   string
	}{
		{
			name:      "explicit channel wins over preference",
			requested: models.ChannelSMS,
			family:    models.Family{Phone: &phone, Email: &email, ChannelPreference: testutil.Ptr(models.ChannelWhatsApp)},
			want:      models.ChannelSMS,
		},
		{
			name:      "preferred uses family preference",
			requested: models.ChannelPreferred,
			family:    models.Family{WhatsAppNumber: &phone, ChannelPreference: testutil.Ptr(models.ChannelWhatsApp)},
			want:      models.ChannelWhatsApp,
		},
		{
			name:   "empty request without preference is email",
			family: models.Family{Email: &email},
			want:   models.ChannelEmail,
		},
		{
			name:      "missing phone falls back to email",
			requested: models.ChannelSMS,
			family:    models.Family{Email: &email},
			want:      models.ChannelEmail,
		},
		{
			name:      "whitespace contact counts as missing",
			requested: models.ChannelWhatsApp,
			family:    models.Family{WhatsAppNumber: testutil.Ptr("  "), Email: &email},
			want:      models.ChannelEmail,
		},
		{
			name:      "no contact at all",
			requested: models.ChannelSMS,
			family:    models.Family{},
			wantErr:   "Family has no phone number or email address",
		},
		{
			name:    "no email for email channel",
			family:  models.Family{Phone: &phone},
			wantErr: "Family has no email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveChannel(tt.requested, &tt.family)
			if tt.wantErr != "" {
				require.Error(t, err)
				var noContact *NoContactError
				assert.True(t, errors.As(err, &noContact))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveTheDate_SendIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db, func(w *models.Wedding) { w.SaveTheDateEnabled = true })
	family := testutil.CreateFamily(t, env.db, wedding.ID)
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeSaveTheDate, models.LanguageEN, models.ChannelEmail,
		"Dear {{familyName}}, save the date! {{magicLink}}")

	opts := SendOptions{FamilyID: family.ID, WeddingID: wedding.ID, Channel: models.ChannelEmail, AdminID: "admin-1"}

	first, err := env.saveTheDate.Send(ctx, env.db, opts)
	require.NoError(t, err)
	require.True(t, first.Success, first.Error)
	assert.Equal(t, models.ChannelEmail, first.Channel)
	assert.Equal(t, "mail-1", first.MessageID)

	require.Equal(t, 1, env.mailer.count())
	sent := env.mailer.sent[0]
	assert.Equal(t, []string{*family.Email}, sent.To)
	assert.Equal(t, wedding.CoupleNames, sent.Subject)
	assert.Contains(t, sent.Body, "Dear Garcia Family")
	assert.Contains(t, sent.Body, testAppURL+"/s/")

	second, err := env.saveTheDate.Send(ctx, env.db, opts)
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, msgSaveTheDateSent, second.Error)
	assert.Equal(t, 1, env.mailer.count(), "second send must not reach the provider")

	fresh, err := env.familyRepo.FindByID(env.db, family.ID)
	require.NoError(t, err)
	assert.NotNil(t, fresh.SaveTheDateSent)

	count, err := env.eventRepo.CountByFamilyAndType(env.db, family.ID, models.EventSaveTheDateSent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	events, err := env.eventRepo.FindByFamily(env.db, family.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.True(t, events[0].AdminTriggered)
}

func TestSaveTheDate_Disabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)

	res, err := env.saveTheDate.Send(ctx, env.db, SendOptions{FamilyID: family.ID, WeddingID: wedding.ID})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, msgSaveTheDateDisabled, res.Error)

	_, err = env.saveTheDate.SendToWedding(ctx, env.db, wedding.ID, "admin-1", &dto.SaveTheDateRequest{})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeFeatureDisabled, appErr.Code)
	assert.Zero(t, env.mailer.count())
}

func TestSaveTheDate_SkipsInvitedFamilies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db, func(w *models.Wedding) { w.SaveTheDateEnabled = true })
	invited := testutil.CreateFamily(t, env.db, wedding.ID, func(f *models.Family) {
		f.InvitationSentAt = testutil.Ptr(time.Now().UTC())
	})
	pending := testutil.CreateFamily(t, env.db, wedding.ID)
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeSaveTheDate, models.LanguageEN, models.ChannelEmail, "Save the date")

	res, err := env.saveTheDate.SendToWedding(ctx, env.db, wedding.ID, "admin-1", &dto.SaveTheDateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, []string{*pending.Email}, env.mailer.sent[0].To)

	fresh, err := env.familyRepo.FindByID(env.db, invited.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.SaveTheDateSent)
}

func TestInvitation_BulkPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db)
	withEmail := testutil.CreateFamily(t, env.db, wedding.ID)
	withWhatsApp := testutil.CreateFamily(t, env.db, wedding.ID, func(f *models.Family) {
		f.Name = "Puig Family"
		f.Email = nil
		f.WhatsAppNumber = testutil.Ptr("+34 600 111 222")
		f.ChannelPreference = testutil.Ptr(models.ChannelWhatsApp)
	})
	noContact := testutil.CreateFamily(t, env.db, wedding.ID, func(f *models.Family) {
		f.Name = "Ghost Family"
		f.Email = nil
	})
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelEmail, "You are invited {{magicLink}}")
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelWhatsApp, "Hola {{familyName}}")

	res, err := env.invitations.SendToWedding(ctx, env.db, wedding.ID, "admin-1", &dto.InvitationRequest{Channel: models.ChannelPreferred})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, noContact.ID, res.Errors[0].FamilyID)
	assert.Equal(t, "Family has no email address", res.Errors[0].Error)

	require.Len(t, res.WaLinks, 1)
	assert.Equal(t, withWhatsApp.ID, res.WaLinks[0].FamilyID)
	assert.Equal(t, "Puig Family", res.WaLinks[0].FamilyName)
	assert.True(t, strings.HasPrefix(res.WaLinks[0].Link, "https://wa.me/34600111222?text="), res.WaLinks[0].Link)
	assert.Empty(t, env.messaging.whatsapp, "links mode must not call the provider")

	require.Equal(t, 1, env.mailer.count())
	assert.Equal(t, []string{*withEmail.Email}, env.mailer.sent[0].To)

	for _, id := range []string{withEmail.ID, withWhatsApp.ID} {
		fresh, err := env.familyRepo.FindByID(env.db, id)
		require.NoError(t, err)
		assert.NotNil(t, fresh.InvitationSentAt)
	}
}

func TestInvitation_ResendGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelEmail, "Invitation")

	opts := SendOptions{FamilyID: family.ID, WeddingID: wedding.ID}
	res, err := env.invitations.Send(ctx, env.db, opts)
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)

	res, err = env.invitations.Send(ctx, env.db, opts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invitation already sent", res.Error)

	opts.Resend = true
	res, err = env.invitations.Send(ctx, env.db, opts)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, env.mailer.count())
}

func TestInvitation_ProviderModeAndFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db, func(w *models.Wedding) { w.WhatsAppMode = models.WhatsAppModeProvider })
	family := testutil.CreateFamily(t, env.db, wedding.ID, func(f *models.Family) {
		f.WhatsAppNumber = testutil.Ptr("+34600111222")
	})
	opts := SendOptions{FamilyID: family.ID, WeddingID: wedding.ID, Channel: models.ChannelWhatsApp}

	res, err := env.invitations.Send(ctx, env.db, opts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, msgTemplateNotFound, res.Error)

	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelWhatsApp, "Hola {{familyName}}")

	env.messaging.err = errors.New("provider down")
	res, err = env.invitations.Send(ctx, env.db, opts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "provider down", res.Error)

	fresh, err := env.familyRepo.FindByID(env.db, family.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.InvitationSentAt, "failed dispatch must not mark the family")

	env.messaging.err = nil
	res, err = env.invitations.Send(ctx, env.db, opts)
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "WA1", res.MessageID)
	assert.Empty(t, res.WaLink)
	require.Len(t, env.messaging.whatsapp, 1)
	assert.Equal(t, "Hola Garcia Family", env.messaging.whatsapp[0].Body)
}

func TestInvitation_UnknownFamily(t *testing.T) {
	env := newTestEnv(t)
	wedding := testutil.CreateWedding(t, env.db)
	other := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, other.ID)

	res, err := env.invitations.Send(context.Background(), env.db, SendOptions{FamilyID: family.ID, WeddingID: wedding.ID})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, msgFamilyNotFound, res.Error)
}

func TestReminders_OnlyNonResponders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db)
	responded := testutil.CreateFamily(t, env.db, wedding.ID, func(f *models.Family) {
		f.RSVPSubmittedAt = testutil.Ptr(time.Now().UTC())
	})
	pending := testutil.CreateFamily(t, env.db, wedding.ID)
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeReminder, models.LanguageEN, models.ChannelEmail, "Please answer")

	res, err := env.reminders.SendToWedding(ctx, env.db, wedding.ID, "admin-1", &dto.ReminderRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, []string{*pending.Email}, env.mailer.sent[0].To)

	direct, err := env.reminders.Send(ctx, env.db, SendOptions{FamilyID: responded.ID, WeddingID: wedding.ID})
	require.NoError(t, err)
	assert.False(t, direct.Success)
	assert.Equal(t, "Family has already responded", direct.Error)

	fresh, err := env.familyRepo.FindByID(env.db, pending.ID)
	require.NoError(t, err)
	assert.NotNil(t, fresh.LastReminderSentAt)

	events, err := env.eventRepo.FindByFamily(env.db, pending.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventReminderSent, events[0].EventType)
	assert.True(t, events[0].AdminTriggered)
	require.NotNil(t, events[0].Channel)
	assert.Equal(t, models.ChannelEmail, *events[0].Channel)
}

func TestReminders_AutoWindowAndCooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	inWindow := testutil.CreateWedding(t, env.db, func(w *models.Wedding) {
		w.RSVPCutoffDate = testutil.Ptr(now.Add(3 * 24 * time.Hour))
		w.AutoReminderDays = 7
	})
	tooEarly := testutil.CreateWedding(t, env.db, func(w *models.Wedding) {
		w.RSVPCutoffDate = testutil.Ptr(now.Add(30 * 24 * time.Hour))
		w.AutoReminderDays = 7
	})
	disabled := testutil.CreateWedding(t, env.db, func(w *models.Wedding) {
		w.RSVPCutoffDate = testutil.Ptr(now.Add(24 * time.Hour))
	})
	for _, w := range []*models.Wedding{inWindow, tooEarly, disabled} {
		testutil.CreateFamily(t, env.db, w.ID)
		testutil.CreateTemplate(t, env.db, w.ID, models.TemplateTypeReminder, models.LanguageEN, models.ChannelEmail, "Reminder")
	}

	sent, err := env.reminders.RunAutoReminders(ctx, env.db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, env.mailer.count())

	sent, err = env.reminders.RunAutoReminders(ctx, env.db, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, sent, "cooldown must suppress a second reminder")

	sent, err = env.reminders.RunAutoReminders(ctx, env.db, now.Add(reminderCooldown+time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}
