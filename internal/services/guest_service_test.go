package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wedding_backend/internal/models"
	"wedding_backend/internal/services/dto"
	"wedding_backend/internal/testutil"
	"wedding_backend/internal/workers"
	"wedding_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuestService(t *testing.T, env *testEnv) GuestService {
	return NewGuestService(
		env.magicLinks,
		env.familyRepo,
		env.templateRepo,
		env.tracking,
		env.gallery,
		env.links,
		env.emailAdapter(t),
		workers.InlineRunner{},
	)
}

func TestMagicLink_Validate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)
	past := testutil.CreateWedding(t, env.db, func(w *models.Wedding) {
		w.WeddingDate = time.Now().UTC().AddDate(0, 0, -3)
	})
	expired := testutil.CreateFamily(t, env.db, past.ID)

	res, err := env.magicLinks.Validate(ctx, env.db, family.MagicToken)
	require.NoError(t, err)
	assert.Equal(t, family.ID, res.Family.ID)
	assert.Equal(t, wedding.ID, res.Wedding.ID)
	assert.Len(t, res.Family.Members, 2)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"too short", "abc", apperrors.ErrInvalidTokenFormat},
		{"bad characters", "not a token at all!!", apperrors.ErrInvalidTokenFormat},
		{"unknown", "AAAAAAAAAAAAAAAAAAAAAAAA", apperrors.ErrTokenNotFound},
		{"past wedding", expired.MagicToken, apperrors.ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.magicLinks.Validate(ctx, env.db, tt.token)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGuest_GetPageTracksOpen(t *testing.T) {
	env := newTestEnv(t)
	svc := newGuestService(t, env)
	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)

	page, err := svc.GetPage(context.Background(), env.db, family.MagicToken, "10.0.0.1", "Mozilla/5.0")
	require.NoError(t, err)
	assert.False(t, page.HasSubmittedRSVP)
	assert.False(t, page.RSVPCutoffPassed)
	assert.Equal(t, wedding.CoupleNames, page.Wedding.CoupleNames)

	count, err := env.eventRepo.CountByFamilyAndType(env.db, family.ID, models.EventLinkOpened)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGuest_SubmitRSVP(t *testing.T) {
	env := newTestEnv(t)
	svc := newGuestService(t, env)
	ctx := context.Background()

	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)
	req := &dto.RSVPRequest{
		Members: []dto.RSVPMemberInput{
			{ID: family.Members[0].ID, Attending: testutil.Ptr(true), DietaryRestrictions: testutil.Ptr("vegetarian")},
			{ID: family.Members[1].ID, Attending: testutil.Ptr(false)},
		},
		TransportationAnswer: testutil.Ptr(true),
	}

	res, err := svc.SubmitRSVP(ctx, env.db, family.MagicToken, req)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	require.NotNil(t, res.Family.RSVPSubmittedAt)
	require.NotNil(t, res.Family.TransportationAnswer)
	assert.True(t, *res.Family.TransportationAnswer)

	attending := map[string]bool{}
	for _, m := range res.Family.Members {
		require.NotNil(t, m.Attending)
		attending[m.ID] = *m.Attending
	}
	assert.True(t, attending[family.Members[0].ID])
	assert.False(t, attending[family.Members[1].ID])

	require.Equal(t, 1, env.mailer.count(), "confirmation email")
	assert.Equal(t, "RSVP received - "+wedding.CoupleNames, env.mailer.sent[0].Subject)

	res, err = svc.SubmitRSVP(ctx, env.db, family.MagicToken, req)
	require.NoError(t, err)
	assert.True(t, res.Updated)

	submitted, err := env.eventRepo.CountByFamilyAndType(env.db, family.ID, models.EventRSVPSubmitted)
	require.NoError(t, err)
	updated, err := env.eventRepo.CountByFamilyAndType(env.db, family.ID, models.EventRSVPUpdated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), submitted)
	assert.Equal(t, int64(1), updated)
}

func TestGuest_SubmitRSVPUsesConfirmationTemplate(t *testing.T) {
	env := newTestEnv(t)
	svc := newGuestService(t, env)

	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)
	testutil.CreateTemplate(t, env.db, wedding.ID, models.TemplateTypeConfirmation, models.LanguageEN, models.ChannelEmail,
		"Thanks {{familyName}}!")

	_, err := svc.SubmitRSVP(context.Background(), env.db, family.MagicToken, &dto.RSVPRequest{
		Members: []dto.RSVPMemberInput{{ID: family.Members[0].ID, Attending: testutil.Ptr(true)}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.mailer.count())
	assert.Equal(t, wedding.CoupleNames, env.mailer.sent[0].Subject)
	assert.Equal(t, "Thanks Garcia Family!", env.mailer.sent[0].Body)
}

func TestGuest_SubmitRSVPRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := newGuestService(t, env)
	ctx := context.Background()

	closed := testutil.CreateWedding(t, env.db, func(w *models.Wedding) {
		w.RSVPCutoffDate = testutil.Ptr(time.Now().UTC().Add(-time.Hour))
	})
	late := testutil.CreateFamily(t, env.db, closed.ID)
	_, err := svc.SubmitRSVP(ctx, env.db, late.MagicToken, &dto.RSVPRequest{
		Members: []dto.RSVPMemberInput{{ID: late.Members[0].ID, Attending: testutil.Ptr(true)}},
	})
	assert.True(t, errors.Is(err, apperrors.ErrRSVPCutoffPassed), "got %v", err)

	open := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, open.ID)
	stranger := testutil.CreateFamily(t, env.db, open.ID)
	_, err = svc.SubmitRSVP(ctx, env.db, family.MagicToken, &dto.RSVPRequest{
		Members: []dto.RSVPMemberInput{
			{ID: family.Members[0].ID, Attending: testutil.Ptr(true)},
			{ID: stranger.Members[0].ID, Attending: testutil.Ptr(true)},
		},
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperrors.ErrUnknownFamilyMember.Code, appErr.Code)

	fresh, err := env.familyRepo.FindByID(env.db, family.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.RSVPSubmittedAt, "rejected RSVP must not touch the family")
	for _, m := range fresh.Members {
		assert.Nil(t, m.Attending)
	}
	assert.Zero(t, env.mailer.count())
}

func TestTracking_FinalizeVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)

	event, err := env.tracking.TrackProvisional(ctx, env.db, TrackInput{
		FamilyID:  family.ID,
		WeddingID: wedding.ID,
		Metadata:  &models.MessageReceivedMeta{From: "34600111222", Body: "hola"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusProvisional, event.Status)
	assert.Equal(t, 1, event.Version)

	setReply := func(text string) func(models.EventMetadata) {
		return func(meta models.EventMetadata) {
			meta.(*models.MessageReceivedMeta).AIReply = text
		}
	}
	require.NoError(t, env.tracking.Finalize(ctx, env.db, event.ID, event.Version, setReply("first")))

	err = env.tracking.Finalize(ctx, env.db, event.ID, event.Version, setReply("second"))
	assert.True(t, errors.Is(err, apperrors.ErrEventVersionConflict), "got %v", err)

	err = env.tracking.Finalize(ctx, env.db, "missing-event", 1, nil)
	assert.True(t, errors.Is(err, apperrors.ErrEventNotFound), "got %v", err)

	stored, err := env.eventRepo.FindByID(env.db, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusFinal, stored.Status)
	meta, err := models.DecodeMetadata(stored.EventType, stored.Metadata)
	require.NoError(t, err)
	assert.Equal(t, "first", meta.(*models.MessageReceivedMeta).AIReply)
}

func TestTimeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	timeline := NewTimelineService(env.familyRepo, env.eventRepo, env.userRepo)

	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)
	admin := testutil.CreateAdmin(t, env.db, wedding.ID, "hash")
	planner := &models.WeddingPlanner{Name: "Planner", Email: "planner@test.com", PasswordHash: "hash"}
	require.NoError(t, env.userRepo.CreatePlanner(env.db, planner))

	base := time.Now().UTC().Add(-time.Hour)
	record := func(meta models.EventMetadata, at time.Time) {
		_, err := env.tracking.Record(ctx, env.db, TrackInput{FamilyID: family.ID, WeddingID: wedding.ID, Metadata: meta, Timestamp: at})
		require.NoError(t, err)
	}
	record(&models.InvitationSentMeta{SendMeta: models.SendMeta{Channel: models.ChannelEmail, AdminID: admin.ID}}, base)
	record(&models.LinkOpenedMeta{IP: "10.0.0.1"}, base.Add(10*time.Minute))
	record(&models.PaymentReceivedMeta{Amount: 100, Currency: "EUR", Method: "bank", AdminID: planner.ID}, base.Add(20*time.Minute))

	res, err := timeline.GetTimeline(ctx, env.db, family.ID, wedding.ID)
	require.NoError(t, err)
	assert.Equal(t, family.Name, res.Family.Name)
	require.Len(t, res.Events, 4)

	assert.Equal(t, models.EventPaymentReceived, res.Events[0].EventType)
	require.NotNil(t, res.Events[0].TriggeredByUser)
	assert.Equal(t, models.UserRolePlanner, res.Events[0].TriggeredByUser.Role)
	assert.True(t, res.Events[0].AdminTriggered)

	assert.Equal(t, models.EventLinkOpened, res.Events[1].EventType)
	assert.Nil(t, res.Events[1].TriggeredByUser)
	assert.False(t, res.Events[1].AdminTriggered)

	assert.Equal(t, models.EventInvitationSent, res.Events[2].EventType)
	require.NotNil(t, res.Events[2].TriggeredByUser)
	assert.Equal(t, admin.Name, res.Events[2].TriggeredByUser.Name)
	assert.Equal(t, models.UserRoleWeddingAdmin, res.Events[2].TriggeredByUser.Role)

	assert.Equal(t, models.EventGuestCreated, res.Events[3].EventType)

	other := testutil.CreateWedding(t, env.db)
	_, err = timeline.GetTimeline(ctx, env.db, family.ID, other.ID)
	assert.True(t, errors.Is(err, apperrors.ErrFamilyNotFound), "got %v", err)
}

func TestFamily_CreateNormalizesContacts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFamilyService(env.familyRepo, env.tracking, env.links)
	wedding := testutil.CreateWedding(t, env.db)

	family, err := svc.CreateFamily(context.Background(), env.db, wedding.ID, "admin-1", &dto.CreateFamilyRequest{
		Name:              "  Soler Family ",
		Email:             testutil.Ptr(" Soler@Example.COM "),
		Phone:             testutil.Ptr("0034 600-111-222"),
		WhatsAppNumber:    testutil.Ptr("   "),
		ChannelPreference: testutil.Ptr(models.ChannelPreferred),
		Members: []dto.CreateMemberRequest{
			{Name: " Pau "},
			{Name: "Nil", Type: models.MemberTypeChild},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Soler Family", family.Name)
	assert.Equal(t, "soler@example.com", *family.Email)
	assert.Equal(t, "+34600111222", *family.Phone)
	assert.Nil(t, family.WhatsAppNumber)
	assert.Nil(t, family.ChannelPreference)
	assert.Len(t, family.MagicToken, 32)
	require.NotNil(t, family.ReferenceCode)
	assert.Len(t, *family.ReferenceCode, referenceCodeLength)
	require.Len(t, family.Members, 2)
	assert.Equal(t, "Pau", family.Members[0].Name)
	assert.Equal(t, models.MemberTypeAdult, family.Members[0].Type)

	events, err := env.eventRepo.FindByFamily(env.db, family.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventGuestAdded, events[0].EventType)
	assert.True(t, events[0].AdminTriggered)

	_, err = env.magicLinks.Validate(context.Background(), env.db, family.MagicToken)
	assert.NoError(t, err)
}

func TestFamily_RecordPayment(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFamilyService(env.familyRepo, env.tracking, env.links)
	wedding := testutil.CreateWedding(t, env.db)
	family := testutil.CreateFamily(t, env.db, wedding.ID)

	event, err := svc.RecordPayment(context.Background(), env.db, wedding.ID, family.ID, "admin-1", &dto.PaymentRequest{
		Amount: 250, Currency: "eur", Method: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventPaymentReceived, event.EventType)
	assert.True(t, event.AdminTriggered)

	meta, err := models.DecodeMetadata(event.EventType, event.Metadata)
	require.NoError(t, err)
	assert.Equal(t, "EUR", meta.(*models.PaymentReceivedMeta).Currency)

	_, err = svc.RecordPayment(context.Background(), env.db, "other-wedding", family.ID, "admin-1", &dto.PaymentRequest{Amount: 1, Currency: "EUR", Method: "cash"})
	assert.True(t, errors.Is(err, apperrors.ErrFamilyNotFound), "got %v", err)

	png, err := svc.QRCode(context.Background(), env.db, wedding.ID, family.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
