package repositories

import (
	"testing"
	"time"

	"wedding_backend/internal/models"
	"wedding_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFamilyRepository_FindByMagicTokenPreloads(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFamilyRepository()

	wedding := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, wedding.ID)

	found, err := repo.FindByMagicToken(db, family.MagicToken)
	require.NoError(t, err)
	assert.Equal(t, family.ID, found.ID)
	assert.Len(t, found.Members, 2)

	_, err = repo.FindByMagicToken(db, "missing")
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestFamilyRepository_FindInWeddingScopesByWedding(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFamilyRepository()

	w1 := testutil.CreateWedding(t, db)
	w2 := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, w1.ID)

	_, err := repo.FindInWedding(db, w2.ID, family.ID)
	assert.ErrorIs(t, err, ErrFamilyNotFound)

	found, err := repo.FindInWedding(db, w1.ID, family.ID)
	require.NoError(t, err)
	assert.Equal(t, family.ID, found.ID)
}

func TestFamilyRepository_MarkSaveTheDateSentOnlyOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFamilyRepository()

	wedding := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, wedding.ID)

	now := time.Now().UTC()
	first, err := repo.MarkSaveTheDateSent(db, family.ID, now)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkSaveTheDateSent(db, family.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, second)
}

func TestFamilyRepository_FindByWeddingFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFamilyRepository()

	wedding := testutil.CreateWedding(t, db)
	responded := testutil.CreateFamily(t, db, wedding.ID, func(f *models.Family) {
		f.Name = "Responded"
		f.Members[0].Attending = testutil.Ptr(true)
	})
	silent := testutil.CreateFamily(t, db, wedding.ID, func(f *models.Family) {
		f.Name = "Silent"
	})

	families, err := repo.FindByWedding(db, wedding.ID, FamilyFilter{NotResponded: true})
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, silent.ID, families[0].ID)

	families, err = repo.FindByWedding(db, wedding.ID, FamilyFilter{IDs: []string{responded.ID}})
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, responded.ID, families[0].ID)
}

func TestFamilyRepository_FindByPhoneSuffix(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFamilyRepository()

	wedding := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, wedding.ID, func(f *models.Family) {
		f.WhatsAppNumber = testutil.Ptr("+34612345678")
	})
	testutil.CreateFamily(t, db, wedding.ID, func(f *models.Family) {
		f.Phone = testutil.Ptr("+34699000111")
	})

	families, err := repo.FindByPhoneSuffix(db, "612345678")
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, family.ID, families[0].ID)
}

func TestTemplateRepository_FindActiveNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTemplateRepository()

	wedding := testutil.CreateWedding(t, db)
	old := testutil.CreateTemplate(t, db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelEmail, "old")
	require.NoError(t, db.Model(old).Update("updated_at", time.Now().Add(-time.Hour)).Error)
	fresh := testutil.CreateTemplate(t, db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelEmail, "fresh")

	found, err := repo.FindActive(db, wedding.ID, models.TemplateTypeInvitation, models.LanguageEN, models.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, found.ID)

	_, err = repo.FindActive(db, wedding.ID, models.TemplateTypeInvitation, models.LanguageES, models.ChannelEmail)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTrackingEventRepository_FinalizeProvisionalChecksVersion(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTrackingEventRepository()

	wedding := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, wedding.ID)

	event := &models.TrackingEvent{
		FamilyID:  family.ID,
		WeddingID: wedding.ID,
		EventType: models.EventMessageReceived,
		Metadata:  datatypes.JSON(`{"body":"hola"}`),
		Status:    models.EventStatusProvisional,
	}
	require.NoError(t, repo.Create(db, event))
	assert.Equal(t, 1, event.Version)

	ok, err := repo.FinalizeProvisional(db, event.ID, 1, datatypes.JSON(`{"body":"hola","ai_reply":"hi"}`))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.FinalizeProvisional(db, event.ID, 1, datatypes.JSON(`{}`))
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByID(db, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusFinal, stored.Status)
	assert.Equal(t, 2, stored.Version)
	assert.JSONEq(t, `{"body":"hola","ai_reply":"hi"}`, string(stored.Metadata))
}

func TestTrackingEventRepository_FindByFamilyNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTrackingEventRepository()

	wedding := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, wedding.ID)

	base := time.Now().UTC()
	for i, typ := range []models.EventType{models.EventInvitationSent, models.EventLinkOpened, models.EventRSVPSubmitted} {
		require.NoError(t, repo.Create(db, &models.TrackingEvent{
			FamilyID:  family.ID,
			WeddingID: wedding.ID,
			EventType: typ,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := repo.FindByFamily(db, family.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventRSVPSubmitted, events[0].EventType)
	assert.Equal(t, models.EventInvitationSent, events[2].EventType)
}

func TestNotificationRepository_ReadStatePerAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	events := NewTrackingEventRepository()
	repo := NewNotificationRepository()

	wedding := testutil.CreateWedding(t, db)
	family := testutil.CreateFamily(t, db, wedding.ID)
	anna := testutil.CreateAdmin(t, db, wedding.ID, "hash")
	marc := testutil.CreateAdmin(t, db, wedding.ID, "hash")

	first := &models.TrackingEvent{FamilyID: family.ID, WeddingID: wedding.ID, EventType: models.EventLinkOpened}
	second := &models.TrackingEvent{FamilyID: family.ID, WeddingID: wedding.ID, EventType: models.EventRSVPSubmitted}
	require.NoError(t, events.Create(db, first))
	require.NoError(t, events.Create(db, second))

	now := time.Now().UTC()
	require.NoError(t, repo.MarkAsRead(db, wedding.ID, first.ID, anna.ID, now))
	// повторная отметка не создает дубликат
	require.NoError(t, repo.MarkAsRead(db, wedding.ID, first.ID, anna.ID, now))

	count, err := repo.GetUnreadCount(db, wedding.ID, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.GetUnreadCount(db, wedding.ID, marc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rows, total, err := repo.FindForAdmin(db, wedding.ID, anna.ID, NotificationCriteria{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.False(t, rows[0].Read)

	marked, err := repo.MarkAllAsRead(db, wedding.ID, marc.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	count, err = repo.GetUnreadCount(db, wedding.ID, marc.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.MarkAsRead(db, wedding.ID, "missing", anna.ID, now), ErrTrackingEventNotFound)
	// событие чужой свадьбы не видно
	assert.ErrorIs(t, repo.MarkAsRead(db, "other-wedding", first.ID, anna.ID, now), ErrTrackingEventNotFound)
}

func TestShortLinkRepository_FindByFamilyAndTarget(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewShortLinkRepository()

	link := &models.ShortLink{Code: "abc123", TargetURL: "https://example.com/rsvp/tok", FamilyID: "fam-1"}
	require.NoError(t, repo.Create(db, link))

	found, err := repo.FindByFamilyAndTarget(db, "fam-1", "https://example.com/rsvp/tok")
	require.NoError(t, err)
	assert.Equal(t, "abc123", found.Code)

	exists, err := repo.CodeExists(db, "abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByCode(db, "nope")
	assert.ErrorIs(t, err, ErrShortLinkNotFound)
}

func TestUserRepository_EmailsAreCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository()

	require.NoError(t, repo.CreatePlanner(db, &models.WeddingPlanner{Name: "Eva", Email: " Eva@Planner.com ", PasswordHash: "x"}))
	assert.ErrorIs(t, repo.CreatePlanner(db, &models.WeddingPlanner{Name: "Eva", Email: "eva@planner.com", PasswordHash: "x"}), ErrUserAlreadyExists)

	found, err := repo.FindPlannerByEmail(db, "EVA@planner.com")
	require.NoError(t, err)
	assert.Equal(t, "eva@planner.com", found.Email)

	_, err = repo.FindAdminByEmail(db, "nobody@test.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
