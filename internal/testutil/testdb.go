package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"wedding_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную in-memory sqlite базу на тест и прогоняет миграции
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateWedding создает свадьбу через 90 дней с разумными значениями по умолчанию
func CreateWedding(t *testing.T, db *gorm.DB, mutate ...func(w *models.Wedding)) *models.Wedding {
	t.Helper()

	wedding := &models.Wedding{
		CoupleNames:     "Anna & Marc",
		WeddingDate:     time.Now().UTC().AddDate(0, 0, 90).Truncate(24 * time.Hour),
		WeddingTime:     "17:00",
		Location:        "Masia Can Ribas, Girona",
		DefaultLanguage: models.LanguageEN,
		WhatsAppMode:    models.WhatsAppModeLinks,
	}
	for _, fn := range mutate {
		fn(wedding)
	}
	require.NoError(t, db.Create(wedding).Error, "create wedding")
	return wedding
}

// CreateFamily создает семью с участниками (по умолчанию двое взрослых)
func CreateFamily(t *testing.T, db *gorm.DB, weddingID string, mutate ...func(f *models.Family)) *models.Family {
	t.Helper()

	email := fmt.Sprintf("family_%d@test.com", time.Now().UnixNano())
	family := &models.Family{
		WeddingID:  weddingID,
		Name:       "Garcia Family",
		Email:      &email,
		MagicToken: uuid.NewString(),
		Members: []models.FamilyMember{
			{Name: "Jordi Garcia", Type: models.MemberTypeAdult},
			{Name: "Laia Garcia", Type: models.MemberTypeAdult},
		},
	}
	for _, fn := range mutate {
		fn(family)
	}
	require.NoError(t, db.Create(family).Error, "create family")
	return family
}

// CreateAdmin создает админа свадьбы с уже захешированным паролем
func CreateAdmin(t *testing.T, db *gorm.DB, weddingID, passwordHash string) *models.WeddingAdmin {
	t.Helper()

	admin := &models.WeddingAdmin{
		WeddingID:    weddingID,
		Name:         "Anna",
		Email:        fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano()),
		PasswordHash: passwordHash,
	}
	require.NoError(t, db.Create(admin).Error, "create admin")
	return admin
}

// CreateTemplate создает активный шаблон
func CreateTemplate(t *testing.T, db *gorm.DB, weddingID string, typ models.TemplateType, lang models.Language, channel models.Channel, body string) *models.MessageTemplate {
	t.Helper()

	tpl := &models.MessageTemplate{
		WeddingID: weddingID,
		Type:      typ,
		Language:  lang,
		Channel:   channel,
		Subject:   "{{coupleNames}}",
		Body:      body,
		IsActive:  true,
	}
	require.NoError(t, db.Create(tpl).Error, "create template")
	return tpl
}

func Ptr[T any](v T) *T {
	return &v
}
