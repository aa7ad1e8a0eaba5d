package repositories

import (
	"errors"
	"time"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
)

var ErrWeddingNotFound = errors.New("wedding not found")

type WeddingRepository interface {
	Create(db *gorm.DB, wedding *models.Wedding) error
	FindByID(db *gorm.DB, id string) (*models.Wedding, error)
	UpdateSettings(db *gorm.DB, id string, updates map[string]any) error
	// FindWithAutoReminders - свадьбы, у которых включены автонапоминания
	// и отсечка RSVP еще не прошла
	FindWithAutoReminders(db *gorm.DB, now time.Time) ([]models.Wedding, error)
}

type WeddingRepositoryImpl struct{}

func NewWeddingRepository() WeddingRepository {
	return &WeddingRepositoryImpl{}
}

func (r *WeddingRepositoryImpl) Create(db *gorm.DB, wedding *models.Wedding) error {
	return db.Create(wedding).Error
}

func (r *WeddingRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Wedding, error) {
	var wedding models.Wedding
	err := db.Preload("Theme").First(&wedding, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeddingNotFound
		}
		return nil, err
	}
	return &wedding, nil
}

func (r *WeddingRepositoryImpl) UpdateSettings(db *gorm.DB, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := db.Model(&models.Wedding{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWeddingNotFound
	}
	return nil
}

func (r *WeddingRepositoryImpl) FindWithAutoReminders(db *gorm.DB, now time.Time) ([]models.Wedding, error) {
	var weddings []models.Wedding
	err := db.
		Where("auto_reminder_days > 0").
		Where("rsvp_cutoff_date IS NOT NULL AND rsvp_cutoff_date > ?", now).
		Find(&weddings).Error
	return weddings, err
}
