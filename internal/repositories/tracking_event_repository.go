package repositories

import (
	"errors"
	"time"

	"wedding_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrTrackingEventNotFound = errors.New("tracking event not found")

type TrackingEventRepository interface {
	Create(db *gorm.DB, event *models.TrackingEvent) error
	FindByID(db *gorm.DB, id string) (*models.TrackingEvent, error)
	// FindByFamily - события семьи, новые сверху
	FindByFamily(db *gorm.DB, familyID string) ([]models.TrackingEvent, error)
	// FinalizeProvisional обновляет метаданные PROVISIONAL события при совпадении версии.
	// Возвращает false, если версия/статус уже изменились.
	FinalizeProvisional(db *gorm.DB, id string, expectedVersion int, metadata datatypes.JSON) (bool, error)
	CountByFamilyAndType(db *gorm.DB, familyID string, eventType models.EventType) (int64, error)
}

type TrackingEventRepositoryImpl struct{}

func NewTrackingEventRepository() TrackingEventRepository {
	return &TrackingEventRepositoryImpl{}
}

func (r *TrackingEventRepositoryImpl) Create(db *gorm.DB, event *models.TrackingEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Status == "" {
		event.Status = models.EventStatusFinal
	}
	if event.Version == 0 {
		event.Version = 1
	}
	return db.Create(event).Error
}

func (r *TrackingEventRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.TrackingEvent, error) {
	var event models.TrackingEvent
	if err := db.First(&event, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrTrackingEventNotFound)
	}
	return &event, nil
}

func (r *TrackingEventRepositoryImpl) FindByFamily(db *gorm.DB, familyID string) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	err := db.
		Where("family_id = ?", familyID).
		Order("timestamp DESC").
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *TrackingEventRepositoryImpl) FinalizeProvisional(db *gorm.DB, id string, expectedVersion int, metadata datatypes.JSON) (bool, error) {
	result := db.Model(&models.TrackingEvent{}).
		Where("id = ? AND version = ? AND status = ?", id, expectedVersion, models.EventStatusProvisional).
		Updates(map[string]any{
			"metadata":   metadata,
			"status":     models.EventStatusFinal,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *TrackingEventRepositoryImpl) CountByFamilyAndType(db *gorm.DB, familyID string, eventType models.EventType) (int64, error) {
	var count int64
	err := db.Model(&models.TrackingEvent{}).
		Where("family_id = ? AND event_type = ?", familyID, eventType).
		Count(&count).Error
	return count, err
}
