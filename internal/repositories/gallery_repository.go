package repositories

import (
	"errors"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPhotoNotFound = errors.New("photo not found")

type GalleryRepository interface {
	Create(db *gorm.DB, photo *models.GalleryPhoto) error
	FindByID(db *gorm.DB, id string) (*models.GalleryPhoto, error)
	FindByWedding(db *gorm.DB, weddingID string, page, pageSize int) ([]models.GalleryPhoto, int64, error)
	// ExistsByMessage - защита от повторной доставки вебхука Twilio
	ExistsByMessage(db *gorm.DB, messageSID string, storagePath string) (bool, error)
	Delete(db *gorm.DB, id string) error
}

type GalleryRepositoryImpl struct{}

func NewGalleryRepository() GalleryRepository {
	return &GalleryRepositoryImpl{}
}

func (r *GalleryRepositoryImpl) Create(db *gorm.DB, photo *models.GalleryPhoto) error {
	return db.Create(photo).Error
}

func (r *GalleryRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.GalleryPhoto, error) {
	var photo models.GalleryPhoto
	if err := db.First(&photo, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrPhotoNotFound)
	}
	return &photo, nil
}

func (r *GalleryRepositoryImpl) FindByWedding(db *gorm.DB, weddingID string, page, pageSize int) ([]models.GalleryPhoto, int64, error) {
	query := db.Model(&models.GalleryPhoto{}).Where("wedding_id = ?", weddingID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 24
	}

	var photos []models.GalleryPhoto
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&photos).Error
	return photos, total, err
}

func (r *GalleryRepositoryImpl) ExistsByMessage(db *gorm.DB, messageSID string, storagePath string) (bool, error) {
	var count int64
	err := db.Model(&models.GalleryPhoto{}).
		Where("message_sid = ? AND storage_path = ?", messageSID, storagePath).
		Count(&count).Error
	return count > 0, err
}

func (r *GalleryRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.GalleryPhoto{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
