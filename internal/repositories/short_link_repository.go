package repositories

import (
	"errors"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
)

var ErrShortLinkNotFound = errors.New("short link not found")

type ShortLinkRepository interface {
	Create(db *gorm.DB, link *models.ShortLink) error
	FindByCode(db *gorm.DB, code string) (*models.ShortLink, error)
	FindByFamilyAndTarget(db *gorm.DB, familyID, targetURL string) (*models.ShortLink, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
}

type ShortLinkRepositoryImpl struct{}

func NewShortLinkRepository() ShortLinkRepository {
	return &ShortLinkRepositoryImpl{}
}

func (r *ShortLinkRepositoryImpl) Create(db *gorm.DB, link *models.ShortLink) error {
	return db.Create(link).Error
}

func (r *ShortLinkRepositoryImpl) FindByCode(db *gorm.DB, code string) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := db.Where("code = ?", code).First(&link).Error; err != nil {
		return nil, notFound(err, ErrShortLinkNotFound)
	}
	return &link, nil
}

func (r *ShortLinkRepositoryImpl) FindByFamilyAndTarget(db *gorm.DB, familyID, targetURL string) (*models.ShortLink, error) {
	var link models.ShortLink
	err := db.Where("family_id = ? AND target_url = ?", familyID, targetURL).
		Order("created_at ASC").
		First(&link).Error
	if err != nil {
		return nil, notFound(err, ErrShortLinkNotFound)
	}
	return &link, nil
}

func (r *ShortLinkRepositoryImpl) CodeExists(db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.Model(&models.ShortLink{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}
