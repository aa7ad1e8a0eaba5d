package repositories

import (
	"errors"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTemplateNotFound = errors.New("template not found")

type TemplateRepository interface {
	Create(db *gorm.DB, tpl *models.MessageTemplate) error
	// FindActive - активный шаблон по ключу (свадьба, тип, язык, канал)
	FindActive(db *gorm.DB, weddingID string, tplType models.TemplateType, lang models.Language, channel models.Channel) (*models.MessageTemplate, error)
}

type TemplateRepositoryImpl struct{}

func NewTemplateRepository() TemplateRepository {
	return &TemplateRepositoryImpl{}
}

func (r *TemplateRepositoryImpl) Create(db *gorm.DB, tpl *models.MessageTemplate) error {
	return db.Create(tpl).Error
}

func (r *TemplateRepositoryImpl) FindActive(db *gorm.DB, weddingID string, tplType models.TemplateType, lang models.Language, channel models.Channel) (*models.MessageTemplate, error) {
	var tpl models.MessageTemplate
	err := db.
		Where("wedding_id = ? AND type = ? AND language = ? AND channel = ? AND is_active = ?",
			weddingID, tplType, lang, channel, true).
		Order("updated_at DESC").
		First(&tpl).Error
	if err != nil {
		return nil, notFound(err, ErrTemplateNotFound)
	}
	return &tpl, nil
}
