package repositories

import (
	"errors"
	"time"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrFamilyMemberNotFound = errors.New("family member not found")
)

// FamilyFilter - выборка семей свадьбы для массовых рассылок
type FamilyFilter struct {
	IDs []string // пусто -> все семьи свадьбы

	SaveTheDateNotSent bool
	InvitationNotSent  bool
	NotResponded       bool

	// NotRemindedSince - не напоминали после этого момента (nil - не фильтровать)
	NotRemindedSince *time.Time
}

type FamilyRepository interface {
	Create(db *gorm.DB, family *models.Family) error
	FindByID(db *gorm.DB, id string) (*models.Family, error)
	// FindInWedding загружает семью с участниками и свадьбой
	FindInWedding(db *gorm.DB, weddingID, familyID string) (*models.Family, error)
	FindByMagicToken(db *gorm.DB, token string) (*models.Family, error)
	// FindByPhoneSuffix - кандидаты, у которых phone или whatsapp_number оканчиваются на suffix
	FindByPhoneSuffix(db *gorm.DB, suffix string) ([]models.Family, error)
	FindByWedding(db *gorm.DB, weddingID string, filter FamilyFilter) ([]models.Family, error)
	ReferenceCodeExists(db *gorm.DB, weddingID, code string) (bool, error)

	// MarkSaveTheDateSent выставляет отметку только если ее еще нет
	MarkSaveTheDateSent(db *gorm.DB, id string, at time.Time) (bool, error)
	MarkInvitationSent(db *gorm.DB, id string, at time.Time) error
	MarkReminderSent(db *gorm.DB, id string, at time.Time) error

	UpdateRSVPAnswers(db *gorm.DB, id string, updates map[string]any) error
	UpdateMember(db *gorm.DB, member *models.FamilyMember) error
}

type FamilyRepositoryImpl struct{}

func NewFamilyRepository() FamilyRepository {
	return &FamilyRepositoryImpl{}
}

func (r *FamilyRepositoryImpl) Create(db *gorm.DB, family *models.Family) error {
	return db.Create(family).Error
}

func (r *FamilyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Family, error) {
	var family models.Family
	if err := db.First(&family, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrFamilyNotFound)
	}
	return &family, nil
}

func (r *FamilyRepositoryImpl) FindInWedding(db *gorm.DB, weddingID, familyID string) (*models.Family, error) {
	var family models.Family
	err := db.
		Preload("Members", orderByCreated).
		Preload("Wedding").
		Preload("Wedding.Theme").
		Where("id = ? AND wedding_id = ?", familyID, weddingID).
		First(&family).Error
	if err != nil {
		return nil, notFound(err, ErrFamilyNotFound)
	}
	return &family, nil
}

func (r *FamilyRepositoryImpl) FindByMagicToken(db *gorm.DB, token string) (*models.Family, error) {
	var family models.Family
	err := db.
		Preload("Members", orderByCreated).
		Where("magic_token = ?", token).
		First(&family).Error
	if err != nil {
		return nil, notFound(err, ErrFamilyNotFound)
	}
	return &family, nil
}

func (r *FamilyRepositoryImpl) FindByPhoneSuffix(db *gorm.DB, suffix string) ([]models.Family, error) {
	var families []models.Family
	pattern := "%" + suffix
	err := db.
		Preload("Wedding").
		Where("whatsapp_number LIKE ? OR phone LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(20).
		Find(&families).Error
	return families, err
}

func (r *FamilyRepositoryImpl) FindByWedding(db *gorm.DB, weddingID string, filter FamilyFilter) ([]models.Family, error) {
	query := db.Where("wedding_id = ?", weddingID)

	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.SaveTheDateNotSent {
		query = query.Where("save_the_date_sent IS NULL")
	}
	if filter.InvitationNotSent {
		query = query.Where("invitation_sent_at IS NULL")
	}
	if filter.NotResponded {
		query = query.
			Where("rsvp_submitted_at IS NULL").
			Where("NOT EXISTS (SELECT 1 FROM family_members fm WHERE fm.family_id = families.id AND fm.attending IS NOT NULL)")
	}
	if filter.NotRemindedSince != nil {
		query = query.Where("last_reminder_sent_at IS NULL OR last_reminder_sent_at < ?", *filter.NotRemindedSince)
	}

	var families []models.Family
	err := query.Order("name ASC").Find(&families).Error
	return families, err
}

func (r *FamilyRepositoryImpl) ReferenceCodeExists(db *gorm.DB, weddingID, code string) (bool, error) {
	var count int64
	err := db.Model(&models.Family{}).
		Where("wedding_id = ? AND reference_code = ?", weddingID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *FamilyRepositoryImpl) MarkSaveTheDateSent(db *gorm.DB, id string, at time.Time) (bool, error) {
	result := db.Model(&models.Family{}).
		Where("id = ? AND save_the_date_sent IS NULL", id).
		Update("save_the_date_sent", at)
	return result.RowsAffected > 0, result.Error
}

func (r *FamilyRepositoryImpl) MarkInvitationSent(db *gorm.DB, id string, at time.Time) error {
	return r.updateColumn(db, id, "invitation_sent_at", at)
}

func (r *FamilyRepositoryImpl) MarkReminderSent(db *gorm.DB, id string, at time.Time) error {
	return r.updateColumn(db, id, "last_reminder_sent_at", at)
}

func (r *FamilyRepositoryImpl) UpdateRSVPAnswers(db *gorm.DB, id string, updates map[string]any) error {
	result := db.Model(&models.Family{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFamilyNotFound
	}
	return nil
}

func (r *FamilyRepositoryImpl) UpdateMember(db *gorm.DB, member *models.FamilyMember) error {
	result := db.Model(&models.FamilyMember{}).
		Where("id = ? AND family_id = ?", member.ID, member.FamilyID).
		Updates(map[string]any{
			"attending":            member.Attending,
			"dietary_restrictions": member.DietaryRestrictions,
			"accessibility_needs":  member.AccessibilityNeeds,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFamilyMemberNotFound
	}
	return nil
}

func (r *FamilyRepositoryImpl) updateColumn(db *gorm.DB, id, column string, value any) error {
	result := db.Model(&models.Family{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFamilyNotFound
	}
	return nil
}

func orderByCreated(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// notFound подменяет gorm.ErrRecordNotFound доменной ошибкой
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
