package services

import (
	"context"
	"time"

	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	msgSaveTheDateDisabled = "Save the date is not enabled for this wedding"
	msgSaveTheDateSent     = "Save the date already sent"
)

type SaveTheDateService interface {
	Send(ctx context.Context, db *gorm.DB, opts SendOptions) (*SendResult, error)
	SendBulk(ctx context.Context, db *gorm.DB, weddingID string, batch []SendOptions) *BulkResult
	// SendToWedding - подходят семьи без save-the-date и без приглашения
	SendToWedding(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.SaveTheDateRequest) (*BulkResult, error)
}

type saveTheDateService struct {
	notifier    *Notifier
	weddingRepo repositories.WeddingRepository
}

var saveTheDateKind = notificationKind{
	name:         "save_the_date",
	templateType: models.TemplateTypeSaveTheDate,
	guard: func(family *models.Family, wedding *models.Wedding, _ SendOptions) string {
		if !wedding.SaveTheDateEnabled {
			return msgSaveTheDateDisabled
		}
		if family.SaveTheDateSent != nil {
			return msgSaveTheDateSent
		}
		return ""
	},
	mark: func(repo repositories.FamilyRepository, db *gorm.DB, familyID string, at time.Time) (bool, error) {
		return repo.MarkSaveTheDateSent(db, familyID, at)
	},
	track: func(t TrackingService, ctx context.Context, db *gorm.DB, family *models.Family, meta models.SendMeta, at time.Time) {
		t.TrackAsync(ctx, db, sentInput(family, meta, &models.SaveTheDateSentMeta{SendMeta: meta}, at))
	},
}

func NewSaveTheDateService(n *Notifier, weddingRepo repositories.WeddingRepository) SaveTheDateService {
	return &saveTheDateService{notifier: n, weddingRepo: weddingRepo}
}

func (s *saveTheDateService) Send(ctx context.Context, db *gorm.DB, opts SendOptions) (*SendResult, error) {
	return s.notifier.send(ctx, db, saveTheDateKind, opts)
}

func (s *saveTheDateService) SendBulk(ctx context.Context, db *gorm.DB, weddingID string, batch []SendOptions) *BulkResult {
	return s.notifier.sendBulk(ctx, db, saveTheDateKind, weddingID, batch)
}

func (s *saveTheDateService) SendToWedding(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.SaveTheDateRequest) (*BulkResult, error) {
	wedding, err := s.weddingRepo.FindByID(db.WithContext(ctx), weddingID)
	if err != nil {
		return nil, mapWeddingError(err)
	}
	if !wedding.SaveTheDateEnabled {
		return nil, apperrors.ErrFeatureDisabled(msgSaveTheDateDisabled)
	}

	filter := repositories.FamilyFilter{IDs: req.FamilyIDs, SaveTheDateNotSent: true, InvitationNotSent: true}
	batch, err := s.notifier.batchFor(ctx, db, weddingID, filter, req.Channel, adminID, false)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.SendBulk(ctx, db, weddingID, batch), nil
}
