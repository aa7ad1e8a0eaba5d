package services

import (
	"context"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type WeddingService interface {
	GetWedding(ctx context.Context, db *gorm.DB, weddingID string) (*models.Wedding, error)
	UpdateSettings(ctx context.Context, db *gorm.DB, weddingID string, req *dto.UpdateSettingsRequest) (*models.Wedding, error)
}

type weddingService struct {
	weddingRepo repositories.WeddingRepository
	pages       MagicLinkService
}

func NewWeddingService(weddingRepo repositories.WeddingRepository, pages MagicLinkService) WeddingService {
	return &weddingService{
		weddingRepo: weddingRepo,
		pages:       pages,
	}
}

func (s *weddingService) GetWedding(ctx context.Context, db *gorm.DB, weddingID string) (*models.Wedding, error) {
	wedding, err := s.weddingRepo.FindByID(db.WithContext(ctx), weddingID)
	if err != nil {
		return nil, mapWeddingError(err)
	}
	return wedding, nil
}

func (s *weddingService) UpdateSettings(ctx context.Context, db *gorm.DB, weddingID string, req *dto.UpdateSettingsRequest) (*models.Wedding, error) {
	updates := map[string]any{}
	if req.SaveTheDateEnabled != nil {
		updates["save_the_date_enabled"] = *req.SaveTheDateEnabled
	}
	if req.WhatsAppMode != nil {
		updates["whatsapp_mode"] = *req.WhatsAppMode
	}
	if req.ClearRSVPCutoff {
		updates["rsvp_cutoff_date"] = nil
	} else if req.RSVPCutoffDate != nil {
		updates["rsvp_cutoff_date"] = req.RSVPCutoffDate.UTC()
	}
	if req.DefaultLanguage != nil {
		updates["default_language"] = *req.DefaultLanguage
	}
	if req.AutoReminderDays != nil {
		updates["auto_reminder_days"] = *req.AutoReminderDays
	}

	if len(updates) == 0 {
		return nil, apperrors.NewBadRequestError("No settings to update")
	}

	if err := s.weddingRepo.UpdateSettings(db.WithContext(ctx), weddingID, updates); err != nil {
		return nil, mapWeddingError(err)
	}
	s.pages.InvalidateWedding(weddingID)

	logger.CtxInfo(ctx, "Wedding settings updated", "wedding_id", weddingID, "fields", len(updates))
	return s.GetWedding(ctx, db, weddingID)
}
