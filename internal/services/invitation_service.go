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

type InvitationService interface {
	Send(ctx context.Context, db *gorm.DB, opts SendOptions) (*SendResult, error)
	SendBulk(ctx context.Context, db *gorm.DB, weddingID string, batch []SendOptions) *BulkResult
	// SendToWedding - рассылка из админки: выбранные семьи или все, кому еще не отправляли
	SendToWedding(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.InvitationRequest) (*BulkResult, error)
}

type invitationService struct {
	notifier *Notifier
}

var invitationKind = notificationKind{
	name:         "invitation",
	templateType: models.TemplateTypeInvitation,
	guard: func(family *models.Family, _ *models.Wedding, opts SendOptions) string {
		if family.InvitationSentAt != nil && !opts.Resend {
			return "Invitation already sent"
		}
		return ""
	},
	mark: func(repo repositories.FamilyRepository, db *gorm.DB, familyID string, at time.Time) (bool, error) {
		return true, repo.MarkInvitationSent(db, familyID, at)
	},
	track: func(t TrackingService, ctx context.Context, db *gorm.DB, family *models.Family, meta models.SendMeta, at time.Time) {
		t.TrackAsync(ctx, db, sentInput(family, meta, &models.InvitationSentMeta{SendMeta: meta}, at))
	},
}

func NewInvitationService(n *Notifier) InvitationService {
	return &invitationService{notifier: n}
}

func (s *invitationService) Send(ctx context.Context, db *gorm.DB, opts SendOptions) (*SendResult, error) {
	return s.notifier.send(ctx, db, invitationKind, opts)
}

func (s *invitationService) SendBulk(ctx context.Context, db *gorm.DB, weddingID string, batch []SendOptions) *BulkResult {
	return s.notifier.sendBulk(ctx, db, invitationKind, weddingID, batch)
}

func (s *invitationService) SendToWedding(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.InvitationRequest) (*BulkResult, error) {
	filter := repositories.FamilyFilter{IDs: req.FamilyIDs, InvitationNotSent: !req.Resend}
	batch, err := s.notifier.batchFor(ctx, db, weddingID, filter, req.Channel, adminID, req.Resend)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.SendBulk(ctx, db, weddingID, batch), nil
}
