package services

import (
	"context"
	"time"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// reminderCooldown - автонапоминание одной семье не чаще раза в сутки
const reminderCooldown = 24 * time.Hour

type ReminderService interface {
	Send(ctx context.Context, db *gorm.DB, opts SendOptions) (*SendResult, error)
	SendBulk(ctx context.Context, db *gorm.DB, weddingID string, batch []SendOptions) *BulkResult
	// SendToWedding - только семьи без ответа
	SendToWedding(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.ReminderRequest) (*BulkResult, error)
	// RunAutoReminders вызывается воркером и CLI; возвращает число отправленных
	RunAutoReminders(ctx context.Context, db *gorm.DB, now time.Time) (int, error)
}

type reminderService struct {
	notifier    *Notifier
	weddingRepo repositories.WeddingRepository
}

var reminderKind = notificationKind{
	name:         "reminder",
	templateType: models.TemplateTypeReminder,
	guard: func(family *models.Family, _ *models.Wedding, _ SendOptions) string {
		if family.HasSubmittedRSVP() {
			return "Family has already responded"
		}
		return ""
	},
	mark: func(repo repositories.FamilyRepository, db *gorm.DB, familyID string, at time.Time) (bool, error) {
		return true, repo.MarkReminderSent(db, familyID, at)
	},
	track: func(t TrackingService, ctx context.Context, db *gorm.DB, family *models.Family, meta models.SendMeta, at time.Time) {
		t.TrackReminderSent(ctx, db, family, meta, at)
	},
}

func NewReminderService(n *Notifier, weddingRepo repositories.WeddingRepository) ReminderService {
	return &reminderService{notifier: n, weddingRepo: weddingRepo}
}

func (s *reminderService) Send(ctx context.Context, db *gorm.DB, opts SendOptions) (*SendResult, error) {
	return s.notifier.send(ctx, db, reminderKind, opts)
}

func (s *reminderService) SendBulk(ctx context.Context, db *gorm.DB, weddingID string, batch []SendOptions) *BulkResult {
	return s.notifier.sendBulk(ctx, db, reminderKind, weddingID, batch)
}

func (s *reminderService) SendToWedding(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.ReminderRequest) (*BulkResult, error) {
	filter := repositories.FamilyFilter{IDs: req.FamilyIDs, NotResponded: true}
	batch, err := s.notifier.batchFor(ctx, db, weddingID, filter, req.Channel, adminID, false)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.SendBulk(ctx, db, weddingID, batch), nil
}

func (s *reminderService) RunAutoReminders(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	weddings, err := s.weddingRepo.FindWithAutoReminders(db.WithContext(ctx), now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, wedding := range weddings {
		if wedding.RSVPCutoffDate == nil {
			continue
		}
		windowStart := wedding.RSVPCutoffDate.Add(-time.Duration(wedding.AutoReminderDays) * 24 * time.Hour)
		if now.Before(windowStart) {
			continue
		}

		since := now.Add(-reminderCooldown)
		filter := repositories.FamilyFilter{NotResponded: true, NotRemindedSince: &since}
		batch, err := s.notifier.batchFor(ctx, db, wedding.ID, filter, models.ChannelPreferred, "", false)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to select families for auto reminders", err, "wedding_id", wedding.ID)
			continue
		}
		if len(batch) == 0 {
			continue
		}

		result := s.SendBulk(ctx, db, wedding.ID, batch)
		sent += result.Successful
	}
	return sent, nil
}
