package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// NotificationService - центр уведомлений админа поверх журнала событий
type NotificationService interface {
	GetNotifications(ctx context.Context, db *gorm.DB, weddingID, adminID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, weddingID, eventID, adminID string) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, weddingID, adminID string) (int64, error)
	GetUnreadCount(ctx context.Context, db *gorm.DB, weddingID, adminID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, db *gorm.DB, weddingID, adminID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 20
	}

	rows, total, err := s.notificationRepo.FindForAdmin(db.WithContext(ctx), weddingID, adminID, repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.buildNotificationResponse(ctx, row))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    totalPages(total, criteria.PageSize),
	}, nil
}

// MarkAsRead - ошибки хранилища только логируются, клиенту это не важно
func (s *notificationService) MarkAsRead(ctx context.Context, db *gorm.DB, weddingID, eventID, adminID string) error {
	err := s.notificationRepo.MarkAsRead(db.WithContext(ctx), weddingID, eventID, adminID, time.Now().UTC())
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrTrackingEventNotFound) {
		return apperrors.ErrEventNotFound
	}
	logger.CtxWithError(ctx, "Failed to mark notification as read", err, "event_id", eventID)
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, db *gorm.DB, weddingID, adminID string) (int64, error) {
	marked, err := s.notificationRepo.MarkAllAsRead(db.WithContext(ctx), weddingID, adminID, time.Now().UTC())
	if err != nil {
		logger.CtxWithError(ctx, "Failed to mark all notifications as read", err, "wedding_id", weddingID)
		return 0, nil
	}
	return marked, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, db *gorm.DB, weddingID, adminID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(db.WithContext(ctx), weddingID, adminID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) buildNotificationResponse(ctx context.Context, row repositories.NotificationRow) *dto.NotificationResponse {
	var metadata any = json.RawMessage(row.Metadata)
	if meta, err := models.DecodeMetadata(row.EventType, row.Metadata); err == nil {
		metadata = meta
	} else {
		logger.CtxWarn(ctx, "Undecodable event metadata", "event_id", row.ID, "error", err)
	}
	return &dto.NotificationResponse{
		ID:        row.ID,
		FamilyID:  row.FamilyID,
		EventType: row.EventType,
		Channel:   row.Channel,
		Metadata:  metadata,
		Timestamp: row.Timestamp,
		Read:      row.Read,
		ReadAt:    row.ReadAt,
	}
}
