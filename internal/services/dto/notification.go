package dto

import (
	"time"

	"wedding_backend/internal/models"
)

type NotificationCriteria struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page" validate:"omitempty,min=1"`
	PageSize   int  `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	FamilyID  string           `json:"family_id"`
	EventType models.EventType `json:"event_type"`
	Channel   *models.Channel  `json:"channel"`
	Metadata  any              `json:"metadata"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}
