package dto

import (
	"time"

	"wedding_backend/internal/models"
)

type TriggeredBy struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

type TimelineEvent struct {
	ID              string             `json:"id"`
	EventType       models.EventType   `json:"event_type"`
	Channel         *models.Channel    `json:"channel"`
	Metadata        any                `json:"metadata"`
	AdminTriggered  bool               `json:"admin_triggered"`
	Timestamp       time.Time          `json:"timestamp"`
	Status          models.EventStatus `json:"status"`
	TriggeredByUser *TriggeredBy       `json:"triggered_by_user"`
}

type TimelineFamily struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TimelineResponse struct {
	Events []TimelineEvent `json:"events"`
	Family TimelineFamily  `json:"family"`
}
