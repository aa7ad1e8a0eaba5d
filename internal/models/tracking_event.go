package models

import (
	"time"

	"gorm.io/datatypes"
)

// TrackingEvent - запись журнала событий семьи. После FINAL не меняется.
type TrackingEvent struct {
	BaseModel
	FamilyID       string         `gorm:"type:varchar(36);not null;index:idx_event_family_ts" json:"family_id"`
	WeddingID      string         `gorm:"type:varchar(36);not null;index" json:"wedding_id"`
	EventType      EventType      `gorm:"type:varchar(40);not null;index" json:"event_type"`
	Channel        *Channel       `gorm:"type:varchar(20)" json:"channel"`
	Metadata       datatypes.JSON `json:"metadata"`
	AdminTriggered bool           `gorm:"default:false" json:"admin_triggered"`
	Timestamp      time.Time      `gorm:"not null;index:idx_event_family_ts" json:"timestamp"`
	Status         EventStatus    `gorm:"type:varchar(20);not null;default:'FINAL'" json:"status"`
	Version        int            `gorm:"not null;default:1" json:"version"`

	Family *Family `gorm:"foreignKey:FamilyID" json:"-"`
}
