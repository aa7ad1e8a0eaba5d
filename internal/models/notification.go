package models

import "time"

// EventReadState - отметка "прочитано" для события журнала, отдельно для каждого админа.
type EventReadState struct {
	BaseModel
	EventID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_admin" json:"event_id"`
	AdminID string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_admin;index" json:"admin_id"`
	Read    bool       `gorm:"column:is_read;default:false" json:"read"`
	ReadAt  *time.Time `json:"read_at"`

	Event *TrackingEvent `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (EventReadState) TableName() string {
	return "notifications"
}
