package models

type GalleryPhoto struct {
	BaseModel
	WeddingID     string      `gorm:"type:varchar(36);not null;index" json:"wedding_id"`
	FamilyID      *string     `gorm:"type:varchar(36);index" json:"family_id"`
	StoragePath   string      `gorm:"not null" json:"-"`
	ThumbnailPath string      `json:"-"`
	URL           string      `json:"url"`
	ThumbnailURL  string      `json:"thumbnail_url"`
	ContentType   string      `json:"content_type"`
	Source        PhotoSource `gorm:"type:varchar(20);not null" json:"source"`
	MessageSID    *string     `gorm:"column:message_sid" json:"message_sid,omitempty"`
}
