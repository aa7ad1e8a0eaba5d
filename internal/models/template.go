package models

import "gorm.io/datatypes"

// MessageTemplate - текст сообщения для (свадьба, тип, язык, канал).
type MessageTemplate struct {
	BaseModel
	WeddingID         string         `gorm:"type:varchar(36);not null;index:idx_template_lookup" json:"wedding_id"`
	Type              TemplateType   `gorm:"type:varchar(30);not null;index:idx_template_lookup" json:"type"`
	Language          Language       `gorm:"type:varchar(5);not null;index:idx_template_lookup" json:"language"`
	Channel           Channel        `gorm:"type:varchar(20);not null;index:idx_template_lookup" json:"channel"`
	Subject           string         `json:"subject"`
	Body              string         `gorm:"type:text;not null" json:"body"`
	ImageURL          *string        `json:"image_url"`
	ContentTemplateID *string        `json:"content_template_id"`
	ContentVariables  datatypes.JSON `json:"content_variables"` // {"1": "familyName", "2": "magicLink"}
	IsActive          bool           `gorm:"default:true" json:"is_active"`
}
