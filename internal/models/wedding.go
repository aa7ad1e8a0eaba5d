package models

import "time"

type Wedding struct {
	BaseModel
	PlannerID          string       `gorm:"type:varchar(36);index" json:"planner_id"`
	CoupleNames        string       `gorm:"not null" json:"couple_names"`
	WeddingDate        time.Time    `gorm:"not null" json:"wedding_date"`
	WeddingTime        string       `json:"wedding_time"`
	Location           string       `json:"location"`
	DefaultLanguage    Language     `gorm:"type:varchar(5);default:'EN'" json:"default_language"`
	SaveTheDateEnabled bool         `gorm:"default:false" json:"save_the_date_enabled"`
	WhatsAppMode       WhatsAppMode `gorm:"column:whatsapp_mode;type:varchar(20);default:'LINKS'" json:"whatsapp_mode"`
	RSVPCutoffDate     *time.Time   `json:"rsvp_cutoff_date"`
	AutoReminderDays   int          `gorm:"default:0" json:"auto_reminder_days"`

	TransportationQuestionEnabled bool   `gorm:"default:false" json:"transportation_question_enabled"`
	ExtraQuestion1Label           string `gorm:"column:extra_question_1_label" json:"extra_question_1_label,omitempty"`
	ExtraQuestion2Label           string `gorm:"column:extra_question_2_label" json:"extra_question_2_label,omitempty"`
	ExtraQuestion3Label           string `gorm:"column:extra_question_3_label" json:"extra_question_3_label,omitempty"`
	ExtraInfo1Label               string `gorm:"column:extra_info_1_label" json:"extra_info_1_label,omitempty"`
	ExtraInfo2Label               string `gorm:"column:extra_info_2_label" json:"extra_info_2_label,omitempty"`
	ExtraInfo3Label               string `gorm:"column:extra_info_3_label" json:"extra_info_3_label,omitempty"`

	ThemeID *string `gorm:"type:varchar(36)" json:"theme_id"`
	Theme   *Theme  `gorm:"foreignKey:ThemeID" json:"theme,omitempty"`
}

// RSVPCutoffPassed - после даты отсечки гости не могут менять ответ.
func (w *Wedding) RSVPCutoffPassed(now time.Time) bool {
	return w.RSVPCutoffDate != nil && now.After(*w.RSVPCutoffDate)
}

type Theme struct {
	BaseModel
	Name               string `gorm:"not null" json:"name"`
	PrimaryColor       string `json:"primary_color"`
	SecondaryColor     string `json:"secondary_color"`
	FontFamily         string `json:"font_family"`
	BackgroundImageURL string `json:"background_image_url"`
}
