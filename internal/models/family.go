package models

import "time"

type Family struct {
	BaseModel
	WeddingID          string     `gorm:"type:varchar(36);not null;index" json:"wedding_id"`
	Name               string     `gorm:"not null" json:"name"`
	Email              *string    `json:"email"`
	Phone              *string    `gorm:"index" json:"phone"`
	WhatsAppNumber     *string    `gorm:"column:whatsapp_number;index" json:"whatsapp_number"`
	ChannelPreference  *Channel   `gorm:"type:varchar(20)" json:"channel_preference"`
	PreferredLanguage  *Language  `gorm:"type:varchar(5)" json:"preferred_language"`
	MagicToken         string     `gorm:"not null;uniqueIndex" json:"-"`
	ReferenceCode      *string    `json:"reference_code"`
	SaveTheDateSent    *time.Time `json:"save_the_date_sent"`
	InvitationSentAt   *time.Time `json:"invitation_sent_at"`
	LastReminderSentAt *time.Time `json:"last_reminder_sent_at"`
	RSVPSubmittedAt    *time.Time `json:"rsvp_submitted_at"`

	TransportationAnswer *bool   `json:"transportation_answer"`
	ExtraQuestion1Answer *bool   `gorm:"column:extra_question_1_answer" json:"extra_question_1_answer"`
	ExtraQuestion2Answer *bool   `gorm:"column:extra_question_2_answer" json:"extra_question_2_answer"`
	ExtraQuestion3Answer *bool   `gorm:"column:extra_question_3_answer" json:"extra_question_3_answer"`
	ExtraInfo1Value      *string `gorm:"column:extra_info_1_value" json:"extra_info_1_value"`
	ExtraInfo2Value      *string `gorm:"column:extra_info_2_value" json:"extra_info_2_value"`
	ExtraInfo3Value      *string `gorm:"column:extra_info_3_value" json:"extra_info_3_value"`

	Wedding *Wedding       `gorm:"foreignKey:WeddingID" json:"-"`
	Members []FamilyMember `gorm:"foreignKey:FamilyID" json:"members"`
}

// Language возвращает язык семьи, а если он не задан - язык свадьбы по умолчанию.
func (f *Family) Language(wedding *Wedding) Language {
	if f.PreferredLanguage != nil && f.PreferredLanguage.IsValid() {
		return *f.PreferredLanguage
	}
	if wedding != nil && wedding.DefaultLanguage != "" {
		return wedding.DefaultLanguage
	}
	return LanguageEN
}

// HasSubmittedRSVP - семья ответила, если форма отправлялась или хотя бы один участник отметился.
func (f *Family) HasSubmittedRSVP() bool {
	if f.RSVPSubmittedAt != nil {
		return true
	}
	for _, m := range f.Members {
		if m.Attending != nil {
			return true
		}
	}
	return false
}

type FamilyMember struct {
	BaseModel
	FamilyID            string     `gorm:"type:varchar(36);not null;index" json:"family_id"`
	Name                string     `gorm:"not null" json:"name"`
	Type                MemberType `gorm:"type:varchar(10);default:'ADULT'" json:"type"`
	Attending           *bool      `json:"attending"`
	DietaryRestrictions *string    `json:"dietary_restrictions"`
	AccessibilityNeeds  *string    `json:"accessibility_needs"`
}
