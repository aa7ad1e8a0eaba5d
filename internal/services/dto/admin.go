package dto

import (
	"time"

	"wedding_backend/internal/models"
)

// ---------------- Auth ----------------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Role        models.UserRole `json:"role"`
	UserID      string          `json:"user_id"`
	WeddingID   string          `json:"wedding_id,omitempty"`
	Name        string          `json:"name"`
}

// ---------------- Families ----------------

type CreateMemberRequest struct {
	Name string            `json:"name" validate:"required,min=1,max=200"`
	Type models.MemberType `json:"type,omitempty" validate:"omitempty,is-member-type"`
}

type CreateFamilyRequest struct {
	Name              string                `json:"name" validate:"required,min=1,max=200"`
	Email             *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string               `json:"phone,omitempty" validate:"omitempty,is-phone"`
	WhatsAppNumber    *string               `json:"whatsapp_number,omitempty" validate:"omitempty,is-phone"`
	ChannelPreference *models.Channel       `json:"channel_preference,omitempty" validate:"omitempty,is-channel"`
	PreferredLanguage *models.Language      `json:"preferred_language,omitempty" validate:"omitempty,is-language"`
	Members           []CreateMemberRequest `json:"members" validate:"required,min=1,dive"`
}

type PaymentRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Method   string  `json:"method" validate:"required,max=50"`
	Note     string  `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ---------------- Settings ----------------

type UpdateSettingsRequest struct {
	SaveTheDateEnabled *bool                `json:"save_the_date_enabled,omitempty"`
	WhatsAppMode       *models.WhatsAppMode `json:"whatsapp_mode,omitempty" validate:"omitempty,is-whatsapp-mode"`
	RSVPCutoffDate     *time.Time           `json:"rsvp_cutoff_date,omitempty"`
	ClearRSVPCutoff    bool                 `json:"clear_rsvp_cutoff,omitempty"`
	DefaultLanguage    *models.Language     `json:"default_language,omitempty" validate:"omitempty,is-language"`
	AutoReminderDays   *int                 `json:"auto_reminder_days,omitempty" validate:"omitempty,min=0,max=60"`
}

// ---------------- Gallery ----------------

type GalleryListResponse struct {
	Photos     []models.GalleryPhoto `json:"photos"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
