package dto

import "wedding_backend/internal/models"

// ---------------- Requests ----------------

type SaveTheDateRequest struct {
	FamilyIDs []string       `json:"family_ids,omitempty"`
	Channel   models.Channel `json:"channel,omitempty" validate:"omitempty,is-channel"`
}

type InvitationRequest struct {
	FamilyIDs []string       `json:"family_ids,omitempty"`
	Channel   models.Channel `json:"channel,omitempty" validate:"omitempty,is-channel"`
	Resend    bool           `json:"resend"`
}

type ReminderRequest struct {
	FamilyIDs []string       `json:"family_ids,omitempty"`
	Channel   models.Channel `json:"channel,omitempty" validate:"omitempty,is-channel"`
}
