package dto

import "wedding_backend/internal/models"

// ---------------- Requests ----------------

type RSVPMemberInput struct {
	ID                  string  `json:"id" validate:"required"`
	Attending           *bool   `json:"attending" validate:"required"`
	DietaryRestrictions *string `json:"dietary_restrictions,omitempty" validate:"omitempty,max=500"`
	AccessibilityNeeds  *string `json:"accessibility_needs,omitempty" validate:"omitempty,max=500"`
}

type RSVPRequest struct {
	Members              []RSVPMemberInput `json:"members" validate:"required,min=1,dive"`
	TransportationAnswer *bool             `json:"transportation_answer,omitempty"`
	ExtraQuestion1Answer *bool             `json:"extra_question_1_answer,omitempty"`
	ExtraQuestion2Answer *bool             `json:"extra_question_2_answer,omitempty"`
	ExtraQuestion3Answer *bool             `json:"extra_question_3_answer,omitempty"`
	ExtraInfo1Value      *string           `json:"extra_info_1_value,omitempty" validate:"omitempty,max=500"`
	ExtraInfo2Value      *string           `json:"extra_info_2_value,omitempty" validate:"omitempty,max=500"`
	ExtraInfo3Value      *string           `json:"extra_info_3_value,omitempty" validate:"omitempty,max=500"`
}

// ---------------- Responses ----------------

type GuestPageResponse struct {
	Family           *models.Family  `json:"family"`
	Wedding          *models.Wedding `json:"wedding"`
	Theme            *models.Theme   `json:"theme"`
	RSVPCutoffPassed bool            `json:"rsvp_cutoff_passed"`
	HasSubmittedRSVP bool            `json:"has_submitted_rsvp"`
}

type RSVPResponse struct {
	Family  *models.Family `json:"family"`
	Updated bool           `json:"updated"`
}
