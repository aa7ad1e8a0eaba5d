package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendRequest struct {
	Channel  string `json:"channel" validate:"omitempty,is-channel"`
	Language string `json:"language" validate:"omitempty,is-language"`
	Mode     string `json:"whatsapp_mode" validate:"omitempty,is-whatsapp-mode"`
	Phone    string `json:"phone" validate:"omitempty,is-phone"`
	Name     string `json:"name" validate:"required"`
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sendRequest{Name: "Garcia", Channel: "PREFERRED", Language: "CA", Mode: "LINKS", Phone: "+34 600 123 456"}))

	err := v.Validate(&sendRequest{Channel: "FAX", Language: "XX", Mode: "SMOKE", Phone: "abc"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["name"])
	assert.Contains(t, vErr.Errors["channel"], "EMAIL")
	assert.Contains(t, vErr.Errors, "language")
	assert.Contains(t, vErr.Errors, "whatsapp_mode")
	assert.Contains(t, vErr.Errors, "phone")
}
