package email

import (
	"context"
	"testing"

	"wedding_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLayout_Localized(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	out, err := RenderLayout(tm, models.LanguageCA, LayoutData{
		Title:       "Save the date",
		Body:        BodyToHTML("Hola Família Puig,\nus esperem!"),
		ImageURL:    "https://cdn.example.com/std.jpg",
		CoupleNames: "Anna & Pau",
		ButtonURL:   "https://app.example.com/s/abc",
	})
	require.NoError(t, err)

	assert.Contains(t, out, `lang="ca"`)
	assert.Contains(t, out, "Hola Família Puig,<br>us esperem!")
	assert.Contains(t, out, "casament de Anna &amp; Pau")
	assert.Contains(t, out, "Obrir invitació")
	assert.Contains(t, out, `src="https://cdn.example.com/std.jpg"`)
}

func TestBodyToHTML_KeepsMarkup(t *testing.T) {
	assert.Equal(t, "<p>Hi <b>there</b></p>", string(BodyToHTML("<p>Hi <b>there</b></p>")))
	assert.Equal(t, "a &amp; b", string(BodyToHTML("a & b")))
}

func TestCopyFor_Fallback(t *testing.T) {
	assert.Equal(t, CopyFor(models.LanguageEN), CopyFor(models.Language("XX")))
	assert.Equal(t, "Hochzeit von Lea & Jan", SenderName(models.LanguageDE, "Lea & Jan"))
}

func TestSMTPProvider_AppliesDefaults(t *testing.T) {
	cfg := &SMTPConfig{Host: "smtp.example.com", FromEmail: "noreply@example.com"}
	p := NewSMTPProvider(cfg)

	assert.Equal(t, 587, p.dialer.Port)
	assert.Equal(t, DefaultConfig().Timeout, cfg.Timeout)
	assert.NoError(t, p.Validate())
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Port: 587})
	_, err := p.Send(context.Background(), &Email{To: []string{"a@x.com"}})
	assert.Error(t, err)

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@example.com"})
	assert.NoError(t, p.Validate())
	assert.Equal(t, "example.com", p.messageDomain())
}
