package messaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	vars := map[string]string{"a": "X", "b": "Y", "familyName": "Famille Müller"}

	assert.Equal(t, "X Y", Render("{{a}} {{b}}", vars))
	assert.Equal(t, "X Y", Render("{{ a }} {{b }}", vars))
	assert.Equal(t, "Hello {{unknown}}", Render("Hello {{unknown}}", vars))
	assert.Equal(t, "no vars {{a}}", Render("no vars {{a}}", nil))
}

func TestRender_UnicodeAndLineBreaks(t *testing.T) {
	vars := map[string]string{
		"familyName":  "Família Gonçalves 👨‍👩‍👧",
		"coupleNames": "محمد & ليلى",
		"location":    "東京",
	}
	tpl := "Benvolguts {{familyName}},\n\n‏{{coupleNames}} 💍\r\nLloc: {{location}}\n"
	want := "Benvolguts Família Gonçalves 👨‍👩‍👧,\n\n‏محمد & ليلى 💍\r\nLloc: 東京\n"
	assert.Equal(t, want, Render(tpl, vars))
}

func TestRender_NoHTMLEscaping(t *testing.T) {
	out := Render("<p>{{name}}</p>", map[string]string{"name": "<b>Ana & Joan</b>"})
	assert.Equal(t, "<p><b>Ana & Joan</b></p>", out)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "34600123456", NormalizePhone("whatsapp:+34 600 123 456"))
	assert.Equal(t, "34600123456", NormalizePhone("0034 (600) 123-456"))
	assert.Equal(t, "+34600123456", E164("34600123456"))
	assert.Equal(t, "whatsapp:+34600123456", WhatsAppAddress("+34 600 123 456"))
	assert.Equal(t, "", WhatsAppAddress(""))
}

func TestWaMeLink(t *testing.T) {
	link := WaMeLink("+34 600 123 456", "Hola Ana & Joan!\nhttps://x.y/s/abc?x=1")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/34600123456?text="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "%20")
	assert.Contains(t, link, "%26")
	assert.Contains(t, link, "%0A")

	assert.Equal(t, "https://wa.me/34600123456", WaMeLink("34600123456", ""))
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("https://example.com/s/abc", 128)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestTwiML(t *testing.T) {
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`, TwiML(""))
	out := TwiML(`See you <soon> & "bring" snacks`)
	assert.Contains(t, out, "<Message>See you &lt;soon&gt; &amp; &#34;bring&#34; snacks</Message>")
}

func TestTwilioClient_NotConfigured(t *testing.T) {
	c := NewTwilioClient(TwilioConfig{})
	_, err := c.SendSMS(t.Context(), "+34600123456", "hi")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	assert.False(t, c.ValidateSignature("https://x", nil, "sig"))
}
