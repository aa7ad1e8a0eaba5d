package messaging

import (
	"strings"
	"unicode"
)

const whatsAppPrefix = "whatsapp:"

// NormalizePhone оставляет только цифры международного номера без '+'.
// Международный префикс "00" отбрасывается.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range StripChannelPrefix(raw) {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), "00")
}

// StripChannelPrefix убирает "whatsapp:" из адреса Twilio
func StripChannelPrefix(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) >= len(whatsAppPrefix) && strings.EqualFold(addr[:len(whatsAppPrefix)], whatsAppPrefix) {
		return addr[len(whatsAppPrefix):]
	}
	return addr
}

// E164 -> "+<digits>"
func E164(raw string) string {
	digits := NormalizePhone(raw)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// WhatsAppAddress -> "whatsapp:+<digits>"
func WhatsAppAddress(raw string) string {
	if e := E164(raw); e != "" {
		return whatsAppPrefix + e
	}
	return ""
}
