package services

import (
	"fmt"
	"strings"

	"wedding_backend/internal/models"
)

// NoContactError - у семьи нет ни запрошенного контакта, ни email для отката
type NoContactError struct {
	Channel models.Channel
}

func (e *NoContactError) Error() string {
	if e.Channel == models.ChannelEmail {
		return "Family has no email address"
	}
	return fmt.Sprintf("Family has no %s or email address", contactLabel(e.Channel))
}

func contactLabel(ch models.Channel) string {
	switch ch {
	case models.ChannelSMS:
		return "phone number"
	case models.ChannelWhatsApp:
		return "WhatsApp number"
	default:
		return "email address"
	}
}

// ResolveChannel выбирает канал доставки для семьи.
// Явный канал важнее предпочтения семьи; без контакта канал откатывается на EMAIL.
func ResolveChannel(requested models.Channel, family *models.Family) (models.Channel, error) {
	channel := requested
	if channel == "" || channel == models.ChannelPreferred {
		channel = models.ChannelEmail
		if family.ChannelPreference != nil && family.ChannelPreference.IsValid() {
			channel = *family.ChannelPreference
		}
	}

	if ContactFor(channel, family) != "" {
		return channel, nil
	}
	if channel != models.ChannelEmail && ContactFor(models.ChannelEmail, family) != "" {
		return models.ChannelEmail, nil
	}
	return "", &NoContactError{Channel: channel}
}

// ContactFor возвращает адрес семьи для канала или пустую строку
func ContactFor(channel models.Channel, family *models.Family) string {
	var value *string
	switch channel {
	case models.ChannelEmail:
		value = family.Email
	case models.ChannelSMS:
		value = family.Phone
	case models.ChannelWhatsApp:
		value = family.WhatsAppNumber
	}
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
