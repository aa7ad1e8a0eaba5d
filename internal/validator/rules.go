package validator

import (
	"log"
	"regexp"

	"wedding_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)

// registerCustomRules регистрирует кастомные правила предметной области
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-channel': EMAIL | SMS | WHATSAPP | PREFERRED
	mustRegister("is-channel", validateChannel)
	mustRegister("is-language", validateLanguage)
	mustRegister("is-whatsapp-mode", validateWhatsAppMode)
	mustRegister("is-member-type", validateMemberType)
	mustRegister("is-phone", validatePhone)
}

func validateChannel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	ch := models.Channel(value)
	return ch.IsValid() || ch == models.ChannelPreferred
}

func validateLanguage(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Language(value).IsValid()
}

func validateWhatsAppMode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.WhatsAppMode(value) {
	case models.WhatsAppModeLinks, models.WhatsAppModeProvider:
		return true
	default:
		return false
	}
}

func validateMemberType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MemberType(value) {
	case models.MemberTypeAdult, models.MemberTypeChild, models.MemberTypeInfant:
		return true
	default:
		return false
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return phoneRe.MatchString(value)
}
