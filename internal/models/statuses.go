package models

type Channel string
type Language string
type TemplateType string
type WhatsAppMode string
type EventType string
type EventStatus string
type MemberType string
type UserRole string
type PhotoSource string

const (
	ChannelEmail     Channel = "EMAIL"
	ChannelSMS       Channel = "SMS"
	ChannelWhatsApp  Channel = "WHATSAPP"
	ChannelPreferred Channel = "PREFERRED"

	LanguageEN Language = "EN"
	LanguageES Language = "ES"
	LanguageCA Language = "CA"
	LanguageFR Language = "FR"
	LanguageIT Language = "IT"
	LanguageDE Language = "DE"
	LanguagePT Language = "PT"

	TemplateTypeInvitation   TemplateType = "INVITATION"
	TemplateTypeSaveTheDate  TemplateType = "SAVE_THE_DATE"
	TemplateTypeReminder     TemplateType = "REMINDER"
	TemplateTypeConfirmation TemplateType = "CONFIRMATION"

	WhatsAppModeLinks    WhatsAppMode = "LINKS"
	WhatsAppModeProvider WhatsAppMode = "PROVIDER"

	EventLinkOpened      EventType = "LINK_OPENED"
	EventRSVPSubmitted   EventType = "RSVP_SUBMITTED"
	EventRSVPUpdated     EventType = "RSVP_UPDATED"
	EventGuestAdded      EventType = "GUEST_ADDED"
	EventGuestCreated    EventType = "GUEST_CREATED"
	EventInvitationSent  EventType = "INVITATION_SENT"
	EventSaveTheDateSent EventType = "SAVE_THE_DATE_SENT"
	EventReminderSent    EventType = "REMINDER_SENT"
	EventPaymentReceived EventType = "PAYMENT_RECEIVED"
	EventMessageReceived EventType = "MESSAGE_RECEIVED"
	EventAIReplySent     EventType = "AI_REPLY_SENT"
	EventPhotoReceived   EventType = "PHOTO_RECEIVED"
	EventTaskAssigned    EventType = "TASK_ASSIGNED"
	EventTaskCompleted   EventType = "TASK_COMPLETED"

	EventStatusProvisional EventStatus = "PROVISIONAL"
	EventStatusFinal       EventStatus = "FINAL"

	MemberTypeAdult  MemberType = "ADULT"
	MemberTypeChild  MemberType = "CHILD"
	MemberTypeInfant MemberType = "INFANT"

	UserRoleWeddingAdmin UserRole = "wedding_admin"
	UserRolePlanner      UserRole = "planner"

	PhotoSourceWhatsApp PhotoSource = "WHATSAPP"
	PhotoSourceUpload   PhotoSource = "UPLOAD"
)

// SupportedLanguages - языки, для которых есть локализованные даты и копирайт писем.
var SupportedLanguages = []Language{
	LanguageEN, LanguageES, LanguageCA, LanguageFR, LanguageIT, LanguageDE, LanguagePT,
}

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

func (l Language) IsValid() bool {
	for _, s := range SupportedLanguages {
		if s == l {
			return true
		}
	}
	return false
}
