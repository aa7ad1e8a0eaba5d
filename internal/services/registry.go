package services

import (
	"wedding_backend/internal/email"
	"wedding_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	WeddingService      WeddingService
	FamilyService       FamilyService
	GuestService        GuestService
	MagicLinkService    MagicLinkService
	ShortLinkService    ShortLinkService
	SaveTheDateService  SaveTheDateService
	InvitationService   InvitationService
	ReminderService     ReminderService
	TrackingService     TrackingService
	TimelineService     TimelineService
	NotificationService NotificationService
	GalleryService      GalleryService
	WebhookService      WhatsAppWebhookService
	EmailProvider       email.Provider
	Storage             storage.Storage
}
