package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler          *AuthHandler
	GuestHandler         *GuestHandler
	ShortLinkHandler     *ShortLinkHandler
	WebhookHandler       *WebhookHandler
	CommunicationHandler *CommunicationHandler
	FamilyHandler        *FamilyHandler
	WeddingHandler       *WeddingHandler
	NotificationHandler  *NotificationHandler
}
