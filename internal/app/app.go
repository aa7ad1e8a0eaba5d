package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wedding_backend/internal/assistant"
	"wedding_backend/internal/auth"
	"wedding_backend/internal/config"
	"wedding_backend/internal/email"
	"wedding_backend/internal/handlers"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/middleware"
	"wedding_backend/internal/ratelimit"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/routes"
	"wedding_backend/internal/services"
	"wedding_backend/internal/storage"
	"wedding_backend/internal/validator"
	"wedding_backend/internal/workers"
	"wedding_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App - собранное приложение: БД, сервисы, фоновые воркеры
type App struct {
	cfg      *config.Config
	db       *gorm.DB
	services *services.ServiceContainer
	queue    *workers.TaskQueue
	limiter  *ratelimit.MemoryStore
	weddings repositories.WeddingRepository
}

// Bootstrap читает конфигурацию и настраивает глобальные пакеты
func Bootstrap() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	auth.Configure(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	return cfg, nil
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(ctx, storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		AccountID:  cfg.Storage.AccountID,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	a := &App{
		cfg:      cfg,
		db:       db,
		queue:    workers.NewTaskQueue(cfg.Queue.Workers, cfg.Queue.Size),
		limiter:  ratelimit.NewMemoryStore(cfg.RateLimit.Window),
		weddings: repositories.NewWeddingRepository(),
	}
	a.services, err = a.initializeServices(store)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) initializeServices(store storage.Storage) (*services.ServiceContainer, error) {
	cfg := a.cfg

	var emailProvider email.Provider
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, emails will only be logged")
		emailProvider = LogEmailProvider{}
	} else {
		emailProvider = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	}
	renderer, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	twilio := messaging.NewTwilioClient(messaging.TwilioConfig{
		AccountSID:   cfg.Twilio.AccountSID,
		AuthToken:    cfg.Twilio.AuthToken,
		SMSFrom:      cfg.Twilio.SMSFrom,
		WhatsAppFrom: cfg.Twilio.WhatsAppFrom,
	})

	ai := assistant.New(assistant.Config{
		OpenAIKey:      cfg.AI.OpenAIKey,
		OpenAIModel:    cfg.AI.OpenAIModel,
		AnthropicKey:   cfg.AI.AnthropicKey,
		AnthropicModel: cfg.AI.AnthropicModel,
		Timeout:        cfg.AI.Timeout,
	})
	if ai == nil {
		logger.Warn("No AI provider configured, WhatsApp messages will not get automatic replies")
	}

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	familyRepo := repositories.NewFamilyRepository()
	templateRepo := repositories.NewTemplateRepository()
	eventRepo := repositories.NewTrackingEventRepository()
	notificationRepo := repositories.NewNotificationRepository()
	shortLinkRepo := repositories.NewShortLinkRepository()
	galleryRepo := repositories.NewGalleryRepository()

	// --- Сервисы ---
	emailAdapter := services.NewEmailAdapter(emailProvider, renderer)
	dispatcher := services.NewDispatcher(emailAdapter, services.NewSMSAdapter(twilio), services.NewWhatsAppAdapter(twilio))

	tracking := services.NewTrackingService(eventRepo, a.queue)
	links := services.NewShortLinkService(shortLinkRepo, cfg.App.URL)
	magicLinks := services.NewMagicLinkService(familyRepo, a.weddings, cfg.Cache.WeddingPageTTL)
	gallery := services.NewGalleryService(galleryRepo, tracking, store, cfg.UploadPolicy())
	notifier := services.NewNotifier(familyRepo, templateRepo, tracking, links, dispatcher, cfg.App.URL)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo),
		WeddingService:      services.NewWeddingService(a.weddings, magicLinks),
		FamilyService:       services.NewFamilyService(familyRepo, tracking, links),
		GuestService:        services.NewGuestService(magicLinks, familyRepo, templateRepo, tracking, gallery, links, emailAdapter, a.queue),
		MagicLinkService:    magicLinks,
		ShortLinkService:    links,
		SaveTheDateService:  services.NewSaveTheDateService(notifier, a.weddings),
		InvitationService:   services.NewInvitationService(notifier),
		ReminderService:     services.NewReminderService(notifier, a.weddings),
		TrackingService:     tracking,
		TimelineService:     services.NewTimelineService(familyRepo, eventRepo, userRepo),
		NotificationService: services.NewNotificationService(notificationRepo),
		GalleryService:      gallery,
		WebhookService:      services.NewWhatsAppWebhookService(familyRepo, twilio, tracking, gallery, links, magicLinks, ai, cfg.Twilio.PublicWebhookURL),
		EmailProvider:       emailProvider,
		Storage:             store,
	}, nil
}

func (a *App) initializeHandlers() *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())
	svc := a.services

	return &handlers.AppHandlers{
		AuthHandler:          handlers.NewAuthHandler(base, svc.AuthService),
		GuestHandler:         handlers.NewGuestHandler(base, svc.GuestService, svc.GalleryService.MaxSize()),
		ShortLinkHandler:     handlers.NewShortLinkHandler(base, svc.ShortLinkService),
		WebhookHandler:       handlers.NewWebhookHandler(base, svc.WebhookService),
		CommunicationHandler: handlers.NewCommunicationHandler(base, svc.SaveTheDateService, svc.InvitationService, svc.ReminderService),
		FamilyHandler:        handlers.NewFamilyHandler(base, svc.FamilyService, svc.TimelineService),
		WeddingHandler:       handlers.NewWeddingHandler(base, svc.WeddingService, svc.GalleryService),
		NotificationHandler:  handlers.NewNotificationHandler(base, svc.NotificationService),
	}
}

// Router собирает gin.Engine со всеми middleware и маршрутами
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(a.cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(a.db))

	if local, ok := a.services.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(a.cfg.Storage.BaseURL, "/") {
		router.Static(a.cfg.Storage.BaseURL, local.Root())
	}

	routes.RegisterRoutes(router, a.initializeHandlers(), routes.Options{
		Weddings:   a.weddings,
		PhotoLimit: middleware.RateLimitByIP(a.limiter, "guest_photos", a.cfg.RateLimit.PhotoUploads, a.cfg.RateLimit.Window),
		Swagger:    !a.cfg.IsProduction(),
	})
	return router
}

// Serve запускает HTTP сервер и воркеры до отмены ctx, затем корректно останавливается
func (a *App) Serve(ctx context.Context) error {
	a.limiter.StartCleanup(ctx, 10*time.Minute)
	a.services.MagicLinkService.StartCacheCleanup(ctx, 10*time.Minute)
	workers.NewReminderWorker(a.db, a.services.ReminderService, a.cfg.Reminders.Interval).Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server startup error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	return a.Close(shutdownCtx)
}

// SendReminders - один проход автоматических напоминаний (команда send-reminders)
func (a *App) SendReminders(ctx context.Context) int {
	return workers.NewReminderWorker(a.db, a.services.ReminderService, 0).RunOnce(ctx)
}

func (a *App) DB() *gorm.DB {
	return a.db
}

// Close дожидается фоновых задач и закрывает соединения
func (a *App) Close(ctx context.Context) error {
	if err := a.queue.Shutdown(ctx); err != nil {
		logger.Warn("Background tasks did not finish in time", "error", err)
	}
	if err := a.services.EmailProvider.Close(); err != nil {
		logger.Warn("Failed to close email provider", "error", err)
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
