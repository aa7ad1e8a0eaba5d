package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"wedding_backend/internal/assistant"
	"wedding_backend/internal/config"
	"wedding_backend/internal/email"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/storage"
	"wedding_backend/internal/testutil"
	"wedding_backend/internal/workers"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAppURL = "https://rsvp.example.com"

type fakeMailer struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg *email.Email) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("mail-%d", len(f.sent)), nil
}

func (f *fakeMailer) Validate() error { return nil }
func (f *fakeMailer) Close() error    { return nil }

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeMessaging struct {
	mu        sync.Mutex
	sms       []string
	whatsapp  []messaging.WhatsAppMessage
	signature string
	media     []byte
	err       error
}

func (f *fakeMessaging) SendSMS(_ context.Context, to, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sms = append(f.sms, to)
	return fmt.Sprintf("SM%d", len(f.sms)), nil
}

func (f *fakeMessaging) SendWhatsApp(_ context.Context, msg messaging.WhatsAppMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.whatsapp = append(f.whatsapp, msg)
	return fmt.Sprintf("WA%d", len(f.whatsapp)), nil
}

func (f *fakeMessaging) ValidateSignature(_ string, _ map[string]string, signature string) bool {
	return signature != "" && signature == f.signature
}

func (f *fakeMessaging) DownloadMedia(_ context.Context, _ string, _ int64) ([]byte, string, error) {
	if f.media == nil {
		return nil, "", errors.New("no media")
	}
	return f.media, "image/png", nil
}

type fakeAssistant struct {
	reply string
	err   error
	calls int
	last  assistant.Request
}

func (f *fakeAssistant) Reply(_ context.Context, req assistant.Request) (*assistant.Reply, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &assistant.Reply{Text: f.reply, Provider: "fake"}, nil
}

// testEnv - сервисы поверх sqlite с синхронным фоновым исполнителем
type testEnv struct {
	db        *gorm.DB
	mailer    *fakeMailer
	messaging *fakeMessaging

	familyRepo   repositories.FamilyRepository
	eventRepo    repositories.TrackingEventRepository
	weddingRepo  repositories.WeddingRepository
	templateRepo repositories.TemplateRepository
	userRepo     repositories.UserRepository

	tracking    TrackingService
	links       ShortLinkService
	magicLinks  MagicLinkService
	gallery     GalleryService
	notifier    *Notifier
	saveTheDate SaveTheDateService
	invitations InvitationService
	reminders   ReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	renderer, err := email.NewTemplateManager()
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)

	env := &testEnv{
		db:           db,
		mailer:       &fakeMailer{},
		messaging:    &fakeMessaging{signature: "valid"},
		familyRepo:   repositories.NewFamilyRepository(),
		eventRepo:    repositories.NewTrackingEventRepository(),
		weddingRepo:  repositories.NewWeddingRepository(),
		templateRepo: repositories.NewTemplateRepository(),
		userRepo:     repositories.NewUserRepository(),
	}

	env.tracking = NewTrackingService(env.eventRepo, workers.InlineRunner{})
	env.links = NewShortLinkService(repositories.NewShortLinkRepository(), testAppURL)
	env.magicLinks = NewMagicLinkService(env.familyRepo, env.weddingRepo, 0)
	env.gallery = NewGalleryService(repositories.NewGalleryRepository(), env.tracking, store, config.UploadPolicy{
		MaxSize:      5 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png"},
		ImageQuality: 80,
	})

	dispatcher := NewDispatcher(
		NewEmailAdapter(env.mailer, renderer),
		NewSMSAdapter(env.messaging),
		NewWhatsAppAdapter(env.messaging),
	)
	env.notifier = NewNotifier(env.familyRepo, env.templateRepo, env.tracking, env.links, dispatcher, testAppURL)
	env.saveTheDate = NewSaveTheDateService(env.notifier, env.weddingRepo)
	env.invitations = NewInvitationService(env.notifier)
	env.reminders = NewReminderService(env.notifier, env.weddingRepo)
	return env
}

func (e *testEnv) emailAdapter(t *testing.T) *EmailAdapter {
	t.Helper()
	renderer, err := email.NewTemplateManager()
	require.NoError(t, err)
	return NewEmailAdapter(e.mailer, renderer)
}
