package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"wedding_backend/internal/assistant"
	"wedding_backend/internal/email"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/retry"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	maxStoredBodyRunes = 1000
	replyPreviewRunes  = 200
	phoneSuffixDigits  = 9
)

// InboundMessage - входящий вебхук Twilio
type InboundMessage struct {
	// URL, по которому Twilio считал подпись
	URL       string
	Signature string
	Params    map[string]string
}

type WhatsAppWebhookService interface {
	// Verify - ошибки 400/403 до какой-либо записи
	Verify(msg *InboundMessage) error
	// Handle никогда не возвращает ошибку: в худшем случае пустой TwiML
	Handle(ctx context.Context, db *gorm.DB, msg *InboundMessage) string
}

type whatsAppWebhookService struct {
	familyRepo repositories.FamilyRepository
	client     messaging.Client
	tracking   TrackingService
	gallery    GalleryService
	links      ShortLinkService
	weddings   MagicLinkService
	assistant  assistant.Assistant
	publicURL  string
	retry      retry.Policy
}

func NewWhatsAppWebhookService(
	familyRepo repositories.FamilyRepository,
	client messaging.Client,
	tracking TrackingService,
	gallery GalleryService,
	links ShortLinkService,
	weddings MagicLinkService,
	ai assistant.Assistant,
	publicURL string,
) WhatsAppWebhookService {
	return &whatsAppWebhookService{
		familyRepo: familyRepo,
		client:     client,
		tracking:   tracking,
		gallery:    gallery,
		links:      links,
		weddings:   weddings,
		assistant:  ai,
		publicURL:  publicURL,
		retry:      retry.Default,
	}
}

func (s *whatsAppWebhookService) Verify(msg *InboundMessage) error {
	if msg.Signature == "" {
		return apperrors.ErrMissingSignature
	}
	url := s.publicURL
	if url == "" {
		url = msg.URL
	}
	if !s.client.ValidateSignature(url, msg.Params, msg.Signature) {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

func (s *whatsAppWebhookService) Handle(ctx context.Context, db *gorm.DB, msg *InboundMessage) (twiml string) {
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "Panic in WhatsApp webhook", "panic", r)
			twiml = messaging.TwiML("")
		}
	}()

	from := messaging.StripChannelPrefix(msg.Params["From"])
	body := strings.TrimSpace(msg.Params["Body"])
	sid := msg.Params["MessageSid"]
	numMedia, _ := strconv.Atoi(msg.Params["NumMedia"])
	ctx = logger.WithCorrelationID(ctx, sid)
	log := logger.FromContext(ctx).With("num_media", numMedia)

	family := s.findFamily(ctx, db, from)

	if numMedia > 0 {
		s.storeMedia(ctx, db, family, msg.Params, sid, numMedia)
	}

	if body == "" {
		if numMedia > 0 {
			return messaging.TwiML(email.CopyFor(s.language(ctx, db, family)).PhotoThanks)
		}
		return messaging.TwiML("")
	}

	if family == nil {
		log.Infow("Message from unknown number")
		return messaging.TwiML("")
	}

	event, err := s.tracking.TrackProvisional(ctx, db, TrackInput{
		FamilyID:  family.ID,
		WeddingID: family.WeddingID,
		Channel:   channelPtr(models.ChannelWhatsApp),
		Metadata: &models.MessageReceivedMeta{
			From:       from,
			Body:       truncateRunes(body, maxStoredBodyRunes),
			MessageSID: sid,
			NumMedia:   numMedia,
		},
	})
	if err != nil {
		log.Errorw("Failed to record inbound message", "error", err)
	}

	if s.assistant == nil {
		return messaging.TwiML("")
	}

	reply, err := s.generateReply(ctx, db, family, body)
	if err != nil {
		log.Warnw("AI reply failed", "error", err)
		return messaging.TwiML("")
	}
	if reply == nil || reply.Text == "" {
		return messaging.TwiML("")
	}

	if event != nil {
		err := s.retry.Do(ctx, func(ctx context.Context) error {
			return s.tracking.Finalize(ctx, db, event.ID, event.Version, func(meta models.EventMetadata) {
				if m, ok := meta.(*models.MessageReceivedMeta); ok {
					m.AIReply = reply.Text
					m.AIProvider = reply.Provider
				}
			})
		})
		if err != nil {
			log.Errorw("Failed to attach AI reply to message event", "error", err, "event_id", event.ID)
		}
	}

	err = s.retry.Do(ctx, func(ctx context.Context) error {
		_, err := s.tracking.Record(ctx, db, TrackInput{
			FamilyID:  family.ID,
			WeddingID: family.WeddingID,
			Channel:   channelPtr(models.ChannelWhatsApp),
			Metadata: &models.AIReplySentMeta{
				InReplyTo:    sid,
				ReplyPreview: truncateRunes(reply.Text, replyPreviewRunes),
				Provider:     reply.Provider,
			},
		})
		return err
	})
	if err != nil {
		log.Errorw("Failed to record AI reply event", "error", err)
	}

	return messaging.TwiML(reply.Text)
}

// findFamily сопоставляет номер по цифрам; без кода страны совпадает хвост номера
func (s *whatsAppWebhookService) findFamily(ctx context.Context, db *gorm.DB, from string) *models.Family {
	digits := messaging.NormalizePhone(from)
	if digits == "" {
		return nil
	}
	suffix := digits
	if len(suffix) > phoneSuffixDigits {
		suffix = suffix[len(suffix)-phoneSuffixDigits:]
	}

	candidates, err := s.familyRepo.FindByPhoneSuffix(db.WithContext(ctx), suffix)
	if err != nil {
		logger.CtxWithError(ctx, "Family lookup by phone failed", err)
		return nil
	}

	var fallback *models.Family
	for i := range candidates {
		f := &candidates[i]
		for _, raw := range []*string{f.WhatsAppNumber, f.Phone} {
			if raw == nil {
				continue
			}
			stored := messaging.NormalizePhone(*raw)
			if stored == digits {
				return f
			}
			if fallback == nil && (strings.HasSuffix(stored, digits) || strings.HasSuffix(digits, stored)) {
				fallback = f
			}
		}
	}
	return fallback
}

func (s *whatsAppWebhookService) storeMedia(ctx context.Context, db *gorm.DB, family *models.Family, params map[string]string, sid string, numMedia int) {
	if family == nil {
		logger.CtxInfo(ctx, "Skipping media from unknown number", "message_sid", sid)
		return
	}
	for i := 0; i < numMedia; i++ {
		url := params[fmt.Sprintf("MediaUrl%d", i)]
		contentType := params[fmt.Sprintf("MediaContentType%d", i)]
		if url == "" || !strings.HasPrefix(contentType, "image/") {
			logger.CtxDebug(ctx, "Skipping non-image attachment", "index", i, "content_type", contentType)
			continue
		}

		data, _, err := s.client.DownloadMedia(ctx, url, s.gallery.MaxSize())
		if err != nil {
			logger.CtxWarn(ctx, "Media download failed", "message_sid", sid, "index", i, "error", err)
			continue
		}
		if _, err := s.gallery.SavePhoto(ctx, db, PhotoInput{
			Family:     family,
			Data:       data,
			Source:     models.PhotoSourceWhatsApp,
			MessageSID: sid,
			Index:      i,
		}); err != nil {
			logger.CtxWarn(ctx, "Failed to store WhatsApp photo", "message_sid", sid, "index", i, "error", err)
		}
	}
}

// language - язык ответа; для неизвестного номера EN
func (s *whatsAppWebhookService) language(ctx context.Context, db *gorm.DB, family *models.Family) models.Language {
	if family == nil {
		return models.LanguageEN
	}
	wedding, err := s.weddings.LoadWedding(ctx, db, family.WeddingID)
	if err != nil {
		return family.Language(nil)
	}
	return family.Language(wedding)
}

func (s *whatsAppWebhookService) generateReply(ctx context.Context, db *gorm.DB, family *models.Family, body string) (*assistant.Reply, error) {
	wedding, err := s.weddings.LoadWedding(ctx, db, family.WeddingID)
	if err != nil {
		return nil, err
	}
	full, err := s.familyRepo.FindInWedding(db.WithContext(ctx), wedding.ID, family.ID)
	if err == nil {
		family = full
	}

	lang := family.Language(wedding)
	link := s.links.MagicLink(ctx, db, family)
	return s.assistant.Reply(ctx, assistant.Request{
		System:  assistantPrompt(family, wedding, lang, link),
		Message: body,
	})
}

func assistantPrompt(family *models.Family, wedding *models.Wedding, lang models.Language, rsvpLink string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the friendly WhatsApp assistant for the wedding of %s.\n", wedding.CoupleNames)
	fmt.Fprintf(&b, "Reply briefly (at most 3 sentences) in the guest's language (%s) unless they write in another one.\n", lang)
	fmt.Fprintf(&b, "Wedding date: %s", FormatDate(wedding.WeddingDate, lang))
	if wedding.WeddingTime != "" {
		fmt.Fprintf(&b, " at %s", wedding.WeddingTime)
	}
	b.WriteString(".\n")
	if wedding.Location != "" {
		fmt.Fprintf(&b, "Location: %s.\n", wedding.Location)
	}
	if wedding.RSVPCutoffDate != nil {
		fmt.Fprintf(&b, "RSVP deadline: %s.\n", FormatDate(*wedding.RSVPCutoffDate, lang))
	}
	fmt.Fprintf(&b, "You are talking to the %s family.", family.Name)
	if len(family.Members) > 0 {
		names := make([]string, 0, len(family.Members))
		for _, m := range family.Members {
			names = append(names, m.Name)
		}
		fmt.Fprintf(&b, " Invited members: %s.", strings.Join(names, ", "))
	}
	b.WriteString("\n")
	if family.HasSubmittedRSVP() {
		b.WriteString("The family has already answered the RSVP; they can still change it with the link.\n")
	} else {
		b.WriteString("The family has not answered the RSVP yet.\n")
	}
	fmt.Fprintf(&b, "RSVP link: %s\n", rsvpLink)
	b.WriteString("If you do not know an answer, say the couple will get back to them. Never invent details.")
	return b.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func channelPtr(c models.Channel) *models.Channel {
	return &c
}
