package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"

	"gorm.io/gorm"
)

// SendOptions - отправка одного сообщения одной семье
type SendOptions struct {
	FamilyID  string
	WeddingID string
	Channel   models.Channel
	AdminID   string
	Resend    bool
}

// SendResult - доменные ошибки возвращаются здесь, а не через error
type SendResult struct {
	Success   bool           `json:"success"`
	Channel   models.Channel `json:"channel,omitempty"`
	MessageID string         `json:"message_id,omitempty"`
	WaLink    string         `json:"wa_link,omitempty"`
	Error     string         `json:"error,omitempty"`

	familyName string
}

type BulkError struct {
	FamilyID string `json:"family_id"`
	Error    string `json:"error"`
}

type BulkWaLink struct {
	FamilyID   string `json:"family_id"`
	FamilyName string `json:"family_name"`
	Link       string `json:"link"`
}

type BulkResult struct {
	Total      int          `json:"total"`
	Successful int          `json:"sent_count"`
	Failed     int          `json:"failed_count"`
	Errors     []BulkError  `json:"errors"`
	WaLinks    []BulkWaLink `json:"wa_links"`
}

const (
	msgFamilyNotFound   = "Family not found"
	msgTemplateNotFound = "Template not found"
)

// notificationKind описывает отличия приглашения, save-the-date и напоминания
type notificationKind struct {
	name         string
	templateType models.TemplateType
	// guard возвращает текст доменной ошибки или ""
	guard func(family *models.Family, wedding *models.Wedding, opts SendOptions) string
	// mark ставит отметку об отправке; false - отметку уже поставил кто-то другой
	mark  func(repo repositories.FamilyRepository, db *gorm.DB, familyID string, at time.Time) (bool, error)
	track func(t TrackingService, ctx context.Context, db *gorm.DB, family *models.Family, meta models.SendMeta, at time.Time)
}

// Notifier - общий конвейер: семья -> канал -> шаблон -> рендер -> отправка -> отметка -> журнал
type Notifier struct {
	familyRepo   repositories.FamilyRepository
	templateRepo repositories.TemplateRepository
	tracking     TrackingService
	links        ShortLinkService
	dispatcher   *Dispatcher
	appURL       string
	now          func() time.Time
}

func NewNotifier(
	familyRepo repositories.FamilyRepository,
	templateRepo repositories.TemplateRepository,
	tracking TrackingService,
	links ShortLinkService,
	dispatcher *Dispatcher,
	appURL string,
) *Notifier {
	return &Notifier{
		familyRepo:   familyRepo,
		templateRepo: templateRepo,
		tracking:     tracking,
		links:        links,
		dispatcher:   dispatcher,
		appURL:       strings.TrimRight(appURL, "/"),
		now:          time.Now,
	}
}

func (n *Notifier) send(ctx context.Context, db *gorm.DB, kind notificationKind, opts SendOptions) (*SendResult, error) {
	tx := db.WithContext(ctx)
	log := logger.FromContext(ctx).With("kind", kind.name, "family_id", opts.FamilyID)

	family, err := n.familyRepo.FindInWedding(tx, opts.WeddingID, opts.FamilyID)
	if err != nil {
		if errors.Is(err, repositories.ErrFamilyNotFound) {
			return &SendResult{Error: msgFamilyNotFound}, nil
		}
		return nil, fmt.Errorf("load family: %w", err)
	}
	wedding := family.Wedding
	if wedding == nil {
		return &SendResult{Error: "Wedding not found"}, nil
	}

	if msg := kind.guard(family, wedding, opts); msg != "" {
		return &SendResult{Error: msg}, nil
	}

	channel, err := ResolveChannel(opts.Channel, family)
	if err != nil {
		return &SendResult{Error: err.Error()}, nil
	}

	lang := family.Language(wedding)
	tpl, err := n.templateRepo.FindActive(tx, wedding.ID, kind.templateType, lang, channel)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			log.Warnw("Template not found", "language", lang, "channel", channel)
			return &SendResult{Channel: channel, Error: msgTemplateNotFound}, nil
		}
		return nil, fmt.Errorf("load template: %w", err)
	}

	magicLink := n.links.MagicLink(ctx, db, family)
	vars := n.variables(family, wedding, lang, magicLink)
	contact := ContactFor(channel, family)

	msg := DispatchMessage{
		To:                contact,
		Language:          lang,
		CoupleNames:       wedding.CoupleNames,
		Subject:           messaging.Render(tpl.Subject, vars),
		Body:              messaging.Render(tpl.Body, vars),
		ImageURL:          n.absoluteURL(tpl.ImageURL),
		ButtonURL:         magicLink,
		Mode:              wedding.WhatsAppMode,
		ContentVariables:  contentVariables(ctx, tpl, vars),
		ContentTemplateID: derefString(tpl.ContentTemplateID),
	}

	result := n.dispatcher.Send(ctx, channel, msg)
	if !result.Success {
		return &SendResult{Channel: channel, Error: result.Error}, nil
	}

	sentAt := n.now().UTC()
	marked, err := kind.mark(n.familyRepo, tx, family.ID, sentAt)
	if err != nil {
		// сообщение уже ушло, поэтому отправку считаем успешной
		log.Errorw("Failed to mark family as notified", "error", err)
	} else if !marked {
		log.Warnw("Family was marked by a concurrent send")
	}

	meta := models.SendMeta{
		TemplateID: tpl.ID,
		Language:   lang,
		Channel:    channel,
		Contact:    contact,
		AdminID:    opts.AdminID,
		MessageSID: result.MessageID,
		WaLink:     result.WaLink,
	}
	kind.track(n.tracking, ctx, db, family, meta, sentAt)

	log.Infow("Notification sent", "channel", channel, "message_id", result.MessageID)
	return &SendResult{
		Success:    true,
		Channel:    channel,
		MessageID:  result.MessageID,
		WaLink:     result.WaLink,
		familyName: family.Name,
	}, nil
}

// sendBulk отправляет по очереди; ошибка одной семьи не останавливает остальных
func (n *Notifier) sendBulk(ctx context.Context, db *gorm.DB, kind notificationKind, weddingID string, batch []SendOptions) *BulkResult {
	out := &BulkResult{
		Total:   len(batch),
		Errors:  []BulkError{},
		WaLinks: []BulkWaLink{},
	}

	for _, opts := range batch {
		opts.WeddingID = weddingID
		res, err := n.safeSend(ctx, db, kind, opts)
		if err != nil {
			logger.CtxWithError(ctx, "Bulk send failed for family", err, "kind", kind.name, "family_id", opts.FamilyID)
			res = &SendResult{Error: err.Error()}
		}

		if !res.Success {
			out.Failed++
			out.Errors = append(out.Errors, BulkError{FamilyID: opts.FamilyID, Error: res.Error})
			continue
		}
		out.Successful++
		if res.WaLink != "" {
			out.WaLinks = append(out.WaLinks, BulkWaLink{
				FamilyID:   opts.FamilyID,
				FamilyName: res.familyName,
				Link:       res.WaLink,
			})
		}
	}

	logger.CtxInfo(ctx, "Bulk send finished",
		"kind", kind.name,
		"wedding_id", weddingID,
		"total", out.Total,
		"sent", out.Successful,
		"failed", out.Failed,
	)
	return out
}

func (n *Notifier) safeSend(ctx context.Context, db *gorm.DB, kind notificationKind, opts SendOptions) (res *SendResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while sending: %v", r)
		}
	}()
	return n.send(ctx, db, kind, opts)
}

// batchFor строит список отправок для семей, подходящих под фильтр
func (n *Notifier) batchFor(ctx context.Context, db *gorm.DB, weddingID string, filter repositories.FamilyFilter, channel models.Channel, adminID string, resend bool) ([]SendOptions, error) {
	families, err := n.familyRepo.FindByWedding(db.WithContext(ctx), weddingID, filter)
	if err != nil {
		return nil, err
	}
	batch := make([]SendOptions, 0, len(families))
	for _, f := range families {
		batch = append(batch, SendOptions{
			FamilyID:  f.ID,
			WeddingID: weddingID,
			Channel:   channel,
			AdminID:   adminID,
			Resend:    resend,
		})
	}
	return batch, nil
}

func (n *Notifier) variables(family *models.Family, wedding *models.Wedding, lang models.Language, magicLink string) map[string]string {
	vars := map[string]string{
		"familyName":  family.Name,
		"coupleNames": wedding.CoupleNames,
		"weddingDate": FormatDate(wedding.WeddingDate, lang),
		"weddingTime": wedding.WeddingTime,
		"location":    wedding.Location,
		"magicLink":   magicLink,
	}
	if wedding.RSVPCutoffDate != nil {
		vars["rsvpCutoffDate"] = FormatDate(*wedding.RSVPCutoffDate, lang)
	}
	if family.ReferenceCode != nil && *family.ReferenceCode != "" {
		vars["referenceCode"] = *family.ReferenceCode
	}
	return vars
}

func (n *Notifier) absoluteURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	p := *path
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return n.appURL + "/" + strings.TrimLeft(p, "/")
}

// contentVariables сопоставляет позиции шаблона Twilio с нашими переменными
func contentVariables(ctx context.Context, tpl *models.MessageTemplate, vars map[string]string) map[string]string {
	if tpl.ContentTemplateID == nil || len(tpl.ContentVariables) == 0 {
		return nil
	}
	var mapping map[string]string
	if err := json.Unmarshal(tpl.ContentVariables, &mapping); err != nil {
		logger.CtxWarn(ctx, "Invalid content variables mapping", "template_id", tpl.ID, "error", err)
		return nil
	}
	out := make(map[string]string, len(mapping))
	for position, name := range mapping {
		out[position] = vars[name]
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
