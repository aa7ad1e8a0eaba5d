package services

import (
	"context"
	"errors"
	"time"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/workers"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TrackInput - данные одного события журнала
type TrackInput struct {
	FamilyID       string
	WeddingID      string
	Channel        *models.Channel
	Metadata       models.EventMetadata
	AdminTriggered bool
	Timestamp      time.Time
}

// TrackingService пишет журнал событий семьи. Ошибки записи только логируются:
// журнал не должен ломать основной сценарий.
type TrackingService interface {
	Track(ctx context.Context, db *gorm.DB, in TrackInput) *models.TrackingEvent
	// Record - как Track, но возвращает ошибку (для повторов)
	Record(ctx context.Context, db *gorm.DB, in TrackInput) (*models.TrackingEvent, error)
	TrackAsync(ctx context.Context, db *gorm.DB, in TrackInput)

	TrackLinkOpened(ctx context.Context, db *gorm.DB, family *models.Family, ip, userAgent string)
	TrackRSVPSubmitted(ctx context.Context, db *gorm.DB, family *models.Family, updated bool)
	TrackGuestAdded(ctx context.Context, db *gorm.DB, family *models.Family, adminID, source string)
	TrackReminderSent(ctx context.Context, db *gorm.DB, family *models.Family, meta models.SendMeta, sentAt time.Time)
	// TrackPaymentReceived пишет синхронно: событие возвращается админу
	TrackPaymentReceived(ctx context.Context, db *gorm.DB, family *models.Family, meta *models.PaymentReceivedMeta) (*models.TrackingEvent, error)

	// Двухфазная запись: PROVISIONAL событие, затем Finalize с проверкой версии
	TrackProvisional(ctx context.Context, db *gorm.DB, in TrackInput) (*models.TrackingEvent, error)
	Finalize(ctx context.Context, db *gorm.DB, eventID string, expectedVersion int, mutate func(meta models.EventMetadata)) error
}

type trackingService struct {
	eventRepo repositories.TrackingEventRepository
	runner    workers.Runner
}

func NewTrackingService(eventRepo repositories.TrackingEventRepository, runner workers.Runner) TrackingService {
	if runner == nil {
		runner = workers.InlineRunner{}
	}
	return &trackingService{
		eventRepo: eventRepo,
		runner:    runner,
	}
}

func (s *trackingService) build(in TrackInput, status models.EventStatus) (*models.TrackingEvent, error) {
	raw, err := models.EncodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	var eventType models.EventType
	if in.Metadata != nil {
		eventType = in.Metadata.Kind()
	}
	if eventType == "" {
		return nil, errors.New("tracking event type is required")
	}
	return &models.TrackingEvent{
		FamilyID:       in.FamilyID,
		WeddingID:      in.WeddingID,
		EventType:      eventType,
		Channel:        in.Channel,
		Metadata:       raw,
		AdminTriggered: in.AdminTriggered || models.AdminIDOf(in.Metadata) != "",
		Timestamp:      ts,
		Status:         status,
		Version:        1,
	}, nil
}

func (s *trackingService) Track(ctx context.Context, db *gorm.DB, in TrackInput) *models.TrackingEvent {
	event, err := s.Record(ctx, db, in)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to record tracking event", err,
			"family_id", in.FamilyID,
			"event_type", kindOf(in.Metadata),
		)
		return nil
	}
	return event
}

func (s *trackingService) Record(ctx context.Context, db *gorm.DB, in TrackInput) (*models.TrackingEvent, error) {
	event, err := s.build(in, models.EventStatusFinal)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(db.WithContext(ctx), event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *trackingService) TrackAsync(ctx context.Context, db *gorm.DB, in TrackInput) {
	err := s.runner.Go(ctx, "track:"+string(kindOf(in.Metadata)), func(taskCtx context.Context) error {
		s.Track(taskCtx, db, in)
		return nil
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to schedule tracking event", err, "family_id", in.FamilyID)
	}
}

func (s *trackingService) TrackLinkOpened(ctx context.Context, db *gorm.DB, family *models.Family, ip, userAgent string) {
	s.TrackAsync(ctx, db, TrackInput{
		FamilyID:  family.ID,
		WeddingID: family.WeddingID,
		Metadata:  &models.LinkOpenedMeta{IP: ip, UserAgent: userAgent},
	})
}

func (s *trackingService) TrackRSVPSubmitted(ctx context.Context, db *gorm.DB, family *models.Family, updated bool) {
	meta := models.RSVPSubmittedMeta{MemberCount: len(family.Members)}
	for _, m := range family.Members {
		if m.Attending == nil {
			continue
		}
		if *m.Attending {
			meta.AttendingCount++
		} else {
			meta.NotAttendingCount++
		}
	}

	var payload models.EventMetadata = &meta
	if updated {
		payload = &models.RSVPUpdatedMeta{RSVPSubmittedMeta: meta}
	}
	s.TrackAsync(ctx, db, TrackInput{FamilyID: family.ID, WeddingID: family.WeddingID, Metadata: payload})
}

func (s *trackingService) TrackGuestAdded(ctx context.Context, db *gorm.DB, family *models.Family, adminID, source string) {
	s.TrackAsync(ctx, db, TrackInput{
		FamilyID:  family.ID,
		WeddingID: family.WeddingID,
		Metadata:  &models.GuestAddedMeta{AdminID: adminID, Source: source},
	})
}

func (s *trackingService) TrackReminderSent(ctx context.Context, db *gorm.DB, family *models.Family, meta models.SendMeta, sentAt time.Time) {
	s.TrackAsync(ctx, db, sentInput(family, meta, &models.ReminderSentMeta{SendMeta: meta}, sentAt))
}

func (s *trackingService) TrackPaymentReceived(ctx context.Context, db *gorm.DB, family *models.Family, meta *models.PaymentReceivedMeta) (*models.TrackingEvent, error) {
	return s.Record(ctx, db, TrackInput{
		FamilyID:       family.ID,
		WeddingID:      family.WeddingID,
		AdminTriggered: meta.AdminID != "",
		Metadata:       meta,
	})
}

func (s *trackingService) TrackProvisional(ctx context.Context, db *gorm.DB, in TrackInput) (*models.TrackingEvent, error) {
	event, err := s.build(in, models.EventStatusProvisional)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(db.WithContext(ctx), event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *trackingService) Finalize(ctx context.Context, db *gorm.DB, eventID string, expectedVersion int, mutate func(meta models.EventMetadata)) error {
	tx := db.WithContext(ctx)

	event, err := s.eventRepo.FindByID(tx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrTrackingEventNotFound) {
			return apperrors.ErrEventNotFound
		}
		return err
	}
	if event.Status != models.EventStatusProvisional || event.Version != expectedVersion {
		return apperrors.ErrEventVersionConflict
	}

	meta, err := models.DecodeMetadata(event.EventType, event.Metadata)
	if err != nil {
		return err
	}
	if mutate != nil {
		mutate(meta)
	}
	raw, err := models.EncodeMetadata(meta)
	if err != nil {
		return err
	}

	ok, err := s.eventRepo.FinalizeProvisional(tx, eventID, expectedVersion, raw)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrEventVersionConflict
	}
	return nil
}

// sentInput - событие успешной отправки уведомления
func sentInput(family *models.Family, meta models.SendMeta, payload models.EventMetadata, at time.Time) TrackInput {
	channel := meta.Channel
	return TrackInput{
		FamilyID:       family.ID,
		WeddingID:      family.WeddingID,
		Channel:        &channel,
		Metadata:       payload,
		AdminTriggered: meta.AdminID != "",
		Timestamp:      at,
	}
}

func kindOf(meta models.EventMetadata) models.EventType {
	if meta == nil {
		return ""
	}
	return meta.Kind()
}
