package services

import (
	"context"
	"encoding/json"
	"errors"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type TimelineService interface {
	GetTimeline(ctx context.Context, db *gorm.DB, familyID, weddingID string) (*dto.TimelineResponse, error)
}

type timelineService struct {
	familyRepo repositories.FamilyRepository
	eventRepo  repositories.TrackingEventRepository
	userRepo   repositories.UserRepository
}

func NewTimelineService(
	familyRepo repositories.FamilyRepository,
	eventRepo repositories.TrackingEventRepository,
	userRepo repositories.UserRepository,
) TimelineService {
	return &timelineService{
		familyRepo: familyRepo,
		eventRepo:  eventRepo,
		userRepo:   userRepo,
	}
}

func (s *timelineService) GetTimeline(ctx context.Context, db *gorm.DB, familyID, weddingID string) (*dto.TimelineResponse, error) {
	tx := db.WithContext(ctx)

	family, err := s.familyRepo.FindInWedding(tx, weddingID, familyID)
	if err != nil {
		return nil, mapFamilyError(err)
	}

	events, err := s.eventRepo.FindByFamily(tx, family.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	users := map[string]*dto.TriggeredBy{}
	out := make([]dto.TimelineEvent, 0, len(events)+1)
	for _, event := range events {
		item := dto.TimelineEvent{
			ID:             event.ID,
			EventType:      event.EventType,
			Channel:        event.Channel,
			AdminTriggered: event.AdminTriggered,
			Timestamp:      event.Timestamp,
			Status:         event.Status,
		}

		meta, err := models.DecodeMetadata(event.EventType, event.Metadata)
		if err != nil {
			logger.CtxWarn(ctx, "Undecodable event metadata", "event_id", event.ID, "error", err)
			item.Metadata = json.RawMessage(event.Metadata)
		} else {
			item.Metadata = meta
			if adminID := models.AdminIDOf(meta); adminID != "" {
				item.TriggeredByUser = s.resolveUser(tx, users, adminID)
			}
		}
		out = append(out, item)
	}

	// создание семьи всегда последним, независимо от времени
	out = append(out, dto.TimelineEvent{
		ID:        "guest-created-" + family.ID,
		EventType: models.EventGuestCreated,
		Metadata:  map[string]any{},
		Timestamp: family.CreatedAt,
		Status:    models.EventStatusFinal,
	})

	return &dto.TimelineResponse{
		Events: out,
		Family: dto.TimelineFamily{ID: family.ID, Name: family.Name},
	}, nil
}

// resolveUser ищет сначала среди админов свадьбы, потом среди организаторов
func (s *timelineService) resolveUser(db *gorm.DB, seen map[string]*dto.TriggeredBy, id string) *dto.TriggeredBy {
	if user, ok := seen[id]; ok {
		return user
	}

	var user *dto.TriggeredBy
	if admin, err := s.userRepo.FindAdminByID(db, id); err == nil {
		user = &dto.TriggeredBy{ID: admin.ID, Name: admin.Name, Email: admin.Email, Role: models.UserRoleWeddingAdmin}
	} else if errors.Is(err, repositories.ErrUserNotFound) {
		if planner, err := s.userRepo.FindPlannerByID(db, id); err == nil {
			user = &dto.TriggeredBy{ID: planner.ID, Name: planner.Name, Email: planner.Email, Role: models.UserRolePlanner}
		}
	}

	seen[id] = user
	return user
}
