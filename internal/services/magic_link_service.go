package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"wedding_backend/internal/cache"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,128}$`)

// linkGracePeriod - ссылка действует до конца дня свадьбы
const linkGracePeriod = 24 * time.Hour

// MagicLinkResult - все, что нужно странице RSVP без дополнительных запросов
type MagicLinkResult struct {
	Family  *models.Family
	Wedding *models.Wedding
	Theme   *models.Theme
}

type MagicLinkService interface {
	Validate(ctx context.Context, db *gorm.DB, token string) (*MagicLinkResult, error)
	// LoadWedding отдает конфигурацию свадьбы из кэша страницы
	LoadWedding(ctx context.Context, db *gorm.DB, weddingID string) (*models.Wedding, error)
	InvalidateWedding(weddingID string)
	// StartCacheCleanup периодически чистит просроченные страницы до отмены ctx
	StartCacheCleanup(ctx context.Context, interval time.Duration)
}

type magicLinkService struct {
	familyRepo  repositories.FamilyRepository
	weddingRepo repositories.WeddingRepository
	pages       *cache.TTL[string, *models.Wedding]
	now         func() time.Time
}

func NewMagicLinkService(
	familyRepo repositories.FamilyRepository,
	weddingRepo repositories.WeddingRepository,
	pageTTL time.Duration,
) MagicLinkService {
	return &magicLinkService{
		familyRepo:  familyRepo,
		weddingRepo: weddingRepo,
		pages:       cache.NewTTL[string, *models.Wedding](pageTTL),
		now:         time.Now,
	}
}

func (s *magicLinkService) Validate(ctx context.Context, db *gorm.DB, token string) (*MagicLinkResult, error) {
	if !tokenPattern.MatchString(token) {
		return nil, apperrors.ErrInvalidTokenFormat
	}

	family, err := s.familyRepo.FindByMagicToken(db.WithContext(ctx), token)
	if err != nil {
		if errors.Is(err, repositories.ErrFamilyNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		logger.CtxWithError(ctx, "Magic link lookup failed", err)
		return nil, apperrors.ErrTokenValidation(err)
	}

	wedding, err := s.LoadWedding(ctx, db, family.WeddingID)
	if err != nil {
		if errors.Is(err, repositories.ErrWeddingNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		logger.CtxWithError(ctx, "Wedding lookup failed", err, "wedding_id", family.WeddingID)
		return nil, apperrors.ErrTokenValidation(err)
	}

	if s.now().After(wedding.WeddingDate.Add(linkGracePeriod)) {
		return nil, apperrors.ErrTokenExpired
	}

	family.Wedding = wedding
	return &MagicLinkResult{
		Family:  family,
		Wedding: wedding,
		Theme:   wedding.Theme,
	}, nil
}

func (s *magicLinkService) LoadWedding(ctx context.Context, db *gorm.DB, weddingID string) (*models.Wedding, error) {
	cached, err := s.pages.GetOrLoad(weddingID, func() (*models.Wedding, error) {
		return s.weddingRepo.FindByID(db.WithContext(ctx), weddingID)
	})
	if err != nil {
		return nil, err
	}
	// копия: закэшированный объект общий для всех запросов
	wedding := *cached
	return &wedding, nil
}

func (s *magicLinkService) InvalidateWedding(weddingID string) {
	s.pages.Delete(weddingID)
}

func (s *magicLinkService) StartCacheCleanup(ctx context.Context, interval time.Duration) {
	s.pages.StartCleanup(ctx, interval)
}
