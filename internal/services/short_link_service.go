package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	shortCodeAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	shortCodeLength   = 8
	shortCodeAttempts = 5
)

var ErrShortLinkNotFound = apperrors.NewNotFoundError("short_link", "Link not found")

type ShortLinkService interface {
	// GuestURL - полная ссылка на страницу RSVP семьи
	GuestURL(token string) string
	// MagicLink возвращает короткую ссылку семьи; при сбое - полную
	MagicLink(ctx context.Context, db *gorm.DB, family *models.Family) string
	Resolve(ctx context.Context, db *gorm.DB, code string) (string, error)
}

type shortLinkService struct {
	linkRepo repositories.ShortLinkRepository
	appURL   string
}

func NewShortLinkService(linkRepo repositories.ShortLinkRepository, appURL string) ShortLinkService {
	return &shortLinkService{
		linkRepo: linkRepo,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

func (s *shortLinkService) GuestURL(token string) string {
	return s.appURL + "/rsvp/" + token
}

func (s *shortLinkService) MagicLink(ctx context.Context, db *gorm.DB, family *models.Family) string {
	target := s.GuestURL(family.MagicToken)
	tx := db.WithContext(ctx)

	link, err := s.linkRepo.FindByFamilyAndTarget(tx, family.ID, target)
	if err == nil {
		return s.shortURL(link.Code)
	}
	if !errors.Is(err, repositories.ErrShortLinkNotFound) {
		logger.CtxWithError(ctx, "Short link lookup failed, using full link", err, "family_id", family.ID)
		return target
	}

	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		code, err := randomCode(shortCodeLength)
		if err != nil {
			break
		}
		exists, err := s.linkRepo.CodeExists(tx, code)
		if err != nil {
			break
		}
		if exists {
			continue
		}
		link := &models.ShortLink{Code: code, TargetURL: target, FamilyID: family.ID}
		if err := s.linkRepo.Create(tx, link); err != nil {
			logger.CtxWithError(ctx, "Failed to create short link", err, "family_id", family.ID)
			break
		}
		return s.shortURL(code)
	}
	return target
}

func (s *shortLinkService) Resolve(ctx context.Context, db *gorm.DB, code string) (string, error) {
	link, err := s.linkRepo.FindByCode(db.WithContext(ctx), code)
	if err != nil {
		if errors.Is(err, repositories.ErrShortLinkNotFound) {
			return "", ErrShortLinkNotFound
		}
		return "", apperrors.InternalError(err)
	}
	return link.TargetURL, nil
}

func (s *shortLinkService) shortURL(code string) string {
	return s.appURL + "/s/" + code
}

func randomCode(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(shortCodeAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
