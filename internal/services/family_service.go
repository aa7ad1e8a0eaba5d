package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	referenceCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referenceCodeLength   = 6
	qrCodeSize            = 512
)

type FamilyService interface {
	CreateFamily(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.CreateFamilyRequest) (*models.Family, error)
	RecordPayment(ctx context.Context, db *gorm.DB, weddingID, familyID, adminID string, req *dto.PaymentRequest) (*models.TrackingEvent, error)
	// QRCode - PNG с короткой magic-ссылкой семьи
	QRCode(ctx context.Context, db *gorm.DB, weddingID, familyID string) ([]byte, error)
}

type familyService struct {
	familyRepo repositories.FamilyRepository
	tracking   TrackingService
	links      ShortLinkService
}

func NewFamilyService(familyRepo repositories.FamilyRepository, tracking TrackingService, links ShortLinkService) FamilyService {
	return &familyService{
		familyRepo: familyRepo,
		tracking:   tracking,
		links:      links,
	}
}

func (s *familyService) CreateFamily(ctx context.Context, db *gorm.DB, weddingID, adminID string, req *dto.CreateFamilyRequest) (*models.Family, error) {
	tx := db.WithContext(ctx)

	token, err := newMagicToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	code, err := s.uniqueReferenceCode(tx, weddingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	family := &models.Family{
		WeddingID:         weddingID,
		Name:              strings.TrimSpace(req.Name),
		Email:             normalizeOptional(req.Email, strings.ToLower),
		Phone:             normalizeOptional(req.Phone, messaging.E164),
		WhatsAppNumber:    normalizeOptional(req.WhatsAppNumber, messaging.E164),
		ChannelPreference: req.ChannelPreference,
		PreferredLanguage: req.PreferredLanguage,
		MagicToken:        token,
		ReferenceCode:     &code,
	}
	if family.ChannelPreference != nil && *family.ChannelPreference == models.ChannelPreferred {
		family.ChannelPreference = nil
	}
	for _, m := range req.Members {
		memberType := m.Type
		if memberType == "" {
			memberType = models.MemberTypeAdult
		}
		family.Members = append(family.Members, models.FamilyMember{
			Name: strings.TrimSpace(m.Name),
			Type: memberType,
		})
	}

	if err := s.familyRepo.Create(tx, family); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Family created", "family_id", family.ID, "wedding_id", weddingID, "members", len(family.Members))
	s.tracking.TrackGuestAdded(ctx, db, family, adminID, "admin")
	return family, nil
}

func (s *familyService) RecordPayment(ctx context.Context, db *gorm.DB, weddingID, familyID, adminID string, req *dto.PaymentRequest) (*models.TrackingEvent, error) {
	family, err := s.familyRepo.FindInWedding(db.WithContext(ctx), weddingID, familyID)
	if err != nil {
		return nil, mapFamilyError(err)
	}

	event, err := s.tracking.TrackPaymentReceived(ctx, db, family, &models.PaymentReceivedMeta{
		Amount:   req.Amount,
		Currency: strings.ToUpper(req.Currency),
		Method:   req.Method,
		Note:     req.Note,
		AdminID:  adminID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return event, nil
}

func (s *familyService) QRCode(ctx context.Context, db *gorm.DB, weddingID, familyID string) ([]byte, error) {
	family, err := s.familyRepo.FindInWedding(db.WithContext(ctx), weddingID, familyID)
	if err != nil {
		return nil, mapFamilyError(err)
	}
	png, err := messaging.QRCodePNG(s.links.MagicLink(ctx, db, family), qrCodeSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return png, nil
}

func (s *familyService) uniqueReferenceCode(db *gorm.DB, weddingID string) (string, error) {
	var code string
	for attempt := 0; attempt < 10; attempt++ {
		b := make([]byte, referenceCodeLength)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		for i := range b {
			b[i] = referenceCodeAlphabet[int(b[i])%len(referenceCodeAlphabet)]
		}
		code = string(b)

		exists, err := s.familyRepo.ReferenceCodeExists(db, weddingID, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return code, nil
}

// newMagicToken - 32 символа base64url, никогда не переиспользуется
func newMagicToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func normalizeOptional(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	out := fn(trimmed)
	return &out
}
