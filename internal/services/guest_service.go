package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"wedding_backend/internal/email"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/internal/workers"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// GuestService - публичная страница семьи по magic-ссылке
type GuestService interface {
	GetPage(ctx context.Context, db *gorm.DB, token, ip, userAgent string) (*dto.GuestPageResponse, error)
	SubmitRSVP(ctx context.Context, db *gorm.DB, token string, req *dto.RSVPRequest) (*dto.RSVPResponse, error)
	UploadPhoto(ctx context.Context, db *gorm.DB, token string, file *multipart.FileHeader) (*models.GalleryPhoto, error)
}

type guestService struct {
	magicLinks   MagicLinkService
	familyRepo   repositories.FamilyRepository
	templateRepo repositories.TemplateRepository
	tracking     TrackingService
	gallery      GalleryService
	links        ShortLinkService
	mailer       ChannelAdapter
	runner       workers.Runner
	now          func() time.Time
}

func NewGuestService(
	magicLinks MagicLinkService,
	familyRepo repositories.FamilyRepository,
	templateRepo repositories.TemplateRepository,
	tracking TrackingService,
	gallery GalleryService,
	links ShortLinkService,
	mailer ChannelAdapter,
	runner workers.Runner,
) GuestService {
	if runner == nil {
		runner = workers.InlineRunner{}
	}
	return &guestService{
		magicLinks:   magicLinks,
		familyRepo:   familyRepo,
		templateRepo: templateRepo,
		tracking:     tracking,
		gallery:      gallery,
		links:        links,
		mailer:       mailer,
		runner:       runner,
		now:          time.Now,
	}
}

func (s *guestService) GetPage(ctx context.Context, db *gorm.DB, token, ip, userAgent string) (*dto.GuestPageResponse, error) {
	res, err := s.magicLinks.Validate(ctx, db, token)
	if err != nil {
		return nil, err
	}

	s.tracking.TrackLinkOpened(ctx, db, res.Family, ip, userAgent)

	return &dto.GuestPageResponse{
		Family:           res.Family,
		Wedding:          res.Wedding,
		Theme:            res.Theme,
		RSVPCutoffPassed: res.Wedding.RSVPCutoffPassed(s.now()),
		HasSubmittedRSVP: res.Family.HasSubmittedRSVP(),
	}, nil
}

func (s *guestService) SubmitRSVP(ctx context.Context, db *gorm.DB, token string, req *dto.RSVPRequest) (*dto.RSVPResponse, error) {
	res, err := s.magicLinks.Validate(ctx, db, token)
	if err != nil {
		return nil, err
	}
	family, wedding := res.Family, res.Wedding
	now := s.now()

	if wedding.RSVPCutoffPassed(now) {
		return nil, apperrors.ErrRSVPCutoffPassed
	}

	members := make(map[string]models.FamilyMember, len(family.Members))
	for _, m := range family.Members {
		members[m.ID] = m
	}
	for _, in := range req.Members {
		if _, ok := members[in.ID]; !ok {
			return nil, apperrors.ErrUnknownFamilyMember.Clone().WithDetails(map[string]string{"member_id": in.ID})
		}
	}

	updated := family.HasSubmittedRSVP()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range req.Members {
			member := members[in.ID]
			member.Attending = in.Attending
			member.DietaryRestrictions = in.DietaryRestrictions
			member.AccessibilityNeeds = in.AccessibilityNeeds
			if err := s.familyRepo.UpdateMember(tx, &member); err != nil {
				return err
			}
		}
		return s.familyRepo.UpdateRSVPAnswers(tx, family.ID, rsvpUpdates(req, now.UTC()))
	})
	if err != nil {
		if errors.Is(err, repositories.ErrFamilyMemberNotFound) {
			return nil, apperrors.ErrUnknownFamilyMember
		}
		return nil, apperrors.InternalError(err)
	}

	fresh, err := s.familyRepo.FindInWedding(db.WithContext(ctx), wedding.ID, family.ID)
	if err != nil {
		return nil, mapFamilyError(err)
	}

	s.tracking.TrackRSVPSubmitted(ctx, db, fresh, updated)
	s.sendConfirmation(ctx, db, fresh, wedding)

	return &dto.RSVPResponse{Family: fresh, Updated: updated}, nil
}

func (s *guestService) UploadPhoto(ctx context.Context, db *gorm.DB, token string, file *multipart.FileHeader) (*models.GalleryPhoto, error) {
	res, err := s.magicLinks.Validate(ctx, db, token)
	if err != nil {
		return nil, err
	}
	return s.gallery.UploadFromGuest(ctx, db, res.Family, file)
}

// sendConfirmation - письмо-подтверждение в фоне; ошибки только в лог
func (s *guestService) sendConfirmation(ctx context.Context, db *gorm.DB, family *models.Family, wedding *models.Wedding) {
	address := ContactFor(models.ChannelEmail, family)
	if address == "" || s.mailer == nil {
		return
	}

	err := s.runner.Go(ctx, "rsvp-confirmation", func(taskCtx context.Context) error {
		lang := family.Language(wedding)
		link := s.links.MagicLink(taskCtx, db, family)

		msg := DispatchMessage{
			To:          address,
			Language:    lang,
			CoupleNames: wedding.CoupleNames,
			ButtonURL:   link,
		}

		tpl, err := s.templateRepo.FindActive(db.WithContext(taskCtx), wedding.ID, models.TemplateTypeConfirmation, lang, models.ChannelEmail)
		switch {
		case err == nil:
			vars := map[string]string{
				"familyName":  family.Name,
				"coupleNames": wedding.CoupleNames,
				"weddingDate": FormatDate(wedding.WeddingDate, lang),
				"weddingTime": wedding.WeddingTime,
				"location":    wedding.Location,
				"magicLink":   link,
			}
			msg.Subject = messaging.Render(tpl.Subject, vars)
			msg.Body = messaging.Render(tpl.Body, vars)
		case errors.Is(err, repositories.ErrTemplateNotFound):
			c := email.CopyFor(lang).Confirmation
			msg.Subject = fmt.Sprintf(c.Subject, wedding.CoupleNames)
			msg.Body = fmt.Sprintf(c.Body, family.Name, wedding.CoupleNames)
		default:
			return err
		}

		if result := s.mailer.Send(taskCtx, msg); !result.Success {
			return errors.New(result.Error)
		}
		return nil
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to schedule RSVP confirmation", err, "family_id", family.ID)
	}
}

func rsvpUpdates(req *dto.RSVPRequest, at time.Time) map[string]any {
	updates := map[string]any{"rsvp_submitted_at": at}
	optional := map[string]any{
		"transportation_answer":   req.TransportationAnswer,
		"extra_question_1_answer": req.ExtraQuestion1Answer,
		"extra_question_2_answer": req.ExtraQuestion2Answer,
		"extra_question_3_answer": req.ExtraQuestion3Answer,
		"extra_info_1_value":      req.ExtraInfo1Value,
		"extra_info_2_value":      req.ExtraInfo2Value,
		"extra_info_3_value":      req.ExtraInfo3Value,
	}
	for column, value := range optional {
		switch v := value.(type) {
		case *bool:
			if v != nil {
				updates[column] = *v
			}
		case *string:
			if v != nil {
				updates[column] = *v
			}
		}
	}
	return updates
}
