package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"

	"wedding_backend/internal/config"
	"wedding_backend/internal/imageprocessor"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/internal/storage"
	"wedding_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoInput - фото, уже прочитанное в память
type PhotoInput struct {
	Family     *models.Family
	Data       []byte
	Source     models.PhotoSource
	MessageSID string
	// Index - номер вложения в сообщении (для идемпотентности вебхука)
	Index int
}

type GalleryService interface {
	SavePhoto(ctx context.Context, db *gorm.DB, in PhotoInput) (*models.GalleryPhoto, error)
	UploadFromGuest(ctx context.Context, db *gorm.DB, family *models.Family, file *multipart.FileHeader) (*models.GalleryPhoto, error)
	ListPhotos(ctx context.Context, db *gorm.DB, weddingID string, page, pageSize int) (*dto.GalleryListResponse, error)
	MaxSize() int64
}

type galleryService struct {
	galleryRepo repositories.GalleryRepository
	tracking    TrackingService
	storage     storage.Storage
	processor   *imageprocessor.Processor
	policy      config.UploadPolicy
}

func NewGalleryService(
	galleryRepo repositories.GalleryRepository,
	tracking TrackingService,
	store storage.Storage,
	policy config.UploadPolicy,
) GalleryService {
	return &galleryService{
		galleryRepo: galleryRepo,
		tracking:    tracking,
		storage:     store,
		processor:   imageprocessor.NewProcessor(policy.ImageQuality),
		policy:      policy,
	}
}

func (s *galleryService) MaxSize() int64 {
	return s.policy.MaxSize
}

func (s *galleryService) SavePhoto(ctx context.Context, db *gorm.DB, in PhotoInput) (*models.GalleryPhoto, error) {
	if s.policy.MaxSize > 0 && int64(len(in.Data)) > s.policy.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	info, err := imageprocessor.Inspect(in.Data)
	if err != nil || !s.policy.Allows(info.ContentType()) {
		return nil, apperrors.ErrInvalidFileType
	}

	weddingID := in.Family.WeddingID
	name := uuid.NewString()
	if in.MessageSID != "" {
		name = fmt.Sprintf("%s-%d", in.MessageSID, in.Index)
	}
	base := path.Join("weddings", weddingID, "gallery")
	originalPath := path.Join(base, name+"."+info.Format)
	thumbPath := path.Join(base, "thumbs", name+".jpg")

	tx := db.WithContext(ctx)
	if in.MessageSID != "" {
		exists, err := s.galleryRepo.ExistsByMessage(tx, in.MessageSID, originalPath)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			logger.CtxInfo(ctx, "Photo already stored for message", "message_sid", in.MessageSID, "index", in.Index)
			return nil, nil
		}
	}

	thumb, err := s.processor.Thumbnail(in.Data, imageprocessor.SizeThumbnail)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType
	}

	if err := s.storage.Save(ctx, originalPath, bytes.NewReader(in.Data), info.ContentType()); err != nil {
		return nil, apperrors.ErrExternalService(err, "gallery", "Failed to store photo")
	}
	if err := s.storage.Save(ctx, thumbPath, bytes.NewReader(thumb), "image/jpeg"); err != nil {
		_ = s.storage.Delete(ctx, originalPath)
		return nil, apperrors.ErrExternalService(err, "gallery", "Failed to store thumbnail")
	}

	url, _ := s.storage.GetURL(ctx, originalPath)
	thumbURL, _ := s.storage.GetURL(ctx, thumbPath)

	familyID := in.Family.ID
	photo := &models.GalleryPhoto{
		WeddingID:     weddingID,
		FamilyID:      &familyID,
		StoragePath:   originalPath,
		ThumbnailPath: thumbPath,
		URL:           url,
		ThumbnailURL:  thumbURL,
		ContentType:   info.ContentType(),
		Source:        in.Source,
	}
	if in.MessageSID != "" {
		sid := in.MessageSID
		photo.MessageSID = &sid
	}

	if err := s.galleryRepo.Create(tx, photo); err != nil {
		_ = s.storage.Delete(ctx, originalPath)
		_ = s.storage.Delete(ctx, thumbPath)
		return nil, apperrors.InternalError(err)
	}

	s.tracking.TrackAsync(ctx, db, TrackInput{
		FamilyID:  familyID,
		WeddingID: weddingID,
		Metadata: &models.PhotoReceivedMeta{
			PhotoID:     photo.ID,
			MessageSID:  in.MessageSID,
			ContentType: photo.ContentType,
		},
	})
	return photo, nil
}

func (s *galleryService) UploadFromGuest(ctx context.Context, db *gorm.DB, family *models.Family, file *multipart.FileHeader) (*models.GalleryPhoto, error) {
	if s.policy.MaxSize > 0 && file.Size > s.policy.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return nil, apperrors.NewBadRequestError("Cannot read uploaded file")
	}
	defer f.Close()

	limit := s.policy.MaxSize
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, apperrors.NewBadRequestError("Cannot read uploaded file")
	}

	return s.SavePhoto(ctx, db, PhotoInput{
		Family: family,
		Data:   data,
		Source: models.PhotoSourceUpload,
	})
}

func (s *galleryService) ListPhotos(ctx context.Context, db *gorm.DB, weddingID string, page, pageSize int) (*dto.GalleryListResponse, error) {
	photos, total, err := s.galleryRepo.FindByWedding(db.WithContext(ctx), weddingID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.GalleryListResponse{
		Photos:     photos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
