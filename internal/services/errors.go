package services

import (
	"errors"

	"wedding_backend/internal/repositories"
	"wedding_backend/pkg/apperrors"
)

func mapWeddingError(err error) error {
	if errors.Is(err, repositories.ErrWeddingNotFound) {
		return apperrors.ErrWeddingNotFound
	}
	return apperrors.InternalError(err)
}

func mapFamilyError(err error) error {
	if errors.Is(err, repositories.ErrFamilyNotFound) {
		return apperrors.ErrFamilyNotFound
	}
	return apperrors.InternalError(err)
}
