package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки предметной области:
magic-ссылки, RSVP, рассылки, журнал событий.
*/

// ErrNotFound - обертка для ошибок репозитория "не найдено" (404)
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrExternalService - сбой внешнего провайдера (503)
func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusServiceUnavailable)
}

// ErrFeatureDisabled - функция выключена в настройках свадьбы (400)
func ErrFeatureDisabled(message string) *AppError {
	return New(CodeFeatureDisabled, "communication", message, http.StatusBadRequest)
}

// --- Magic link ---

var ErrInvalidTokenFormat = New(
	CodeInvalidTokenFormat,
	"magic_link",
	"Invalid token format",
	http.StatusBadRequest,
)

var ErrTokenNotFound = New(
	CodeTokenNotFound,
	"magic_link",
	"Invitation link not found",
	http.StatusNotFound,
)

// ErrTokenExpired - свадьба уже прошла (410)
var ErrTokenExpired = New(
	CodeTokenExpired,
	"magic_link",
	"This invitation link has expired",
	http.StatusGone,
)

// ErrTokenValidation - не удалось проверить ссылку (сбой хранилища)
func ErrTokenValidation(err error) *AppError {
	return Wrap(err, CodeTokenValidation, "magic_link", "Could not validate invitation link", http.StatusInternalServerError)
}

// --- RSVP ---

var ErrRSVPCutoffPassed = New(
	CodeRSVPCutoffPassed,
	"rsvp",
	"The RSVP deadline has passed",
	http.StatusForbidden,
)

var ErrUnknownFamilyMember = New(
	CodeValidationFailed,
	"rsvp",
	"Member does not belong to this family",
	http.StatusBadRequest,
)

// --- Рассылки ---

var ErrFamilyNotFound = New(
	CodeNotFound,
	"family",
	"Family not found",
	http.StatusNotFound,
)

var ErrWeddingNotFound = New(
	CodeNotFound,
	"wedding",
	"Wedding not found",
	http.StatusNotFound,
)

var ErrEventNotFound = New(
	CodeNotFound,
	"tracking",
	"Tracking event not found",
	http.StatusNotFound,
)

var ErrEventVersionConflict = New(
	CodeVersionConflict,
	"tracking",
	"Tracking event was modified concurrently",
	http.StatusConflict,
)

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrWeddingAccessDenied = New(
	CodeForbidden,
	"auth",
	"You do not have access to this wedding",
	http.StatusForbidden,
)

// --- Rate limit ---

var ErrRateLimited = New(
	CodeRateLimited,
	"rate_limit",
	"Rate limit exceeded. Please try again later.",
	http.StatusTooManyRequests,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Webhooks ---

var ErrMissingSignature = New(
	CodeValidationFailed,
	"webhook",
	"Missing X-Twilio-Signature header",
	http.StatusBadRequest,
)

var ErrInvalidSignature = New(
	CodeForbidden,
	"webhook",
	"Invalid webhook signature",
	http.StatusForbidden,
)
