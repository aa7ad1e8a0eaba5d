package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"
	CodeVersionConflict  ErrorCode = "VERSION_CONFLICT"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// Magic link
	CodeInvalidTokenFormat ErrorCode = "INVALID_TOKEN_FORMAT"
	CodeTokenNotFound      ErrorCode = "TOKEN_NOT_FOUND"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeTokenValidation    ErrorCode = "VALIDATION_ERROR"

	// Коммуникации с гостями
	CodeRSVPCutoffPassed ErrorCode = "RSVP_CUTOFF_PASSED"
	CodeFeatureDisabled  ErrorCode = "FEATURE_DISABLED"
	CodeAlreadySent      ErrorCode = "ALREADY_SENT"
	CodeTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	CodeNoContactChannel ErrorCode = "NO_CONTACT_CHANNEL"
)
