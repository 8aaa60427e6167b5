// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrNotAuthorized = errors.New("not authorized")

	ErrProductUnavailable = errors.New("product unavailable")
)

// Stable machine-checkable rejection codes surfaced to API clients.
const (
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeAccountNotActive        = "ACCOUNT_NOT_ACTIVE"
	CodeTokenMissing            = "TOKEN_MISSING"
	CodeTokenInvalid            = "TOKEN_INVALID"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeConflict                = "CONFLICT"
	CodeNotFound                = "NOT_FOUND"
	CodeInternal                = "INTERNAL"
	CodeRateLimited             = "RATE_LIMITED"
)

type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func InvalidCredentialsError() *AppError {
	return NewAppError(
		ErrNotAuthorized,
		"invalid username or password",
		http.StatusUnauthorized,
		CodeInvalidCredentials,
	)
}

func AccountNotActiveError() *AppError {
	return NewAppError(
		ErrNotAuthorized,
		"account is not active",
		http.StatusUnauthorized,
		CodeAccountNotActive,
	)
}

func TokenMissingError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"Access token required",
		http.StatusUnauthorized,
		CodeTokenMissing,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"Invalid or expired token",
		http.StatusForbidden,
		CodeTokenInvalid,
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"Invalid or expired token",
		http.StatusForbidden,
		CodeTokenInvalid,
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		ErrTokenRevoked,
		"Invalid or expired token",
		http.StatusForbidden,
		CodeTokenInvalid,
	)
}

func InsufficientPermissionsError() *AppError {
	return NewAppError(
		ErrForbidden,
		"Insufficient permissions",
		http.StatusForbidden,
		CodeInsufficientPermissions,
	)
}

func ProductUnavailableError(productID string) *AppError {
	return NewAppError(
		ErrProductUnavailable,
		fmt.Sprintf("product %s is unavailable", productID),
		http.StatusBadRequest,
		CodeProductUnavailable,
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		CodeValidationFailed,
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		CodeConflict,
	)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		CodeNotFound,
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrNotAuthorized,
		message,
		http.StatusUnauthorized,
		CodeInvalidCredentials,
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Insufficient permissions"
	}
	return NewAppError(
		ErrForbidden,
		message,
		http.StatusForbidden,
		CodeInsufficientPermissions,
	)
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe)))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fieldName(fe)))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fieldName(fe), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fieldName(fe), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fieldName(fe), fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fieldName(fe), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fieldName(fe)))
		}
	}

	return strings.Join(msgs, "; ")
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
