package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no record matches the lookup.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrUserAlreadyExists is returned when signup or rename hits a taken name.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrPasswordMismatch is returned when a password does not match the stored hash.
	ErrPasswordMismatch = errors.New("password is not correct")
	// ErrNotAdmin is returned when admin login names an account other than the administrator.
	ErrNotAdmin = errors.New("admin can only login")
	// ErrAdminNotConfigured is returned when no administrator record exists.
	ErrAdminNotConfigured = errors.New("admin account is not configured")
	// ErrMissingFields is returned when a required form field is empty.
	ErrMissingFields = errors.New("name and email are required")
	// ErrPasswordTooLong is returned when a password exceeds what the hasher accepts.
	ErrPasswordTooLong = errors.New("password is too long")
	// ErrInvalidToken is returned for expired, forged or malformed signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Errors outside the domain
// taxonomy become an opaque 500.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusUnauthorized, ErrPasswordMismatch.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrNotAdmin):
		return NewHTTPError(http.StatusForbidden, ErrNotAdmin.Error(), "NOT_ADMIN")
	case errors.Is(err, ErrAdminNotConfigured):
		return NewHTTPError(http.StatusServiceUnavailable, ErrAdminNotConfigured.Error(), "ADMIN_NOT_CONFIGURED")
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, ErrMissingFields.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, ErrPasswordTooLong.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidToken.Error(), "INVALID_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
