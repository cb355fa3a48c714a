package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "userportal/internal/errors"
)

// Form messages shown to the user.
const (
	msgUserNotFound       = "User does not exist. Please sign up."
	msgPasswordIncorrect  = "Password is not correct."
	msgUserExists         = "User already exists"
	msgCredentialsNeeded  = "Username and password are required"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgAdminPassword      = "password is not correct"
	msgAdminOnly          = "Admin can only login"
	msgAdminNotConfigured = "Admin account is not configured"
)

// httpError converts a service error into an Echo HTTP error carrying an
// ErrorResponse body. Unexpected errors are logged here since their detail is
// not sent to the client.
func httpError(c echo.Context, err error) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err)
	if mapped.StatusCode == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}
