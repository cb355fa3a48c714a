package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{fmt.Errorf("delete: %w", ErrUserNotFound), http.StatusNotFound, "USER_NOT_FOUND"},
		{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{ErrAdminNotConfigured, http.StatusServiceUnavailable, "ADMIN_NOT_CONFIGURED"},
		{ErrMissingFields, http.StatusBadRequest, "VALIDATION_FAILED"},
		{ErrPasswordTooLong, http.StatusBadRequest, "VALIDATION_FAILED"},
		{errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalMessage(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.1:3306: refused"))
	assert.Equal(t, "internal server error", httpErr.Error())
}
