package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"invalid input", NewInvalidInput("bad", nil), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NewNotFound("agency", nil), CodeNotFound, http.StatusNotFound},
		{"unknown account", NewUnknownAccount(), CodeNotFound, http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{"conflict", NewConflict("dup", nil), CodeConflict, http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
		})
	}
}

func TestNewNotFound_Message(t *testing.T) {
	de := ToDomainError(NewNotFound("category", map[string]any{"id": "x"}))
	assert.Equal(t, "category not found", de.Message)
	assert.Equal(t, "x", de.Details["id"])
}

func TestToDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NewForbidden("nope"))
	assert.Equal(t, CodeForbidden, CodeOf(wrapped))
}

func TestToDomainError_FiberError(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusUnauthorized, "Unauthorized"))
	assert.Equal(t, CodeUnauthorized, de.Code)
}

func TestToDomainError_Plain(t *testing.T) {
	cause := errors.New("disk full")
	de := ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.ErrorIs(t, de, cause)
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.Nil(t, ToDomainError(nil))
}
