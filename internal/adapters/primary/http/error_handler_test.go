package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, stdhttp.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"expired session", apperrors.ErrSessionExpired, stdhttp.StatusUnauthorized, "SESSION_EXPIRED"},
		{"missing session", apperrors.ErrSessionNotFound, stdhttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", fmt.Errorf("view dashboard: %w", apperrors.ErrForbidden), stdhttp.StatusForbidden, "FORBIDDEN"},
		{"no dataset", apperrors.ErrNoDataset, stdhttp.StatusNotFound, "NO_DATASET"},
		{"not found", apperrors.ErrNotFound, stdhttp.StatusNotFound, "NOT_FOUND"},
		{"duplicate user", apperrors.ErrUserExists, stdhttp.StatusConflict, "USER_EXISTS"},
		{"conflict", apperrors.ErrConflict, stdhttp.StatusConflict, "CONFLICT"},
		{"too large", apperrors.ErrUploadTooLarge, stdhttp.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"},
		{"unsupported", apperrors.ErrUnsupportedFormat, stdhttp.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"},
		{"missing header", apperrors.ErrMissingHeader, stdhttp.StatusBadRequest, "INVALID_UPLOAD"},
		{"bad sort column", apperrors.ErrInvalidSortColumn, stdhttp.StatusBadRequest, "VALIDATION_ERROR"},
		{"rate limited", apperrors.ErrRateLimited, stdhttp.StatusTooManyRequests, "RATE_LIMITED"},
		{"app error passes through", apperrors.NewBadRequestError(errors.New("boom"), "Missing file field"), stdhttp.StatusBadRequest, "BAD_REQUEST"},
		{"unknown error", errors.New("connection reset"), stdhttp.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(stdhttp.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decodeError(t, rec).Code)
		})
	}
}

func TestErrorHandler_InternalErrorHidesCause(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()

	h.Handle(rec, httptest.NewRequest(stdhttp.MethodGet, "/", nil), errors.New("pq: password authentication failed"))

	resp := decodeError(t, rec)
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.NotContains(t, resp.Error, "password")
}
