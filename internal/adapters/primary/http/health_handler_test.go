package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubRealtime struct{ clients, users int }

func (s stubRealtime) GetClientCount() int { return s.clients }

func (s stubRealtime) UserCount() int { return s.users }

func serveHealth(t *testing.T, h *HealthHandler, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthHandler(t *testing.T) {
	down := stubPinger{err: errors.New("connection refused")}

	tests := []struct {
		name       string
		db         HealthChecker
		sessions   HealthChecker
		path       string
		wantCode   int
		wantStatus string
	}{
		{"liveness ignores dependencies", down, down, "/health/live", stdhttp.StatusOK, "healthy"},
		{"ready", stubPinger{}, stubPinger{}, "/health/ready", stdhttp.StatusOK, "healthy"},
		{"not ready when sessions are down", stubPinger{}, down, "/health/ready", stdhttp.StatusServiceUnavailable, "unhealthy"},
		{"not ready when sessions are missing", stubPinger{}, nil, "/health/ready", stdhttp.StatusServiceUnavailable, "unhealthy"},
		{"detailed healthy", stubPinger{}, stubPinger{}, "/health", stdhttp.StatusOK, "healthy"},
		{"detailed degraded", down, stubPinger{}, "/health", stdhttp.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.sessions, "1.2.3")
			rec, body := serveHealth(t, h, tt.path)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestHealthHandler_ReportsFailingCheck(t *testing.T) {
	h := NewHealthHandler(stubPinger{err: errors.New("connection refused")}, stubPinger{}, "1.2.3")
	_, body := serveHealth(t, h, "/health/ready")

	require.Contains(t, body.Checks, "database")
	assert.Equal(t, "unhealthy", body.Checks["database"].Status)
	assert.Equal(t, "connection refused", body.Checks["database"].Message)
	assert.Equal(t, "healthy", body.Checks["sessions"].Status)
	assert.Equal(t, "1.2.3", body.Version)
}

func TestHealthHandler_RealtimeCounts(t *testing.T) {
	decode := func(t *testing.T, h *HealthHandler) map[string]json.RawMessage {
		t.Helper()
		r := chi.NewRouter()
		h.RegisterRoutes(r)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/health", nil))

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	t.Run("reported when wired", func(t *testing.T) {
		body := decode(t, NewHealthHandler(stubPinger{}, stubPinger{}, "1.2.3").WithRealtime(stubRealtime{clients: 3, users: 2}))

		var realtime RealtimeHealth
		require.Contains(t, body, "realtime")
		require.NoError(t, json.Unmarshal(body["realtime"], &realtime))
		assert.Equal(t, RealtimeHealth{Clients: 3, Users: 2}, realtime)
	})

	t.Run("omitted otherwise", func(t *testing.T) {
		body := decode(t, NewHealthHandler(stubPinger{}, stubPinger{}, "1.2.3"))
		assert.NotContains(t, body, "realtime")
	})
}
