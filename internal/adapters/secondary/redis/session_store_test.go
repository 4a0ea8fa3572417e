package redis

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var redisURL string

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("could not start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		log.Fatalf("could not get redis endpoint: %v", err)
	}
	redisURL = "redis://" + endpoint + "/0"

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("could not terminate redis container: %v", err)
	}
	os.Exit(code)
}

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(context.Background(), redisURL, "test:"+uuid.NewString()+":")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session := domain.NewSession(&domain.User{ID: uuid.New(), Username: "dana", Role: domain.RoleManager}, time.Hour)
	require.NoError(t, store.Set(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, "dana", got.Username)
	assert.Equal(t, domain.RoleManager, got.Role)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, store.Clear(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	assert.NoError(t, store.Clear(ctx, session.ID), "clearing twice is fine")
}

func TestSessionStore_ExpiresWithSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session := domain.NewSession(&domain.User{ID: uuid.New(), Username: "sam", Role: domain.RoleExecutive}, 1500*time.Millisecond)
	require.NoError(t, store.Set(ctx, session))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, session.ID)
		return err == apperrors.ErrSessionNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

func TestSessionStore_RejectsExpired(t *testing.T) {
	store := newTestStore(t)

	session := domain.NewSession(&domain.User{ID: uuid.New(), Role: domain.RoleExecutive}, time.Hour)
	session.ExpiresAt = time.Now().Add(-time.Minute)

	assert.ErrorIs(t, store.Set(context.Background(), session), apperrors.ErrSessionExpired)
}

func TestNewSessionStore_InvalidURL(t *testing.T) {
	_, err := NewSessionStore(context.Background(), "://bad", "")
	assert.Error(t, err)
}
