package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(expiresIn time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Username:  "boss",
		Role:      domain.RoleManager,
		IssuedAt:  now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestTokenManager_UsesConfiguredTTL(t *testing.T) {
	ttl := 2 * time.Hour
	tm := NewTokenManager("test-secret", ttl)
	session := testSession(24 * time.Hour)

	start := time.Now()

	token, err := tm.GenerateToken(session)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	assert.WithinDuration(t, start.Add(ttl), claims.ExpiresAt.Time, 2*time.Second)
	assert.Equal(t, session.ID, claims.SessionID)
	assert.Equal(t, session.UserID, claims.UserID)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestTokenManager_CapsExpiryAtSession(t *testing.T) {
	tm := NewTokenManager("test-secret", 24*time.Hour)
	session := testSession(10 * time.Minute)

	token, err := tm.GenerateToken(session)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, session.ExpiresAt, claims.ExpiresAt.Time, 2*time.Second)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).GenerateToken(testSession(time.Hour))
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, err := tm.GenerateToken(testSession(-time.Minute))
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}
