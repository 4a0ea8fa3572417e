package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, ctx context.Context, username string, role domain.Role) *domain.User {
	t.Helper()
	user, err := NewUserRepository(testPool).Create(ctx, &domain.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: "hashedpassword",
		Role:           role,
	})
	require.NoError(t, err)
	return user
}

func TestUserRepository_CreateGet(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	created := createTestUser(t, ctx, "Dana", domain.RoleManager)
	assert.False(t, created.CreatedAt.IsZero())

	byName, err := userRepo.GetByUsername(ctx, "dana")
	require.NoError(t, err, "lookup is case-insensitive")
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "Dana", byName.Username)
	assert.Equal(t, domain.RoleManager, byName.Role)
	assert.Equal(t, "hashedpassword", byName.HashedPassword)

	byID, err := userRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, byID.Username)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	resetDB(t)
	ctx := context.Background()

	createTestUser(t, ctx, "sam", domain.RoleExecutive)

	_, err := NewUserRepository(testPool).Create(ctx, &domain.User{
		Username:       "SAM",
		HashedPassword: "x",
		Role:           domain.RoleManager,
	})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = userRepo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
