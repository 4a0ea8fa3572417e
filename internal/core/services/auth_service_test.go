package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/mocks"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	users    *mocks.MockUserRepository
	sessions *mocks.MockSessionStore
	tokens   *mocks.MockTokenIssuer
}

func newAuthFixture() authFixture {
	return authFixture{
		users:    mocks.NewMockUserRepository(),
		sessions: mocks.NewMockSessionStore(),
		tokens:   mocks.NewMockTokenIssuer(),
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		f.users.On("GetByUsername", ctx, "jdoe").Return(nil, apperrors.ErrUserNotFound)
		var created *domain.User
		f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
			Return(&domain.User{ID: uuid.New(), Username: "jdoe", Role: domain.RoleManager}, nil)

		user, err := svc.Register(ctx, domain.UserRegistrationParams{
			Username: "jdoe",
			Password: "Password123",
			Role:     "Manager",
		})

		require.NoError(t, err)
		assert.Equal(t, "jdoe", user.Username)
		assert.Equal(t, domain.RoleManager, user.Role)
		require.NotNil(t, created)
		assert.True(t, created.CheckPassword("Password123"))
		f.users.AssertExpectations(t)
	})

	t.Run("user already exists", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		f.users.On("GetByUsername", ctx, "jdoe").Return(&domain.User{ID: uuid.New(), Username: "jdoe"}, nil)

		user, err := svc.Register(ctx, domain.UserRegistrationParams{Username: "jdoe", Password: "Password123", Role: "Manager"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		f.users.AssertNotCalled(t, "Create")
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		user, err := svc.Register(ctx, domain.UserRegistrationParams{Username: "jdoe", Password: "weak", Role: "Manager"})

		assert.Nil(t, user)
		var validationErr *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErr)
		f.users.AssertNotCalled(t, "GetByUsername")
	})

	t.Run("invalid role", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		_, err := svc.Register(ctx, domain.UserRegistrationParams{Username: "jdoe", Password: "Password123", Role: "Admin"})

		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "role")
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)
		dbErr := errors.New("connection refused")

		f.users.On("GetByUsername", ctx, "jdoe").Return(nil, dbErr)

		_, err := svc.Register(ctx, domain.UserRegistrationParams{Username: "jdoe", Password: "Password123", Role: "Manager"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := domain.HashPassword("Password123")
	require.NoError(t, err)
	existing := &domain.User{ID: uuid.New(), Username: "boss", HashedPassword: hash, Role: domain.RoleManager}

	t.Run("success opens a session", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		f.users.On("GetByUsername", ctx, "boss").Return(existing, nil)
		f.sessions.On("Set", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)
		f.tokens.On("GenerateToken", mock.AnythingOfType("*domain.Session")).Return("signed-token", nil)

		result, err := svc.Login(ctx, " boss ", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", result.Token)
		assert.Equal(t, existing.ID, result.Session.UserID)
		assert.Equal(t, domain.RoleManager, result.Session.Role)
		assert.WithinDuration(t, time.Now().Add(time.Hour), result.Session.ExpiresAt, 5*time.Second)
		f.sessions.AssertExpectations(t)
	})

	t.Run("unknown user is invalid credentials", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		f.users.On("GetByUsername", ctx, "ghost").Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Login(ctx, "ghost", "Password123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		f.sessions.AssertNotCalled(t, "Set")
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		f.users.On("GetByUsername", ctx, "boss").Return(existing, nil)

		_, err := svc.Login(ctx, "boss", "WrongPassword1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("empty fields", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		_, err := svc.Login(ctx, "", "Password123")
		assert.ErrorIs(t, err, apperrors.ErrUsernameRequired)

		_, err = svc.Login(ctx, "boss", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)
	})

	t.Run("token failure clears the session", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)

		f.users.On("GetByUsername", ctx, "boss").Return(existing, nil)
		f.sessions.On("Set", ctx, mock.Anything).Return(nil)
		f.sessions.On("Clear", ctx, mock.Anything).Return(nil)
		f.tokens.On("GenerateToken", mock.Anything).Return("", errors.New("signing failed"))

		_, err := svc.Login(ctx, "boss", "Password123")
		assert.Error(t, err)
		f.sessions.AssertCalled(t, "Clear", ctx, mock.Anything)
	})
}

func TestAuthService_Session(t *testing.T) {
	ctx := context.Background()

	t.Run("live session", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)
		live := &domain.Session{ID: uuid.New(), Role: domain.RoleExecutive, ExpiresAt: time.Now().Add(time.Hour)}

		f.sessions.On("Get", ctx, live.ID).Return(live, nil)

		got, err := svc.Session(ctx, live.ID)
		require.NoError(t, err)
		assert.Equal(t, live, got)
	})

	t.Run("cleared session is unauthorized", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)
		id := uuid.New()

		f.sessions.On("Get", ctx, id).Return(nil, apperrors.ErrSessionNotFound)

		_, err := svc.Session(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		f := newAuthFixture()
		svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)
		expired := &domain.Session{ID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}

		f.sessions.On("Get", ctx, expired.ID).Return(expired, nil)
		f.sessions.On("Clear", ctx, expired.ID).Return(nil)

		_, err := svc.Session(ctx, expired.ID)
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
		f.sessions.AssertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	svc := services.NewAuthService(f.users, f.sessions, f.tokens, time.Hour)
	id := uuid.New()

	f.sessions.On("Clear", ctx, id).Return(nil)

	require.NoError(t, svc.Logout(ctx, id))
	f.sessions.AssertExpectations(t)
}
