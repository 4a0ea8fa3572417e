package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// AuthService implements authentication business logic
type AuthService struct {
	userRepo   ports.UserRepository
	sessions   ports.SessionStore
	tokens     ports.TokenIssuer
	sessionTTL time.Duration
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo ports.UserRepository,
	sessions ports.SessionStore,
	tokens ports.TokenIssuer,
	sessionTTL time.Duration,
) ports.AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user account with validated credentials
func (s *AuthService) Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(params.Username))
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user, err := domain.NewUser(params)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, user)
}

// Login authenticates a user and opens a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether the username exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	session := domain.NewSession(user, s.sessionTTL)
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(session)
	if err != nil {
		_ = s.sessions.Clear(ctx, session.ID)
		return nil, err
	}

	return &ports.LoginResult{Session: session, Token: token}, nil
}

// Logout clears the session
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Clear(ctx, sessionID)
}

// Session returns the stored session, rejecting cleared or expired ones
func (s *AuthService) Session(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	stored, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if stored.IsExpired(time.Now().UTC()) {
		_ = s.sessions.Clear(ctx, stored.ID)
		return nil, apperrors.ErrSessionExpired
	}
	return stored, nil
}
