package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lorrc/ticket-insights/internal/auth"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionKey is the key used to store the resolved session in the request context.
const SessionKey contextKey = "session"

// TokenValidator parses access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// SessionMiddleware validates the bearer token and resolves the session it
// names. A revoked or expired session is rejected even if the token is still valid.
func SessionMiddleware(tv TokenValidator, authSvc ports.AuthService) func(http.Handler) http.Handler {
	return sessionMiddleware(tv, authSvc, false)
}

// QuerySessionMiddleware behaves like SessionMiddleware but also accepts the
// token in the "token" query parameter. Browsers cannot set headers on
// WebSocket upgrades.
func QuerySessionMiddleware(tv TokenValidator, authSvc ports.AuthService) func(http.Handler) http.Handler {
	return sessionMiddleware(tv, authSvc, true)
}

func sessionMiddleware(tv TokenValidator, authSvc ports.AuthService, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r, allowQuery)
			if err != nil {
				writeAppError(w, apperrors.NewUnauthorizedError(err.Error()))
				return
			}

			claims, err := tv.ValidateToken(tokenString)
			if err != nil {
				writeAppError(w, apperrors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			session, err := authSvc.Session(r.Context(), claims.SessionID)
			if err != nil {
				if errors.Is(err, apperrors.ErrSessionExpired) {
					writeAppError(w, apperrors.NewSessionExpiredError())
					return
				}
				if errors.Is(err, apperrors.ErrUnauthorized) {
					writeAppError(w, apperrors.NewUnauthorizedError("Session not found"))
					return
				}
				writeAppError(w, apperrors.NewInternalError(err))
				return
			}

			if session.UserID != claims.UserID {
				writeAppError(w, apperrors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			ctx = logging.WithUserID(ctx, session.UserID.String())
			ctx = logging.WithSessionID(ctx, session.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request, allowQuery bool) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if allowQuery {
			if token := r.URL.Query().Get("token"); token != "" {
				return token, nil
			}
		}
		return "", errors.New("Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("Authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// GetSession returns the session resolved by SessionMiddleware.
func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok && session != nil
}
