package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// Claims defines the structured data we store in the JWT
type Claims struct {
	SessionID uuid.UUID   `json:"sid"`
	UserID    uuid.UUID   `json:"user_id"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

var _ ports.TokenIssuer = (*TokenManager)(nil)

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secretKey: []byte(secret), ttl: ttl, issuer: "ticket-insights"}
}

// GenerateToken creates a JWT access token bound to a session. The token
// never outlives the session it names.
func (tm *TokenManager) GenerateToken(session *domain.Session) (string, error) {
	now := time.Now()
	expirationTime := now.Add(tm.ttl)
	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(expirationTime) {
		expirationTime = session.ExpiresAt
	}

	claims := &Claims{
		SessionID: session.ID,
		UserID:    session.UserID,
		Role:      session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   session.UserID.String(),
			ID:        session.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ValidateToken parses and validates the token string
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	}, jwt.WithIssuer(tm.issuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.SessionID == uuid.Nil {
		return nil, errors.New("token is not bound to a session")
	}

	return claims, nil
}
