package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionFor(role domain.Role) *domain.Session {
	return &domain.Session{ID: uuid.New(), UserID: uuid.New(), Username: "user", Role: role}
}

func TestAuthorizationService_Can(t *testing.T) {
	svc := NewAuthorizationService(nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		role       domain.Role
		permission string
		want       bool
	}{
		{"executive sees executive dashboard", domain.RoleExecutive, ports.PermDashboardExecutive, true},
		{"executive cannot see manager dashboard", domain.RoleExecutive, ports.PermDashboardManager, false},
		{"executive cannot read ticket table", domain.RoleExecutive, ports.PermTicketsRead, false},
		{"executive can upload", domain.RoleExecutive, ports.PermImportsCreate, true},
		{"manager sees manager dashboard", domain.RoleManager, ports.PermDashboardManager, true},
		{"manager reads ticket table", domain.RoleManager, ports.PermTicketsRead, true},
		{"unknown permission denied", domain.RoleManager, "users:delete", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Can(ctx, sessionFor(tt.role), tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizationService_Can_NilSession(t *testing.T) {
	svc := NewAuthorizationService(nil)

	ok, err := svc.Can(context.Background(), nil, ports.PermDashboardExecutive)
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthorizationService_GetPermissions_InvalidRole(t *testing.T) {
	svc := NewAuthorizationService(nil)

	_, err := svc.GetPermissions(context.Background(), domain.Role("Admin"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestAuthorizationService_GetPermissions_CustomTable(t *testing.T) {
	svc := NewAuthorizationService(map[domain.Role][]string{
		domain.RoleExecutive: {ports.PermImportsRead},
	})

	perms, err := svc.GetPermissions(context.Background(), domain.RoleManager)
	require.NoError(t, err)
	assert.Empty(t, perms)

	perms, err = svc.GetPermissions(context.Background(), domain.RoleExecutive)
	require.NoError(t, err)
	assert.Equal(t, []string{ports.PermImportsRead}, perms)
}
