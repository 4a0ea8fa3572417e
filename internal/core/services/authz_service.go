package services

import (
	"context"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// AuthorizationService implements role-based permission checks.
type AuthorizationService struct {
	rolePermissions map[domain.Role][]string
}

// Ensure implementation matches the interface.
var _ ports.AuthorizationService = (*AuthorizationService)(nil)

// DefaultRolePermissions returns the permission sets of the two roles.
func DefaultRolePermissions() map[domain.Role][]string {
	return map[domain.Role][]string{
		domain.RoleExecutive: {
			ports.PermDashboardExecutive,
			ports.PermImportsCreate,
			ports.PermImportsRead,
		},
		domain.RoleManager: {
			ports.PermDashboardExecutive,
			ports.PermDashboardManager,
			ports.PermTicketsRead,
			ports.PermImportsCreate,
			ports.PermImportsRead,
		},
	}
}

// NewAuthorizationService creates a new service for authorization logic.
func NewAuthorizationService(rolePermissions map[domain.Role][]string) ports.AuthorizationService {
	if rolePermissions == nil {
		rolePermissions = DefaultRolePermissions()
	}
	return &AuthorizationService{rolePermissions: rolePermissions}
}

// Can checks if the session's role grants a permission.
func (s *AuthorizationService) Can(ctx context.Context, session *domain.Session, permission string) (bool, error) {
	if session == nil {
		return false, apperrors.ErrUnauthorized
	}

	permissions, err := s.GetPermissions(ctx, session.Role)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// GetPermissions returns all permissions for a role.
func (s *AuthorizationService) GetPermissions(_ context.Context, role domain.Role) ([]string, error) {
	if !role.IsValid() {
		return nil, apperrors.ErrInvalidRole
	}

	permissions := s.rolePermissions[role]
	if permissions == nil {
		return []string{}, nil
	}
	return permissions, nil
}

// authorize returns ErrForbidden unless the session holds permission.
func authorize(ctx context.Context, authz ports.AuthorizationService, session *domain.Session, permission string) error {
	ok, err := authz.Can(ctx, session, permission)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}
