package ports

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
)

// Permissions checked by the services.
const (
	PermDashboardExecutive = "dashboards:executive"
	PermDashboardManager   = "dashboards:manager"
	PermTicketsRead        = "tickets:read"
	PermImportsCreate      = "imports:create"
	PermImportsRead        = "imports:read"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Session *domain.Session
	Token   string
}

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// Session resolves a live session, rejecting cleared or expired ones.
	Session(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
}

// AuthorizationService defines the port for checking role permissions.
type AuthorizationService interface {
	Can(ctx context.Context, session *domain.Session, permission string) (bool, error)
	GetPermissions(ctx context.Context, role domain.Role) ([]string, error)
}

// ImportTicketsParams defines the input for uploading a dataset.
type ImportTicketsParams struct {
	Session  *domain.Session
	FileName string
	// Format overrides detection from the file extension when set.
	Format  domain.ImportFormat
	Content io.Reader
}

// ListTicketsParams defines the input for the manager ticket table.
type ListTicketsParams struct {
	Session  *domain.Session
	Search   string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// TicketPage is one page of the ticket table.
type TicketPage struct {
	Tickets []domain.Ticket
	Total   int64
}

// TicketService defines the operations on the active dataset.
type TicketService interface {
	ImportTickets(ctx context.Context, params ImportTicketsParams) (*domain.Import, error)
	ListTickets(ctx context.Context, params ListTicketsParams) (*TicketPage, error)
	AnnotatedTickets(ctx context.Context, session *domain.Session) ([]kpi.Annotated, error)
	LatestImport(ctx context.Context, session *domain.Session) (*domain.Import, error)
}

// DashboardService assembles the role-specific dashboards.
type DashboardService interface {
	// Executive builds the summary view; a nil year selects the latest year in the data.
	Executive(ctx context.Context, session *domain.Session, year *int) (*domain.ExecutiveDashboard, error)
	Manager(ctx context.Context, session *domain.Session) (*domain.ManagerDashboard, error)
}

// TransactionManager defines the port for running atomic operations.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
