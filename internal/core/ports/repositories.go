package ports

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// UserRepository persists dashboard users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TicketQuery selects a page of the active dataset.
type TicketQuery struct {
	Search   string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// TicketRepository stores the active ticket dataset.
type TicketRepository interface {
	// ReplaceAll swaps the whole dataset for tickets.
	ReplaceAll(ctx context.Context, tickets []domain.Ticket) (int64, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	List(ctx context.Context, query TicketQuery) ([]domain.Ticket, int64, error)
}

// ImportRepository records dataset uploads.
type ImportRepository interface {
	Create(ctx context.Context, imp *domain.Import) (*domain.Import, error)
	Latest(ctx context.Context) (*domain.Import, error)
}

// SessionStore holds authenticated sessions.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Clear(ctx context.Context, id uuid.UUID) error
}

// ParsedDataset is the result of reading an export file.
type ParsedDataset struct {
	Rows    []domain.RawTicket
	Skipped int
}

// DatasetParser reads raw ticket records from an uploaded file.
type DatasetParser interface {
	Parse(ctx context.Context, format domain.ImportFormat, r io.Reader) (*ParsedDataset, error)
}

// TokenIssuer signs access tokens for sessions.
type TokenIssuer interface {
	GenerateToken(session *domain.Session) (string, error)
}

// EventBroadcaster pushes real-time events to connected clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
