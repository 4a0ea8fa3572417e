package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// TicketService implements dataset import and the manager ticket table
type TicketService struct {
	ticketRepo  ports.TicketRepository
	importRepo  ports.ImportRepository
	txManager   ports.TransactionManager
	parser      ports.DatasetParser
	authzSvc    ports.AuthorizationService
	broadcaster ports.EventBroadcaster
	engine      *kpi.Engine
	logger      *slog.Logger
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo ports.TicketRepository,
	importRepo ports.ImportRepository,
	txManager ports.TransactionManager,
	parser ports.DatasetParser,
	authzSvc ports.AuthorizationService,
	broadcaster ports.EventBroadcaster,
	engine *kpi.Engine,
	logger *slog.Logger,
) ports.TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		importRepo:  importRepo,
		txManager:   txManager,
		parser:      parser,
		authzSvc:    authzSvc,
		broadcaster: broadcaster,
		engine:      engine,
		logger:      logger.With("service", "ticket"),
	}
}

// DetectFormat maps a file name's extension to an import format.
func DetectFormat(fileName string) (domain.ImportFormat, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return domain.FormatCSV, nil
	case ".xlsx", ".xlsm":
		return domain.FormatXLSX, nil
	case ".json":
		return domain.FormatJSON, nil
	}
	return "", apperrors.ErrUnsupportedFormat
}

// ImportTickets parses an uploaded file and replaces the active dataset
func (s *TicketService) ImportTickets(ctx context.Context, params ports.ImportTicketsParams) (*domain.Import, error) {
	if err := authorize(ctx, s.authzSvc, params.Session, ports.PermImportsCreate); err != nil {
		return nil, err
	}
	if params.Content == nil {
		return nil, apperrors.ErrEmptyUpload
	}

	format := params.Format
	if format == "" {
		detected, err := DetectFormat(params.FileName)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	parsed, err := s.parser.Parse(ctx, format, params.Content)
	if err != nil {
		return nil, err
	}
	if len(parsed.Rows) == 0 {
		return nil, apperrors.ErrEmptyUpload
	}

	tickets := make([]domain.Ticket, len(parsed.Rows))
	for i, raw := range parsed.Rows {
		tickets[i] = domain.NewTicket(raw)
	}

	imp := &domain.Import{
		ID:          uuid.New(),
		FileName:    filepath.Base(params.FileName),
		Format:      format,
		RowCount:    len(tickets),
		SkippedRows: parsed.Skipped,
		UploadedBy:  params.Session.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	var saved *domain.Import
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ticketRepo.ReplaceAll(ctx, tickets); err != nil {
			return fmt.Errorf("replace tickets: %w", err)
		}
		created, err := s.importRepo.Create(ctx, imp)
		if err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		saved = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dataset imported",
		"import_id", saved.ID,
		"format", saved.Format,
		"rows", saved.RowCount,
		"skipped", saved.SkippedRows,
	)

	if s.broadcaster != nil {
		s.broadcastImport(ctx, saved)
	}

	return saved, nil
}

// sortableColumns whitelists the ticket table sort keys.
var sortableColumns = map[string]bool{
	"id": true, "key": true, "issueType": true, "priority": true, "status": true,
	"resolution": true, "reporter": true, "assignee": true, "appName": true,
	"created": true, "updated": true,
}

// IsSortableColumn reports whether the ticket table can be sorted by column.
func IsSortableColumn(column string) bool {
	return sortableColumns[column]
}

// ListTickets returns one page of the filtered, sorted ticket table
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) (*ports.TicketPage, error) {
	if err := authorize(ctx, s.authzSvc, params.Session, ports.PermTicketsRead); err != nil {
		return nil, err
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	if !IsSortableColumn(sortBy) {
		return nil, apperrors.ErrInvalidSortColumn
	}

	tickets, total, err := s.ticketRepo.List(ctx, ports.TicketQuery{
		Search:   strings.TrimSpace(params.Search),
		SortBy:   sortBy,
		SortDesc: params.SortDesc,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &ports.TicketPage{Tickets: tickets, Total: total}, nil
}

// AnnotatedTickets returns the whole dataset with KPI flags
func (s *TicketService) AnnotatedTickets(ctx context.Context, session *domain.Session) ([]kpi.Annotated, error) {
	if err := authorize(ctx, s.authzSvc, session, ports.PermTicketsRead); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Annotate(tickets), nil
}

// LatestImport returns the metadata of the active dataset
func (s *TicketService) LatestImport(ctx context.Context, session *domain.Session) (*domain.Import, error) {
	if err := authorize(ctx, s.authzSvc, session, ports.PermImportsRead); err != nil {
		return nil, err
	}
	return s.importRepo.Latest(ctx)
}
