package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/utils"
)

// TicketRepository stores the active dataset in the tickets table.
type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(pool *pgxpool.Pool) ports.TicketRepository {
	return &TicketRepository{pool: pool}
}

var ticketColumns = []string{
	"id", "key", "issue_type", "priority", "status", "resolution",
	"reporter", "assignee", "app_name", "components",
	"change_priority", "fault_priority", "issue_priority", "defect_priority", "service_priority",
	"created", "updated",
}

// sortColumns maps API sort keys to table columns.
var sortColumns = map[string]string{
	"id":         "id",
	"key":        "key",
	"issueType":  "issue_type",
	"priority":   "priority",
	"status":     "status",
	"resolution": "resolution",
	"reporter":   "reporter",
	"assignee":   "assignee",
	"appName":    "app_name",
	"created":    "created",
	"updated":    "updated",
}

// searchColumns are matched case-insensitively by TicketQuery.Search.
var searchColumns = []string{"key", "issue_type", "priority", "status", "resolution", "reporter", "assignee", "app_name", "components"}

// ReplaceAll deletes the current dataset and bulk-loads tickets with COPY.
// Call it inside a transaction so readers never see an empty table.
func (r *TicketRepository) ReplaceAll(ctx context.Context, tickets []domain.Ticket) (int64, error) {
	db := GetDBTX(ctx, r.pool)

	if _, err := db.Exec(ctx, `DELETE FROM tickets`); err != nil {
		return 0, fmt.Errorf("clear tickets: %w", err)
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{"tickets"}, ticketColumns, pgx.CopyFromSlice(len(tickets), func(i int) ([]any, error) {
		t := tickets[i]
		return []any{
			t.ID, t.Key, string(t.IssueType), string(t.Priority), t.Status, string(t.Resolution),
			t.Reporter, t.Assignee, t.AppName, t.Components,
			t.ChangePriority, t.FaultPriority, t.IssuePriority, t.DefectPriority, t.ServicePriority,
			utils.ToTimestamp(t.Created), utils.ToTimestamp(t.Updated),
		}, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy tickets: %w", err)
	}
	return n, nil
}

// ListAll returns the whole dataset in import order.
func (r *TicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx,
		`SELECT `+strings.Join(ticketColumns, ", ")+` FROM tickets ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// List returns one page of the dataset and the number of matching rows.
func (r *TicketRepository) List(ctx context.Context, q ports.TicketQuery) ([]domain.Ticket, int64, error) {
	column := "seq"
	if q.SortBy != "" {
		mapped, ok := sortColumns[q.SortBy]
		if !ok {
			return nil, 0, apperrors.ErrInvalidSortColumn
		}
		column = mapped
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	var (
		where string
		args  []any
	)
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conds := make([]string, len(searchColumns))
		for i, c := range searchColumns {
			conds[i] = c + " ILIKE $1"
		}
		where = " WHERE " + strings.Join(conds, " OR ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 25
	}
	args = append(args, limit, max(q.Offset, 0))

	sql := fmt.Sprintf(
		`SELECT %s, count(*) OVER () FROM tickets%s ORDER BY %s %s NULLS LAST, seq LIMIT $%d OFFSET $%d`,
		strings.Join(ticketColumns, ", "), where, column, direction, len(args)-1, len(args),
	)

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		tickets = make([]domain.Ticket, 0, limit)
		total   int64
	)
	for rows.Next() {
		t, err := scanTicket(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// An offset past the end returns no rows, and so no window count.
	if len(tickets) == 0 && q.Offset > 0 {
		countSQL := `SELECT count(*) FROM tickets` + where
		if err := GetDBTX(ctx, r.pool).QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return tickets, total, nil
}

func scanTicket(row pgx.Row, extra ...any) (domain.Ticket, error) {
	var (
		t                               domain.Ticket
		issueType, priority, resolution string
		created, updated                pgtype.Timestamp
	)
	dest := []any{
		&t.ID, &t.Key, &issueType, &priority, &t.Status, &resolution,
		&t.Reporter, &t.Assignee, &t.AppName, &t.Components,
		&t.ChangePriority, &t.FaultPriority, &t.IssuePriority, &t.DefectPriority, &t.ServicePriority,
		&created, &updated,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Ticket{}, err
	}

	t.IssueType = domain.IssueType(issueType)
	t.Priority = domain.Priority(priority)
	t.Resolution = domain.Resolution(resolution)
	t.Created = utils.FromTimestamp(created)
	t.Updated = utils.FromTimestamp(updated)
	return t, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
