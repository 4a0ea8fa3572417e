package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/utils"
)

// ImportRepository records dataset uploads.
type ImportRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ImportRepository = (*ImportRepository)(nil)

func NewImportRepository(pool *pgxpool.Pool) ports.ImportRepository {
	return &ImportRepository{pool: pool}
}

const importColumns = `id, file_name, format, row_count, skipped_rows, uploaded_by, created_at`

func scanImport(row pgx.Row) (*domain.Import, error) {
	var (
		imp        domain.Import
		format     string
		uploadedBy pgtype.UUID
	)
	if err := row.Scan(&imp.ID, &imp.FileName, &format, &imp.RowCount, &imp.SkippedRows, &uploadedBy, &imp.CreatedAt); err != nil {
		return nil, err
	}
	imp.Format = domain.ImportFormat(format)
	imp.UploadedBy = utils.FromUUID(uploadedBy)
	return &imp, nil
}

func (r *ImportRepository) Create(ctx context.Context, imp *domain.Import) (*domain.Import, error) {
	id := imp.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := GetDBTX(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO imports (id, file_name, format, row_count, skipped_rows, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+importColumns,
		id, imp.FileName, string(imp.Format), imp.RowCount, imp.SkippedRows, utils.ToUUID(imp.UploadedBy),
	)
	return scanImport(row)
}

// Latest returns the most recent import, which describes the active dataset.
func (r *ImportRepository) Latest(ctx context.Context) (*domain.Import, error) {
	row := GetDBTX(ctx, r.pool).QueryRow(ctx,
		`SELECT `+importColumns+` FROM imports ORDER BY created_at DESC LIMIT 1`)

	imp, err := scanImport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoDataset
		}
		return nil, err
	}
	return imp, nil
}
