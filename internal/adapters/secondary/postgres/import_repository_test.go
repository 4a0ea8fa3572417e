package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRepository_CreateLatest(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	repo := NewImportRepository(testPool)

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoDataset)

	user := createTestUser(t, ctx, "uploader", domain.RoleExecutive)

	first, err := repo.Create(ctx, &domain.Import{
		ID:         uuid.New(),
		FileName:   "jan.csv",
		Format:     domain.FormatCSV,
		RowCount:   10,
		UploadedBy: user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, first.UploadedBy)
	assert.False(t, first.CreatedAt.IsZero())

	// created_at defaults to now(); make sure the second row sorts later.
	time.Sleep(10 * time.Millisecond)

	second, err := repo.Create(ctx, &domain.Import{
		FileName:    "feb.xlsx",
		Format:      domain.FormatXLSX,
		RowCount:    12,
		SkippedRows: 2,
		UploadedBy:  user.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, second.ID)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "feb.xlsx", latest.FileName)
	assert.Equal(t, domain.FormatXLSX, latest.Format)
	assert.Equal(t, 12, latest.RowCount)
	assert.Equal(t, 2, latest.SkippedRows)
}
