package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

func parseCSV(ctx context.Context, r io.Reader) (*ports.ParsedDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.ErrEmptyUpload
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}

	return collect(ctx, cols, rows)
}
