package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet. Cells are read raw so date cells
// arrive as serial numbers and are converted here rather than through the
// sheet's display format.
func parseXLSX(ctx context.Context, r io.Reader) (*ports.ParsedDataset, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, apperrors.ErrEmptyUpload
	}

	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyUpload
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	data := rows[1:]
	for _, row := range data {
		convertSerialDate(cols, row, fieldCreated)
		convertSerialDate(cols, row, fieldUpdated)
	}

	return collect(ctx, cols, data)
}

// convertSerialDate rewrites an Excel serial date cell as a naive timestamp.
// Text cells are left for domain.ParseTimestamp.
func convertSerialDate(cols columnMap, row []string, f field) {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return
	}
	serial, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return
	}
	row[idx] = t.Format("2006-01-02T15:04:05")
}
