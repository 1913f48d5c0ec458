// Package excel writes reconstructed sheets to xlsx files.
package excel

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/xuri/excelize/v2"

	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// SheetName is the single worksheet every converted workbook contains.
const SheetName = "Sheet1"

// Writer implements interfaces.SheetWriter with excelize.
type Writer struct {
	logger arbor.ILogger
}

var _ interfaces.SheetWriter = (*Writer)(nil)

func NewWriter(logger arbor.ILogger) *Writer {
	return &Writer{logger: logger}
}

// WriteSheet writes sheet to path as one worksheet. Every cell is a string;
// empty rows are left blank and rows are not padded to a common width.
func (w *Writer) WriteSheet(ctx context.Context, path string, sheet models.Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	written := 0
	for i, row := range sheet {
		if len(row) == 0 {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("invalid row %d: %w", i+1, err)
		}

		values := make([]interface{}, len(row))
		for j, text := range row {
			values[j] = text
		}

		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		written++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Debug().
		Str("path", path).
		Int("rows", len(sheet)).
		Int("non_empty_rows", written).
		Msg("Workbook written")

	return nil
}
