package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"idreview/internal/domain"
)

// SheetName is the worksheet holding the exported history.
const SheetName = "History"

// WriteXLSX writes docs as a single-sheet workbook with a bold header row.
func WriteXLSX(out io.Writer, docs []domain.Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	table := NewTable(docs)
	header := table.Header()
	if err := writeRow(f, 1, header); err != nil {
		return err
	}
	for i := range docs {
		if err := writeRow(f, i+2, table.Row(&docs[i])); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 20); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

// Write renders docs in format to out.
func Write(out io.Writer, format Format, docs []domain.Document) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(out, docs)
	case FormatCSV:
		return WriteCSV(out, docs)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, format)
	}
}
