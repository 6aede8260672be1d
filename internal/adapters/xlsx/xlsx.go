// Package xlsx exports output tables as sheets of a single workbook.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/okian/wcprep/internal/domain/table"
)

const defaultSheet = "Sheet1"

// Export writes one sheet per table to the workbook at path, replacing any
// existing file. Sheets appear in argument order.
func Export(ctx context.Context, path string, tables ...table.Named) error {
	if len(tables) == 0 {
		return fmt.Errorf("%w: no tables", ErrExport)
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, nt := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, nt.Name); err != nil {
				return fmt.Errorf("%w: rename sheet: %w", ErrExport, err)
			}
		} else if _, err := f.NewSheet(nt.Name); err != nil {
			return fmt.Errorf("%w: sheet %s: %w", ErrExport, nt.Name, err)
		}
		if err := writeSheet(f, nt); err != nil {
			return fmt.Errorf("%w: sheet %s: %w", ErrExport, nt.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

func writeSheet(f *excelize.File, nt table.Named) error {
	t := nt.Table
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(nt.Name, "A1", &header); err != nil {
		return err
	}

	clock := t.ClockColumns()
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = cellValue(v, clock[c])
		}
		if err := f.SetSheetRow(nt.Name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(v table.Value, withClock bool) interface{} {
	switch v.Kind() {
	case table.Missing:
		return nil
	case table.Int:
		return v.Int()
	case table.Float:
		f, _ := v.Float()
		return f
	default:
		return table.Render(v, withClock)
	}
}
