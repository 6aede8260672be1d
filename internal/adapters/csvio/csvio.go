// Package csvio reads and writes delimited text files as tables.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/wcprep/internal/domain/table"
)

const utf8BOM = "\ufeff"

// Read loads the CSV file at path. The header is kept verbatim and every
// column goes through type inference.
func Read(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	t, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses CSV records from r into a table.
func Decode(ctx context.Context, r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrRead)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	raw := make([][]string, len(header))
	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		for i, field := range rec {
			raw[i] = append(raw[i], field)
		}
		rows++
	}

	t := table.New(header...)
	t.Rows = make([][]table.Value, rows)
	for i := range t.Rows {
		t.Rows[i] = make([]table.Value, len(header))
	}
	for c := range header {
		for r, v := range table.InferColumn(raw[c]) {
			t.Rows[r][c] = v
		}
	}
	return t, nil
}

// Write serializes t to path, replacing any existing file.
func Write(ctx context.Context, path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := Encode(ctx, f, t); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Encode writes the header and every row of t to w, without any index column.
func Encode(ctx context.Context, w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	cells := Cells(t)
	for _, rec := range cells {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Cells renders every row of t as text. A date column is written with a time
// of day on every row as soon as one of its values carries one.
func Cells(t *table.Table) [][]string {
	clock := t.ClockColumns()
	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rec := make([]string, len(row))
		for c, v := range row {
			rec[c] = table.Render(v, clock[c])
		}
		out[r] = rec
	}
	return out
}
