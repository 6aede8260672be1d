package table

import (
	"fmt"
	"slices"
)

// Table is an ordered set of named columns and positional rows. Every row
// holds exactly one Value per column.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// New creates an empty table with the given header.
func New(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Columns, name)
}

// Has reports whether the table carries column name.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Append adds a row. The row length must match the header.
func (t *Table) Append(row []Value) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: row has %d values, header has %d", ErrRowWidth, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Column returns a copy of the values of column name.
func (t *Table) Column(name string) ([]Value, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = slices.Clone(row)
	}
	return c
}

// Select returns a new table with the rows for which keep returns true.
// Row order is preserved.
func (t *Table) Select(keep func(row []Value) bool) *Table {
	out := New(t.Columns...)
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}
	return out
}

// ClockColumns reports, per column, whether any Date value in it carries a
// time of day. Such columns are rendered with the time on every row.
func (t *Table) ClockColumns() []bool {
	clock := make([]bool, len(t.Columns))
	for _, row := range t.Rows {
		for c, v := range row {
			if v.HasClock() {
				clock[c] = true
			}
		}
	}
	return clock
}

// Named pairs a table with the name it is exported under.
type Named struct {
	Name  string
	Table *Table
}
