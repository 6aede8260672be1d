// Package sqlite mirrors output tables into a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/okian/wcprep/internal/domain/table"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const driverName = "sqlite"

// Export writes every table into the database at path. Each table is dropped
// and recreated, so repeated runs leave the same content.
func Export(ctx context.Context, path string, tables ...table.Named) error {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = db.Close() }()

	for _, nt := range tables {
		if err := writeTable(ctx, db, nt); err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrExport, nt.Name, err)
		}
	}
	return nil
}

func writeTable(ctx context.Context, db *sql.DB, nt table.Named) error {
	t := nt.Table
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	name := quote(nt.Name)
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+name); err != nil {
		return err
	}

	types := ColumnTypes(t)
	defs := make([]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(c)
		defs[i] = cols[i] + " " + types[i]
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+name+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return err
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+name+` (`+strings.Join(cols, ", ")+`) VALUES (`+ph+`)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	clock := t.ClockColumns()
	args := make([]any, len(cols))
	for _, row := range t.Rows {
		for c, v := range row {
			args[c] = sqlValue(v, clock[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ColumnTypes picks a SQLite column type for every column of t from the
// kinds of its present values.
func ColumnTypes(t *table.Table) []string {
	out := make([]string, len(t.Columns))
	for c := range t.Columns {
		ints, floats, other := 0, 0, 0
		for _, row := range t.Rows {
			switch row[c].Kind() {
			case table.Missing:
			case table.Int, table.Bool:
				ints++
			case table.Float:
				floats++
			default:
				other++
			}
		}
		switch {
		case other > 0 || ints+floats == 0:
			out[c] = "TEXT"
		case floats > 0:
			out[c] = "REAL"
		default:
			out[c] = "INTEGER"
		}
	}
	return out
}

func sqlValue(v table.Value, withClock bool) any {
	switch v.Kind() {
	case table.Missing:
		return nil
	case table.Int, table.Bool:
		return v.Int()
	case table.Float:
		f, _ := v.Float()
		return f
	default:
		return table.Render(v, withClock)
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
