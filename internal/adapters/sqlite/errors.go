package sqlite

import "errors"

// Sentinel kinds for SQLite export errors.
var (
	ErrOpen   = errors.New("open sqlite database")
	ErrExport = errors.New("export to sqlite")
)
