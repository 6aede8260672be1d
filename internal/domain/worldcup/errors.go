package worldcup

import "errors"

// Sentinel kinds for filter and join errors.
var (
	ErrMissingColumn       = errors.New("required column missing")
	ErrColumnConflict      = errors.New("column conflict")
	ErrDuplicateTournament = errors.New("duplicate tournament id with differing years")
)
