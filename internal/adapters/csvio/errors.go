package csvio

import "errors"

// Sentinel kinds for CSV I/O errors.
var (
	ErrOpen  = errors.New("open input")
	ErrRead  = errors.New("read csv")
	ErrWrite = errors.New("write csv")
)
