package split

import "errors"

// Sentinel kinds for split errors.
var (
	ErrMissingYear = errors.New("missing year column")
	ErrOverlap     = errors.New("train and test years overlap")
)
