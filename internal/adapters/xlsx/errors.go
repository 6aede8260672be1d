package xlsx

import "errors"

// Sentinel kinds for workbook export errors.
var (
	ErrExport = errors.New("export workbook")
	ErrSave   = errors.New("save workbook")
)
