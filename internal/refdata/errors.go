package refdata

import "errors"

var (
	ErrEmptyTable     = errors.New("refdata: reference table has no header row")
	ErrMissingColumn  = errors.New("refdata: missing required column")
	ErrMalformedTable = errors.New("refdata: malformed reference table")
)
