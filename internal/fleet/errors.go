package fleet

import "errors"

var (
	// ErrDataUnavailable means the fleet API (or store) could not be read.
	// Callers keep their last good state and surface a warning.
	ErrDataUnavailable = errors.New("fleet data unavailable")
	// ErrNotFound means a referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRange means a date filter ends before it starts.
	ErrInvalidRange = errors.New("invalid date range")
)
