package timezone

import "errors"

// Sentinel kinds for timezone lookup errors.
var (
	ErrUnresolved = errors.New("timezone unresolved")
)
