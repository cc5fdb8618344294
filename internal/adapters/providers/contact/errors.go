package contact

import "errors"

// Sentinel kinds for contact service errors.
var (
	ErrService = errors.New("notification service failed")
)
