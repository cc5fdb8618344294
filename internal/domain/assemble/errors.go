package assemble

import "errors"

// Sentinel kinds for placement assembly errors.
var (
	ErrIncompleteEphemeris  = errors.New("incomplete ephemeris data")
	ErrIncompletePlacements = errors.New("incomplete placements")
)
