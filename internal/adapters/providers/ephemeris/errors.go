package ephemeris

import "errors"

// Sentinel kinds for ephemeris provider errors.
var (
	ErrProvider = errors.New("ephemeris provider failed")
)
