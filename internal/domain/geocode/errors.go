package geocode

import "errors"

// Sentinel kinds for geocoding errors.
var (
	ErrPlaceNotFound = errors.New("place not found")
)
