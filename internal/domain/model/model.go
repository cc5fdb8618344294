// Package model contains domain models passed between pipeline stages.
package model

import (
	"fmt"
	"strings"
)

// BirthEvent is the immutable input to the placement pipeline: a civil
// date/time and a free-text birthplace. Email and DisplayName identify the
// contact record for the notification step; both may be empty, in which
// case notification is skipped.
type BirthEvent struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Place  string

	Email       string
	DisplayName string
}

// Validate checks calendar-valid ranges on all date/time components and a
// non-empty birthplace. It runs before any network call.
func (b BirthEvent) Validate() error {
	switch {
	case b.Year < 1 || b.Year > 9999:
		return fmt.Errorf("%w: year %d out of range", ErrInvalidArgument, b.Year)
	case b.Month < 1 || b.Month > 12:
		return fmt.Errorf("%w: month %d out of range", ErrInvalidArgument, b.Month)
	case b.Day < 1 || b.Day > 31:
		return fmt.Errorf("%w: day %d out of range", ErrInvalidArgument, b.Day)
	case b.Hour < 0 || b.Hour > 23:
		return fmt.Errorf("%w: hour %d out of range", ErrInvalidArgument, b.Hour)
	case b.Minute < 0 || b.Minute > 59:
		return fmt.Errorf("%w: minute %d out of range", ErrInvalidArgument, b.Minute)
	case strings.TrimSpace(b.Place) == "":
		return fmt.Errorf("%w: birthplace must not be empty", ErrInvalidArgument)
	}
	return nil
}

// GeoCoordinate is a verified latitude/longitude in floating-point degrees.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are within geographic bounds.
func (g GeoCoordinate) Valid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// Place is one geocoding result for a candidate query.
type Place struct {
	Coordinate  GeoCoordinate
	DisplayName string
}

// UTCOffset is a signed offset from UTC in fractional hours (e.g. 9.5),
// valid at the birth instant, not "now".
type UTCOffset float64

// EphemerisBody is one celestial body record as reported by the ephemeris
// provider. Degree is nil when the provider omitted it; Sign and House are
// zero-valued when the provider left derivation to us.
type EphemerisBody struct {
	Name   string
	Degree *float64
	Sign   string
	House  int
}

// HouseCusp marks the start of one house on the ecliptic. Cusps are ordered
// by house number; their degrees wrap in zodiac-degree space.
type HouseCusp struct {
	House  int     `json:"house"`
	Degree float64 `json:"degree"`
	Sign   string  `json:"sign,omitempty"`
}

// Ephemeris is the provider response consumed by the assembler: body
// positions plus exactly 12 house cusps.
type Ephemeris struct {
	Bodies []EphemerisBody
	Cusps  []HouseCusp
}

// CelestialPoint is one fully resolved placement in the output list.
type CelestialPoint struct {
	Name   string   `json:"name"`
	Degree *float64 `json:"degree,omitempty"`
	Sign   string   `json:"sign"`
	House  int      `json:"house,omitempty"`
}

// BigThree summarizes the Sun, Moon, and Rising signs.
type BigThree struct {
	Sun    string `json:"sun"`
	Moon   string `json:"moon"`
	Rising string `json:"rising"`
}

// PlacementResult is the pipeline's terminal artifact. It is read-only once
// produced: serialized to the caller and copied to the notification step.
type PlacementResult struct {
	BigThree BigThree         `json:"big_three"`
	Points   []CelestialPoint `json:"placements"`
}
