// Package zodiac implements the ecliptic degree math used by the placement
// pipeline: degree normalization, sign resolution, house-cusp interval
// assignment with wraparound, and the antipode used for the South Node.
package zodiac

import (
	"math"
	"sort"

	"github.com/sophie623/birth-chart-generator/internal/domain/model"
)

// degreesPerSign is the width of one zodiac sign segment.
const degreesPerSign = 30

// fullCircle is one revolution in degrees.
const fullCircle = 360

// Signs lists the 12 zodiac signs in zodiacal order starting at 0 degrees.
var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer",
	"Leo", "Virgo", "Libra", "Scorpio",
	"Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Normalize maps any finite degree onto [0, 360). Reduction is repeated
// rather than a single modulo so the result can never land on exactly 360
// through floating-point rounding at multiples of the circle. Non-finite
// input propagates as NaN; callers must validate degrees first.
func Normalize(degree float64) float64 {
	if math.IsNaN(degree) || math.IsInf(degree, 0) {
		return math.NaN()
	}
	for degree < 0 {
		degree += fullCircle
	}
	for degree >= fullCircle {
		degree -= fullCircle
	}
	return degree
}

// SignOf resolves a degree to its zodiac sign. Exact segment boundaries
// (0, 30, 60, ...) resolve to the sign that starts there. Returns the empty
// string for non-finite input.
func SignOf(degree float64) string {
	d := Normalize(degree)
	if math.IsNaN(d) {
		return ""
	}
	return Signs[int(d)/degreesPerSign]
}

// Antipode returns the diametrically opposite degree.
func Antipode(degree float64) float64 {
	return Normalize(degree + fullCircle/2)
}

// HouseOf determines which house (1-12) contains the degree. Each house's
// segment runs forward from its own cusp to the next house's cusp, wrapping
// at 360 -> 0; houses are checked in ascending house-number order and the
// first match wins. With malformed cusps no segment may match: the degree
// then falls open to house 1 and the second return value is false so the
// caller can flag the chart as degraded instead of aborting it.
func HouseOf(degree float64, cusps []model.HouseCusp) (int, bool) {
	d := Normalize(degree)
	if math.IsNaN(d) || len(cusps) == 0 {
		return 1, false
	}

	ordered := make([]model.HouseCusp, len(cusps))
	copy(ordered, cusps)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].House < ordered[j].House
	})

	for i, cusp := range ordered {
		start := Normalize(cusp.Degree)
		end := Normalize(ordered[(i+1)%len(ordered)].Degree)
		if math.IsNaN(start) || math.IsNaN(end) {
			continue
		}
		if start <= end {
			if d >= start && d < end {
				return cusp.House, true
			}
			continue
		}
		// Segment crosses 0 degrees.
		if d >= start || d < end {
			return cusp.House, true
		}
	}
	return 1, false
}
