// Package assemble builds the final placement list and Big Three summary
// from an ephemeris response, deriving signs and houses where the provider
// omitted them and synthesizing the South Node and Rising entries.
package assemble

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/internal/domain/zodiac"
	"github.com/sophie623/birth-chart-generator/pkg/logger"
	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

// Point names synthesized by the assembler rather than reported by the
// ephemeris provider.
const (
	northNodeName = "North Node"
	southNodeName = "South Node"
	risingName    = "Rising"
)

// trackedBodies is the fixed list of celestial points read from the
// ephemeris, in output order. Bodies the provider does not cover are
// omitted from the result; only Sun and Moon are mandatory.
var trackedBodies = []string{
	"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn",
	"Uranus", "Neptune", "Pluto", "Chiron", northNodeName,
}

// Assembler derives placements from ephemeris data.
type Assembler struct {
	logger logger.Logger
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithLogger sets a custom logger for the assembler.
func WithLogger(l logger.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Assembler with configuration options.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		logger: logger.Get().Named("assemble"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build constructs the placement result from an ephemeris response.
//
// Bodies are matched by case-insensitive name; absent bodies are skipped.
// Sign and house are derived from the reported degree only when the
// provider omitted them. The South Node is synthesized as the antipode of
// the North Node's degree with its own independent sign and house
// derivation, and Rising takes the sign of the house-1 cusp.
func (a *Assembler) Build(ctx context.Context, eph model.Ephemeris) (model.PlacementResult, error) {
	byName := make(map[string]model.EphemerisBody, len(eph.Bodies))
	for _, b := range eph.Bodies {
		byName[strings.ToLower(b.Name)] = b
	}

	var points []model.CelestialPoint
	for _, name := range trackedBodies {
		body, ok := byName[strings.ToLower(name)]
		if !ok {
			continue
		}
		points = append(points, a.resolvePoint(ctx, name, body, eph.Cusps))
	}

	south, err := a.southNode(ctx, byName, eph.Cusps)
	if err != nil {
		return model.PlacementResult{}, err
	}
	points = append(points, south)

	rising := a.risingSign(eph.Cusps)
	if rising != "" {
		points = append(points, model.CelestialPoint{Name: risingName, Sign: rising})
	}

	big := model.BigThree{
		Sun:    signFor(points, "Sun"),
		Moon:   signFor(points, "Moon"),
		Rising: rising,
	}
	if missing := missingBigThree(big); len(missing) > 0 {
		return model.PlacementResult{}, fmt.Errorf("%w: missing %s",
			ErrIncompletePlacements, strings.Join(missing, ", "))
	}

	return model.PlacementResult{BigThree: big, Points: points}, nil
}

// resolvePoint fills in sign and house for one body, trusting
// provider-supplied values and deriving from the degree otherwise.
func (a *Assembler) resolvePoint(ctx context.Context, name string, body model.EphemerisBody, cusps []model.HouseCusp) model.CelestialPoint {
	point := model.CelestialPoint{Name: name, Sign: body.Sign, House: body.House}
	if deg := finiteDegree(body.Degree); deg != nil {
		d := *deg
		point.Degree = &d
		if point.Sign == "" {
			point.Sign = zodiac.SignOf(d)
		}
		if point.House == 0 {
			point.House = a.assignHouse(ctx, name, d, cusps)
		}
	}
	return point
}

// southNode synthesizes the South Node from the North Node's degree. A
// sign-only North Node is unusable: the antipode is computed in degree
// space, never by sign arithmetic.
func (a *Assembler) southNode(ctx context.Context, byName map[string]model.EphemerisBody, cusps []model.HouseCusp) (model.CelestialPoint, error) {
	node, ok := byName[strings.ToLower(northNodeName)]
	deg := finiteDegree(node.Degree)
	if !ok || deg == nil {
		return model.CelestialPoint{}, fmt.Errorf(
			"%w: north node degree is required to derive the south node",
			ErrIncompleteEphemeris)
	}
	d := zodiac.Antipode(*deg)
	return model.CelestialPoint{
		Name:   southNodeName,
		Degree: &d,
		Sign:   zodiac.SignOf(d),
		House:  a.assignHouse(ctx, southNodeName, d, cusps),
	}, nil
}

// assignHouse wraps zodiac.HouseOf and flags the fail-open path as a
// degraded result instead of aborting the chart.
func (a *Assembler) assignHouse(ctx context.Context, name string, degree float64, cusps []model.HouseCusp) int {
	house, matched := zodiac.HouseOf(degree, cusps)
	if !matched {
		metrics.RecordHouseFallback()
		a.logger.Warn(ctx, "degree matched no house segment, degrading to house 1",
			logger.String("point", name),
			logger.Float64("degree", degree),
			logger.Int("cusps", len(cusps)))
	}
	return house
}

// risingSign reads the sign of the house-1 cusp, deriving it from the cusp
// degree when the provider omitted the sign string. Rising is house 1 by
// definition, so no house assignment is performed for it.
func (a *Assembler) risingSign(cusps []model.HouseCusp) string {
	for _, c := range cusps {
		if c.House != 1 {
			continue
		}
		if c.Sign != "" {
			return c.Sign
		}
		return zodiac.SignOf(c.Degree)
	}
	return ""
}

// finiteDegree returns the degree when present and finite, nil otherwise.
func finiteDegree(degree *float64) *float64 {
	if degree == nil || math.IsNaN(*degree) || math.IsInf(*degree, 0) {
		return nil
	}
	return degree
}

func signFor(points []model.CelestialPoint, name string) string {
	for _, p := range points {
		if p.Name == name {
			return p.Sign
		}
	}
	return ""
}

func missingBigThree(b model.BigThree) []string {
	var missing []string
	if b.Sun == "" {
		missing = append(missing, "sun")
	}
	if b.Moon == "" {
		missing = append(missing, "moon")
	}
	if b.Rising == "" {
		missing = append(missing, "rising")
	}
	return missing
}
