// Package geocode resolves free-text birthplaces to coordinates through an
// injected location provider, walking an ordered list of query rewrites.
package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/pkg/logger"
	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

// Provider is the abstract location lookup capability.
type Provider interface {
	// Search returns zero or more places matching the query.
	Search(ctx context.Context, query string) ([]model.Place, error)
}

// Resolver turns a birthplace string into a verified coordinate.
type Resolver struct {
	provider       Provider
	defaultCountry string
	logger         logger.Logger
}

// NewResolver creates a Resolver with configuration options.
func NewResolver(provider Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider:       provider,
		defaultCountry: "USA",
		logger:         logger.Get().Named("geocode"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates builds the ordered query rewrites for a birthplace:
//  1. the trimmed input verbatim
//  2. the substring before the first comma ("city only")
//  3. the city-only substring with the default country appended
//
// Rewrites that collapse to an already-listed string are dropped; retrying
// an identical query is wasted provider quota.
func (r *Resolver) Candidates(place string) []string {
	verbatim := strings.TrimSpace(place)
	city, _, _ := strings.Cut(verbatim, ",")
	city = strings.TrimSpace(city)

	raw := []string{verbatim, city}
	if r.defaultCountry != "" && city != "" {
		raw = append(raw, city+", "+r.defaultCountry)
	}

	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if c == "" || contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Resolve tries each candidate sequentially and returns the first coordinate
// found. Provider errors and empty result sets on a candidate are swallowed;
// the next candidate is a designed degradation, not a retry. When every
// candidate misses, the returned error enumerates all attempted queries.
func (r *Resolver) Resolve(ctx context.Context, place string) (model.GeoCoordinate, error) {
	candidates := r.Candidates(place)
	for i, query := range candidates {
		places, err := r.provider.Search(ctx, query)
		if err != nil {
			r.logger.Warn(ctx, "geocode candidate failed",
				logger.String("query", query), logger.Error(err))
			continue
		}
		if len(places) == 0 {
			r.logger.Debug(ctx, "geocode candidate returned no results",
				logger.String("query", query))
			continue
		}
		coord := places[0].Coordinate
		if !coord.Valid() {
			r.logger.Warn(ctx, "geocode candidate returned out-of-bounds coordinate",
				logger.String("query", query),
				logger.Float64("latitude", coord.Latitude),
				logger.Float64("longitude", coord.Longitude))
			continue
		}
		metrics.RecordGeocodeFallbackDepth(i + 1)
		return coord, nil
	}
	return model.GeoCoordinate{}, fmt.Errorf("%w: attempted candidates %s",
		ErrPlaceNotFound, quoteAll(candidates))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func quoteAll(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
