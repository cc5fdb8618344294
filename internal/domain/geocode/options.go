package geocode

import "github.com/sophie623/birth-chart-generator/pkg/logger"

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithDefaultCountry sets the country appended to city-only fallback
// candidates. An empty value disables the third candidate.
func WithDefaultCountry(country string) Option {
	return func(r *Resolver) {
		r.defaultCountry = country
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
