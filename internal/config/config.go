// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env on top.
// - Provider credentials live here and only here; pipeline components receive
//   them through constructors, never from ambient lookups.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultCountry is appended to city-only geocode fallback candidates.
	DefaultCountry string `koanf:"default_country"`

	// ProviderTimeoutMS bounds every external provider call.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// Location (geocoding) provider.
	LocationBaseURL string `koanf:"location_base_url"`
	LocationAPIKey  string `koanf:"location_api_key"`

	// Timezone provider.
	TimezoneBaseURL string `koanf:"timezone_base_url"`
	TimezoneAPIKey  string `koanf:"timezone_api_key"`

	// Ephemeris provider (basic auth user id + key).
	EphemerisBaseURL string `koanf:"ephemeris_base_url"`
	EphemerisUserID  string `koanf:"ephemeris_user_id"`
	EphemerisAPIKey  string `koanf:"ephemeris_api_key"`

	// Contact-management service used by the notification step.
	ContactBaseURL string `koanf:"contact_base_url"`
	ContactAPIKey  string `koanf:"contact_api_key"`

	// TagIDs maps placement tag keys (e.g. "sun_gemini") to contact-service
	// tag identifiers. Missing keys are skipped during notification.
	TagIDs map[string]string `koanf:"tag_ids"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		DefaultCountry:    "USA",
		ProviderTimeoutMS: 10_000,
		TagIDs:            map[string]string{},
	}
}
