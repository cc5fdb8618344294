// Package app wires the placement-resolution pipeline: geocoding, timezone
// lookup, ephemeris computation, placement assembly, and the best-effort
// contact notification step.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sophie623/birth-chart-generator/internal/domain/assemble"
	"github.com/sophie623/birth-chart-generator/internal/domain/geocode"
	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/pkg/logger"
	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

// TimezoneProvider resolves the UTC offset valid at the birth instant.
type TimezoneProvider interface {
	OffsetFor(ctx context.Context, coord model.GeoCoordinate, birth model.BirthEvent) (model.UTCOffset, error)
}

// EphemerisProvider computes body positions and house cusps.
type EphemerisProvider interface {
	Compute(ctx context.Context, birth model.BirthEvent, coord model.GeoCoordinate, offset model.UTCOffset) (model.Ephemeris, error)
}

// ContactClient is the contact-management capability used for notification.
type ContactClient interface {
	CreateOrIdentify(ctx context.Context, email, displayName string) (string, error)
	ApplyTag(ctx context.Context, contactID, tagID string) error
}

// Service runs the placement pipeline. All collaborators are injected at
// construction; the service holds no mutable state across invocations.
type Service struct {
	locations      geocode.Provider
	timezones      TimezoneProvider
	ephemeris      EphemerisProvider
	contacts       ContactClient
	tagIDs         map[string]string
	defaultCountry string
	logger         logger.Logger

	resolver  *geocode.Resolver
	assembler *assemble.Assembler
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLocationProvider sets the geocoding provider.
func WithLocationProvider(p geocode.Provider) Option {
	return func(s *Service) { s.locations = p }
}

// WithTimezoneProvider sets the timezone provider.
func WithTimezoneProvider(p TimezoneProvider) Option {
	return func(s *Service) { s.timezones = p }
}

// WithEphemerisProvider sets the ephemeris provider.
func WithEphemerisProvider(p EphemerisProvider) Option {
	return func(s *Service) { s.ephemeris = p }
}

// WithContactClient sets the contact-management client.
func WithContactClient(c ContactClient) Option {
	return func(s *Service) { s.contacts = c }
}

// WithTagIDs sets the mapping from placement tag keys to contact-service
// tag identifiers. Keys absent from the map are skipped silently.
func WithTagIDs(tags map[string]string) Option {
	return func(s *Service) {
		s.tagIDs = make(map[string]string, len(tags))
		for k, v := range tags {
			s.tagIDs[k] = v
		}
	}
}

// WithDefaultCountry sets the country suffix for geocode fallbacks.
func WithDefaultCountry(country string) Option {
	return func(s *Service) { s.defaultCountry = country }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. The location, timezone, and ephemeris providers
// are required; the contact client may be nil when notification is unused.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		tagIDs:         map[string]string{},
		defaultCountry: "USA",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}

	switch {
	case s.locations == nil:
		return nil, fmt.Errorf("location provider is required")
	case s.timezones == nil:
		return nil, fmt.Errorf("timezone provider is required")
	case s.ephemeris == nil:
		return nil, fmt.Errorf("ephemeris provider is required")
	}

	s.resolver = geocode.NewResolver(s.locations,
		geocode.WithDefaultCountry(s.defaultCountry),
		geocode.WithLogger(s.logger.Named("geocode")),
	)
	s.assembler = assemble.New(
		assemble.WithLogger(s.logger.Named("assemble")),
	)
	return s, nil
}

// ComputePlacements runs the full pipeline for one birth event and returns
// its placement result. Stages run strictly sequentially: each stage's
// output is required input to the next. The notification step runs last
// and, apart from contact creation, never fails the call.
func (s *Service) ComputePlacements(ctx context.Context, birth model.BirthEvent) (model.PlacementResult, error) {
	if err := birth.Validate(); err != nil {
		metrics.RecordPipelineError("validate")
		return model.PlacementResult{}, err
	}

	coord, err := s.resolver.Resolve(ctx, birth.Place)
	if err != nil {
		metrics.RecordPipelineError("geocode")
		return model.PlacementResult{}, err
	}
	s.logger.Debug(ctx, "birthplace resolved",
		logger.String("place", birth.Place),
		logger.Float64("latitude", coord.Latitude),
		logger.Float64("longitude", coord.Longitude))

	offset, err := s.timezones.OffsetFor(ctx, coord, birth)
	if err != nil {
		metrics.RecordPipelineError("timezone")
		return model.PlacementResult{}, err
	}

	eph, err := s.ephemeris.Compute(ctx, birth, coord, offset)
	if err != nil {
		metrics.RecordPipelineError("ephemeris")
		return model.PlacementResult{}, err
	}

	result, err := s.assembler.Build(ctx, eph)
	if err != nil {
		metrics.RecordPipelineError("assemble")
		return model.PlacementResult{}, err
	}

	if birth.Email != "" && s.contacts != nil {
		if err := s.notify(ctx, birth.Email, birth.DisplayName, result); err != nil {
			metrics.RecordPipelineError("notify")
			return model.PlacementResult{}, err
		}
	}

	metrics.RecordChartComputed()
	s.logger.Info(ctx, "placements computed",
		logger.String("sun", result.BigThree.Sun),
		logger.String("moon", result.BigThree.Moon),
		logger.String("rising", result.BigThree.Rising))
	return result, nil
}

// notify tags the contact record with the Big Three signs. Contact creation
// is fatal: a contact that cannot be created breaks the caller's
// expectation of receiving results. Tag application is enrichment only;
// the three tags are applied concurrently and every one is attempted even
// when another fails.
func (s *Service) notify(ctx context.Context, email, displayName string, result model.PlacementResult) error {
	contactID, err := s.contacts.CreateOrIdentify(ctx, email, displayName)
	if err != nil {
		return err
	}

	keys := []string{
		tagKey("sun", result.BigThree.Sun),
		tagKey("moon", result.BigThree.Moon),
		tagKey("rising", result.BigThree.Rising),
	}

	var wg sync.WaitGroup
	for _, key := range keys {
		tagID, ok := s.tagIDs[key]
		if !ok {
			metrics.RecordTagSkipped()
			continue
		}
		wg.Add(1)
		go func(key, tagID string) {
			defer wg.Done()
			if err := s.contacts.ApplyTag(ctx, contactID, tagID); err != nil {
				metrics.RecordTagFailed()
				s.logger.Warn(ctx, "tag application failed",
					logger.String("tag_key", key),
					logger.String("tag_id", tagID),
					logger.Error(err))
				return
			}
			metrics.RecordTagApplied()
		}(key, tagID)
	}
	wg.Wait()
	return nil
}

// tagKey builds the contact tag key for a placement, e.g. "sun_gemini".
func tagKey(point, sign string) string {
	return point + "_" + strings.ToLower(sign)
}
