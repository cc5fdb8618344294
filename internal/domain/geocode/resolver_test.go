package geocode_test

import (
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sophie623/birth-chart-generator/internal/domain/geocode"
	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// stubProvider answers queries from a fixed table and records every query
// it receives, in order.
type stubProvider struct {
	results map[string][]model.Place
	errs    map[string]error
	queries []string
}

func (s *stubProvider) Search(_ context.Context, query string) ([]model.Place, error) {
	s.queries = append(s.queries, query)
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.results[query], nil
}

func melbourne() model.Place {
	return model.Place{
		Coordinate:  model.GeoCoordinate{Latitude: -37.81, Longitude: 144.96},
		DisplayName: "Melbourne, Victoria, Australia",
	}
}

func TestResolverCandidates(t *testing.T) {
	Convey("Given a resolver with a default country", t, func() {
		resolver := geocode.NewResolver(&stubProvider{}, geocode.WithDefaultCountry("USA"))

		Convey("When the input has a comma", func() {
			candidates := resolver.Candidates("  Melbourne, Australia ")

			Convey("Then three distinct rewrites are produced in order", func() {
				So(candidates, ShouldResemble, []string{
					"Melbourne, Australia",
					"Melbourne",
					"Melbourne, USA",
				})
			})
		})

		Convey("When the input has no comma", func() {
			candidates := resolver.Candidates("Springfield")

			Convey("Then the duplicate city-only rewrite collapses", func() {
				So(candidates, ShouldResemble, []string{
					"Springfield",
					"Springfield, USA",
				})
			})
		})

		Convey("When the default country is empty", func() {
			bare := geocode.NewResolver(&stubProvider{}, geocode.WithDefaultCountry(""))
			So(bare.Candidates("Lyon, France"), ShouldResemble, []string{"Lyon, France", "Lyon"})
		})
	})
}

func TestResolverResolve(t *testing.T) {
	Convey("Given a provider that fails on the full string", t, func() {
		provider := &stubProvider{
			results: map[string][]model.Place{
				"Melbourne": {melbourne()},
			},
		}
		resolver := geocode.NewResolver(provider, geocode.WithDefaultCountry("USA"))

		Convey("When resolving 'Melbourne, Australia'", func() {
			coord, err := resolver.Resolve(context.Background(), "Melbourne, Australia")

			Convey("Then the second candidate wins", func() {
				So(err, ShouldBeNil)
				So(coord.Latitude, ShouldAlmostEqual, -37.81)
				So(coord.Longitude, ShouldAlmostEqual, 144.96)
			})

			Convey("And both candidates were attempted in order", func() {
				So(provider.queries, ShouldResemble, []string{"Melbourne, Australia", "Melbourne"})
			})
		})
	})

	Convey("Given a provider erroring on an early candidate", t, func() {
		provider := &stubProvider{
			errs: map[string]error{
				"Melbourne, Australia": errors.New("quota exceeded"),
			},
			results: map[string][]model.Place{
				"Melbourne": {melbourne()},
			},
		}
		resolver := geocode.NewResolver(provider)

		Convey("Then the error is swallowed and the next candidate resolves", func() {
			coord, err := resolver.Resolve(context.Background(), "Melbourne, Australia")
			So(err, ShouldBeNil)
			So(coord.Valid(), ShouldBeTrue)
		})
	})

	Convey("Given a provider with no results for anything", t, func() {
		provider := &stubProvider{}
		resolver := geocode.NewResolver(provider, geocode.WithDefaultCountry("USA"))

		Convey("When resolving fails on every candidate", func() {
			_, err := resolver.Resolve(context.Background(), "Atlantis, Ocean")

			Convey("Then the error is ErrPlaceNotFound", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, geocode.ErrPlaceNotFound), ShouldBeTrue)
			})

			Convey("And the message enumerates every attempted candidate", func() {
				So(err.Error(), ShouldContainSubstring, `"Atlantis, Ocean"`)
				So(err.Error(), ShouldContainSubstring, `"Atlantis"`)
				So(err.Error(), ShouldContainSubstring, `"Atlantis, USA"`)
			})

			Convey("And lookups were sequential over all candidates", func() {
				So(provider.queries, ShouldResemble, []string{"Atlantis, Ocean", "Atlantis", "Atlantis, USA"})
			})
		})
	})

	Convey("Given a provider returning out-of-bounds coordinates", t, func() {
		provider := &stubProvider{
			results: map[string][]model.Place{
				"Nowhere, Void": {{Coordinate: model.GeoCoordinate{Latitude: 200, Longitude: 0}}},
				"Nowhere":       {melbourne()},
			},
		}
		resolver := geocode.NewResolver(provider)

		Convey("Then the invalid result counts as a miss", func() {
			coord, err := resolver.Resolve(context.Background(), "Nowhere, Void")
			So(err, ShouldBeNil)
			So(coord.Latitude, ShouldAlmostEqual, -37.81)
		})
	})
}
