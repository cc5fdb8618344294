package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sophie623/birth-chart-generator/internal/adapters/http/api"
	"github.com/sophie623/birth-chart-generator/internal/domain/geocode"
	"github.com/sophie623/birth-chart-generator/internal/domain/model"
)

// mockPipeline implements api.Dependencies.
type mockPipeline struct {
	result model.PlacementResult
	err    error
	got    model.BirthEvent
}

func (m *mockPipeline) ComputePlacements(_ context.Context, birth model.BirthEvent) (model.PlacementResult, error) {
	m.got = birth
	if m.err != nil {
		return model.PlacementResult{}, m.err
	}
	return m.result, nil
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

const parisBody = `{
	"year": 1990, "month": 6, "day": 15, "hour": 14, "minute": 30,
	"birthplace": "Paris, France", "email": "sophie@example.com", "name": "Sophie"
}`

func TestHandleComputeChart(t *testing.T) {
	Convey("Given a pipeline returning a placement result", t, func() {
		pipeline := &mockPipeline{
			result: model.PlacementResult{
				BigThree: model.BigThree{Sun: "Gemini", Moon: "Scorpio", Rising: "Capricorn"},
				Points: []model.CelestialPoint{
					{Name: "Sun", Sign: "Gemini", House: 5},
				},
			},
		}
		mux := newMux(pipeline)

		Convey("When POSTing a chart request", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/chart", strings.NewReader(parisBody))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 200 with the serialized result", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var out model.PlacementResult
				So(json.NewDecoder(rec.Body).Decode(&out), ShouldBeNil)
				So(out.BigThree.Sun, ShouldEqual, "Gemini")
				So(out.BigThree.Rising, ShouldEqual, "Capricorn")
			})

			Convey("And the birth event carried all request fields", func() {
				So(pipeline.got.Year, ShouldEqual, 1990)
				So(pipeline.got.Place, ShouldEqual, "Paris, France")
				So(pipeline.got.Email, ShouldEqual, "sophie@example.com")
				So(pipeline.got.DisplayName, ShouldEqual, "Sophie")
			})

			Convey("And a request id was assigned", func() {
				So(rec.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When a caller supplies its own request id", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/chart", strings.NewReader(parisBody))
			req.Header.Set("X-Request-ID", "caller-id-1")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Header().Get("X-Request-ID"), ShouldEqual, "caller-id-1")
		})

		Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/chart", strings.NewReader("not json"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 400 bad_request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "bad_request")
			})
		})

		Convey("When the method is GET", func() {
			req := httptest.NewRequest(http.MethodGet, "/v1/chart", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given pipelines failing with each error kind", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{fmt.Errorf("%w: month 13 out of range", model.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
			{fmt.Errorf("%w: attempted candidates", geocode.ErrPlaceNotFound), http.StatusNotFound, "place_not_found"},
		}

		for _, tc := range cases {
			tc := tc
			Convey("Then "+tc.code+" maps to its status", func() {
				mux := newMux(&mockPipeline{err: tc.err})
				req := httptest.NewRequest(http.MethodPost, "/v1/chart", strings.NewReader(parisBody))
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)

				So(rec.Code, ShouldEqual, tc.status)
				So(rec.Body.String(), ShouldContainSubstring, tc.code)
			})
		}
	})
}

func TestHandleHealth(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux := newMux(&mockPipeline{})

		Convey("When GETting /healthz", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it reports ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})

		Convey("When GETting /metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
