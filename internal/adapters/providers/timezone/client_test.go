package timezone_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/timezone"
	"github.com/sophie623/birth-chart-generator/internal/domain/model"
)

func adelaide() model.GeoCoordinate {
	return model.GeoCoordinate{Latitude: -34.93, Longitude: 138.6}
}

func birth1990() model.BirthEvent {
	return model.BirthEvent{Year: 1990, Month: 6, Day: 15, Hour: 14, Minute: 30, Place: "Adelaide"}
}

func TestOffsetFor(t *testing.T) {
	Convey("Given an endpoint returning a half-hour offset", t, func() {
		var gotBy, gotTime string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBy = r.URL.Query().Get("by")
			gotTime = r.URL.Query().Get("time")
			_, _ = w.Write([]byte(`{"status": "OK", "gmtOffset": 34200}`))
		}))
		defer srv.Close()

		client := timezone.NewClient(srv.URL, "key")

		Convey("When looking up the offset", func() {
			offset, err := client.OffsetFor(context.Background(), adelaide(), birth1990())

			Convey("Then seconds convert to fractional hours", func() {
				So(err, ShouldBeNil)
				So(float64(offset), ShouldAlmostEqual, 9.5)
			})

			Convey("And the lookup was anchored by position and birth instant", func() {
				So(gotBy, ShouldEqual, "position")
				So(gotTime, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given an endpoint reporting a provider-level failure", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status": "FAILED", "message": "invalid position"}`))
		}))
		defer srv.Close()

		Convey("Then it fails with ErrUnresolved carrying the message", func() {
			_, err := timezone.NewClient(srv.URL, "key").OffsetFor(context.Background(), adelaide(), birth1990())
			So(errors.Is(err, timezone.ErrUnresolved), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "invalid position")
		})
	})

	Convey("Given an endpoint omitting the offset", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status": "OK"}`))
		}))
		defer srv.Close()

		Convey("Then a missing offset is unusable", func() {
			_, err := timezone.NewClient(srv.URL, "key").OffsetFor(context.Background(), adelaide(), birth1990())
			So(errors.Is(err, timezone.ErrUnresolved), ShouldBeTrue)
		})
	})
}
