package logger_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sophie623/birth-chart-generator/pkg/logger"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(context.Background(), "hello",
					logger.String("k", "v"),
					logger.Int("n", 1),
					logger.Float64("f", 1.5),
					logger.Bool("b", true),
					logger.Error(errors.New("boom")),
				)
			}, ShouldNotPanic)
		})

		Convey("And Named produces a grouped logger", func() {
			l := logger.Named("geocode")
			So(l, ShouldNotBeNil)
			So(func() { l.Debug(context.Background(), "scoped") }, ShouldNotPanic)
		})

		Convey("And Sync never fails", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known names are accepted", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", " INFO "} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("And unknown names are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
