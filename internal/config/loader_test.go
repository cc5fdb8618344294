package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sophie623/birth-chart-generator/internal/config"
)

func unsetAll(keys ...string) {
	for _, k := range keys {
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		unsetAll("CHART_CONFIG", "CHART_ADDR", "CHART_LOG_LEVEL",
			"CHART_DEFAULT_COUNTRY", "CHART_PROVIDER_TIMEOUT_MS")

		Convey("When loading without overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.DefaultCountry, ShouldEqual, "USA")
				So(cfg.ProviderTimeoutMS, ShouldEqual, 10_000)
			})
		})

		Convey("When environment variables override defaults", func() {
			os.Setenv("CHART_ADDR", ":9999")
			os.Setenv("CHART_DEFAULT_COUNTRY", "Australia")
			os.Setenv("CHART_LOG_LEVEL", "debug")
			defer unsetAll("CHART_ADDR", "CHART_DEFAULT_COUNTRY", "CHART_LOG_LEVEL")

			cfg, err := config.Load(context.Background())

			Convey("Then the env values win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9999")
				So(cfg.DefaultCountry, ShouldEqual, "Australia")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When the provider timeout is non-positive", func() {
			os.Setenv("CHART_PROVIDER_TIMEOUT_MS", "-5")
			defer unsetAll("CHART_PROVIDER_TIMEOUT_MS")

			_, err := config.Load(context.Background())

			Convey("Then loading rejects the config", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a YAML file provides values", func() {
			f, err := os.CreateTemp(t.TempDir(), "chart-*.yaml")
			So(err, ShouldBeNil)
			_, err = f.WriteString("addr: \":7070\"\ndefault_country: \"France\"\n")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			os.Setenv("CHART_CONFIG", f.Name())
			defer unsetAll("CHART_CONFIG")

			cfg, err := config.Load(context.Background())

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.DefaultCountry, ShouldEqual, "France")
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})
	})
}
