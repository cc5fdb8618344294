package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sophie623/birth-chart-generator/internal/adapters/http/api"
	"github.com/sophie623/birth-chart-generator/internal/adapters/http/docs"
	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/contact"
	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/ephemeris"
	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/location"
	"github.com/sophie623/birth-chart-generator/internal/adapters/providers/timezone"
	"github.com/sophie623/birth-chart-generator/internal/app"
	"github.com/sophie623/birth-chart-generator/internal/config"
	"github.com/sophie623/birth-chart-generator/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	providerTimeout := time.Duration(cfg.ProviderTimeoutMS) * time.Millisecond

	svc, err := app.New(
		app.WithLogger(log.Named("pipeline")),
		app.WithDefaultCountry(cfg.DefaultCountry),
		app.WithTagIDs(cfg.TagIDs),
		app.WithLocationProvider(location.NewClient(
			cfg.LocationBaseURL, cfg.LocationAPIKey,
			location.WithTimeout(providerTimeout),
		)),
		app.WithTimezoneProvider(timezone.NewClient(
			cfg.TimezoneBaseURL, cfg.TimezoneAPIKey,
			timezone.WithTimeout(providerTimeout),
		)),
		app.WithEphemerisProvider(ephemeris.NewClient(
			cfg.EphemerisBaseURL, cfg.EphemerisUserID, cfg.EphemerisAPIKey,
			ephemeris.WithTimeout(providerTimeout),
		)),
		app.WithContactClient(contact.NewClient(
			cfg.ContactBaseURL, cfg.ContactAPIKey,
			contact.WithTimeout(providerTimeout),
		)),
	)
	if err != nil {
		os.Stderr.WriteString("failed to build service: " + err.Error() + "\n")
		return
	}

	mux := http.NewServeMux()
	docs.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
