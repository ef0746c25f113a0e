// Package main wires together the hunter service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sorahunt/sorahunt/internal/api"
	"github.com/sorahunt/sorahunt/internal/clock/system"
	"github.com/sorahunt/sorahunt/internal/config"
	"github.com/sorahunt/sorahunt/internal/fetch"
	"github.com/sorahunt/sorahunt/internal/hunt"
	"github.com/sorahunt/sorahunt/internal/logging"
	"github.com/sorahunt/sorahunt/internal/metrics"
	"github.com/sorahunt/sorahunt/internal/poller"
	"github.com/sorahunt/sorahunt/internal/source"
	"github.com/sorahunt/sorahunt/internal/state"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	clock := system.New()
	store := state.New(state.Config{
		MaxCandidates: cfg.Store.MaxCandidates,
		MaxLogEntries: cfg.Store.MaxLogEntries,
	}, clock, state.NewZapSink(logger.Named("activity")))

	registry := source.Registry()
	for _, d := range registry {
		store.RegisterSource(d.Name, d.Enabled)
	}

	httpClient := fetch.NewClient(cfg.HTTPTimeout(), &fetch.RetryPolicy{
		MaxAttempts: cfg.HTTP.MaxRetries,
		BaseDelay:   cfg.BackoffInitial(),
		MaxDelay:    cfg.BackoffMax(),
	}, logger.Named("fetch"))
	sources := source.NewClient(httpClient)

	pollSettings := func() hunt.PollConfig { return cfg.PollSettings() }
	hunter := poller.New(store, registry, sources, pollSettings, clock, logger.Named("poller"))

	apiServer := api.NewServer(store, pollSettings, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go hunter.Run(ctx)

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
