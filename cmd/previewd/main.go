// Package main wires together the previewd binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"previewd/internal/api"
	memorycache "previewd/internal/cache/memory"
	"previewd/internal/clock/system"
	"previewd/internal/config"
	"previewd/internal/fetcher/bounded"
	"previewd/internal/logging"
	"previewd/internal/metrics"
	"previewd/internal/parser/metascraper"
	"previewd/internal/preview"
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
	cache := memorycache.New(preview.MaxAge, clock)
	fetcher := bounded.New(bounded.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.Timeout(),
	}, logger.Named("fetcher"))
	previews := preview.NewService(fetcher, metascraper.New(), cache, logger.Named("preview"))
	apiServer := api.NewServer(previews, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go sweepLoop(ctx, cache, cfg.SweepInterval(), logger.Named("cache"))

	go func() {
		logger.Info("http server started",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
		)
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

// sweepLoop periodically removes entries past the TTL. Lookups already treat
// expired entries as absent; the sweep only reclaims their memory.
func sweepLoop(ctx context.Context, cache *memorycache.Cache, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := cache.PurgeExpired()
			metrics.SetCacheEntries(cache.Len())
			if dropped > 0 {
				logger.Debug("purged expired entries", zap.Int("dropped", dropped))
			}
		}
	}
}
