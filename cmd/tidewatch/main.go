package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/api"
	"github.com/bbernstein/tidewidget/internal/cache"
	"github.com/bbernstein/tidewidget/internal/config"
	"github.com/bbernstein/tidewidget/internal/metrics"
	"github.com/bbernstein/tidewidget/internal/models"
	"github.com/bbernstein/tidewidget/internal/scheduler"
	"github.com/bbernstein/tidewidget/internal/surfline"
	"github.com/bbernstein/tidewidget/internal/widget"
	"github.com/bbernstein/tidewidget/pkg/http/client"
)

// refreshTimeout bounds a single refresh including every spot fetch
const refreshTimeout = 2 * time.Minute

type latestSnapshot interface {
	Latest() *models.WidgetSnapshot
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("tidewatch stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	service, err := newService(ctx, cfg)
	if err != nil {
		return err
	}

	sched := scheduler.New(cfg.RefreshInterval, refreshTimeout, func(ctx context.Context) error {
		_, err := service.Publish(ctx, time.Now().UTC())
		return err
	})
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	server := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           newMux(service),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving snapshot and metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newService(ctx context.Context, cfg *config.Config) (*widget.Service, error) {
	spots, err := config.GetSpotsConfig()
	if err != nil {
		return nil, err
	}

	forecastCfg, err := config.GetForecastConfig()
	if err != nil {
		return nil, err
	}

	cacheCfg := config.GetCacheConfig()
	spotCache, err := cache.NewSpotCacheService(ctx, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("creating spot cache: %w", err)
	}

	httpClient := client.New(client.Options{
		BaseURL:    cfg.SurflineBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	opts := []widget.Option{
		widget.WithThresholds(config.GetTidePoolConfig().Thresholds()),
		widget.WithForecastOptions(forecastCfg.Options()...),
	}

	if cfg.SnapshotBucket != "" {
		s3Client, err := cache.NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		opts = append(opts, widget.WithPublisher(
			cache.NewS3SnapshotStore(s3Client, cfg.SnapshotBucket, cacheCfg.GetSnapshotTTL())))
	}

	return widget.NewService(
		surfline.NewClient(httpClient, spotCache, spots.Spots),
		spots.Spots,
		spots.TideSpot(),
		opts...,
	), nil
}

func newMux(service latestSnapshot) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/snapshot", metrics.LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := service.Latest()
		if snapshot == nil {
			writeJSON(w, http.StatusServiceUnavailable, api.NewErrorResponse("No snapshot yet"))
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	})))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Error writing response")
	}
}
