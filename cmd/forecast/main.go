package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/api"
	"github.com/bbernstein/tidewidget/internal/cache"
	"github.com/bbernstein/tidewidget/internal/config"
	"github.com/bbernstein/tidewidget/internal/handler"
	"github.com/bbernstein/tidewidget/internal/surfline"
	"github.com/bbernstein/tidewidget/internal/widget"
	"github.com/bbernstein/tidewidget/pkg/http/client"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	forecastHandler *handler.ForecastHandler
	setupErr        error
	setupOnce       sync.Once
)

func setup(ctx context.Context) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	spots, err := config.GetSpotsConfig()
	if err != nil {
		setupErr = err
		return
	}

	forecastCfg, err := config.GetForecastConfig()
	if err != nil {
		setupErr = err
		return
	}

	cacheCfg := config.GetCacheConfig()
	spotCache, err := cache.NewSpotCacheService(ctx, cacheCfg)
	if err != nil {
		setupErr = err
		return
	}

	httpClient := client.New(client.Options{
		BaseURL:    cfg.SurflineBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	service := widget.NewService(
		surfline.NewClient(httpClient, spotCache, spots.Spots),
		spots.Spots,
		spots.TideSpot(),
		widget.WithThresholds(config.GetTidePoolConfig().Thresholds()),
		widget.WithForecastOptions(forecastCfg.Options()...),
	)

	// Serve the snapshot published by tidewatch when one is configured
	var published handler.SnapshotReader
	if cfg.SnapshotBucket != "" {
		s3Client, err := cache.NewS3Client(ctx)
		if err != nil {
			setupErr = err
			return
		}
		published = cache.NewS3SnapshotStore(s3Client, cfg.SnapshotBucket, cacheCfg.GetSnapshotTTL())
	}

	forecastHandler = handler.NewForecastHandler(service, spots, published)
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	setupOnce.Do(func() { setup(ctx) })
	if setupErr != nil {
		log.Error().Err(setupErr).Msg("Forecast handler is not configured")
		return api.Error("Service misconfigured", http.StatusInternalServerError)
	}

	log.Info().Str("path", request.Path).Msg("Handling forecast request")
	return forecastHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
