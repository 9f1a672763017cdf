package widget

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/conditions"
	"github.com/bbernstein/tidewidget/internal/metrics"
	"github.com/bbernstein/tidewidget/internal/models"
	"github.com/bbernstein/tidewidget/internal/tide"
)

const responseType = "snapshot"

type SpotFetcher interface {
	FetchSpot(ctx context.Context, spotID string, now time.Time) (*models.SpotConditions, error)
}

type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot models.WidgetSnapshot) error
}

// Service assembles widget snapshots from fetched spot data
type Service struct {
	fetcher      SpotFetcher
	spots        []models.Spot
	tideSpot     models.Spot
	thresholds   conditions.TidePoolThresholds
	forecastOpts []tide.Option
	publisher    SnapshotPublisher
	logger       zerolog.Logger

	mu     sync.RWMutex
	latest *models.WidgetSnapshot
}

type Option func(*Service)

// WithThresholds sets the tide pool rating thresholds
func WithThresholds(thresholds conditions.TidePoolThresholds) Option {
	return func(s *Service) {
		s.thresholds = thresholds
	}
}

// WithForecastOptions tunes the tide forecast
func WithForecastOptions(opts ...tide.Option) Option {
	return func(s *Service) {
		s.forecastOpts = append(s.forecastOpts, opts...)
	}
}

// WithPublisher makes Publish write every snapshot to publisher
func WithPublisher(publisher SnapshotPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// NewService creates a snapshot service for spots. tideSpot supplies the tide
// events for the forecast and must be one of spots.
func NewService(fetcher SpotFetcher, spots []models.Spot, tideSpot models.Spot, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		spots:      spots,
		tideSpot:   tideSpot,
		thresholds: conditions.DefaultTidePoolThresholds(),
		logger:     log.With().Str("component", "widget").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type fetchResult struct {
	conditions *models.SpotConditions
	err        error
}

// Snapshot fetches every spot and builds the widget snapshot for now. A spot
// that fails to load is shown as loading; a failed tide spot yields an all
// fallback forecast. Only a cancelled context fails the snapshot.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (*models.WidgetSnapshot, error) {
	results := s.fetchAll(ctx, now)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}

	var events []models.TideEvent
	for i, spot := range s.spots {
		if spot.ID == s.tideSpot.ID && results[i].conditions != nil {
			events = results[i].conditions.Tides
		}
	}

	forecast := tide.BuildForecast(events, now, s.forecastOpts...)
	metrics.ObserveForecast(forecast.Stats.Dropped, forecast.Stats.FallbackSamples)

	logEvent := s.logger.Debug()
	if forecast.Stats.Dropped > 0 || forecast.Stats.FallbackSamples > 0 {
		logEvent = s.logger.Warn()
	}
	logEvent.
		Str("tideSpot", s.tideSpot.Name).
		Int("events", forecast.Stats.Events).
		Int("dropped", forecast.Stats.Dropped).
		Int("fallbackSamples", forecast.Stats.FallbackSamples).
		Msg("Built tide forecast")

	surf := make([]models.SurfCondition, len(s.spots))
	for i, spot := range s.spots {
		var rating *models.SpotRating
		if results[i].conditions != nil {
			rating = results[i].conditions.Rating
		}
		surf[i] = conditions.SurfConditionFor(spot, rating, forecast.Current.Height, now)
	}

	return &models.WidgetSnapshot{
		ResponseType:       responseType,
		TideSpot:           s.tideSpot,
		CurrentTide:        forecast.Current,
		NextTides:          forecast.UpcomingExtrema,
		HourlyPredictions:  forecast.Hourly,
		TidePool:           conditions.ClassifyTidePool(forecast.Current, s.thresholds),
		NextTidePoolWindow: conditions.NextTidePoolWindow(forecast, s.thresholds),
		Conditions:         surf,
		Stats:              forecast.Stats,
		LastUpdated:        now,
	}, nil
}

func (s *Service) fetchAll(ctx context.Context, now time.Time) []fetchResult {
	results := make([]fetchResult, len(s.spots))

	var wg sync.WaitGroup
	for i, spot := range s.spots {
		i, spot := i, spot
		wg.Add(1)
		go func() {
			defer wg.Done()

			spotConditions, err := s.fetcher.FetchSpot(ctx, spot.ID, now)
			metrics.ObserveSpotFetch(spot.Name, err)
			if err != nil {
				s.logger.Warn().Err(err).Str("spot", spot.Name).Msg("Failed to fetch spot")
			}
			results[i] = fetchResult{conditions: spotConditions, err: err}
		}()
	}
	wg.Wait()

	return results
}

// Publish builds a snapshot, remembers it as the latest and hands it to the
// publisher when one is configured
func (s *Service) Publish(ctx context.Context, now time.Time) (*models.WidgetSnapshot, error) {
	started := time.Now()

	snapshot, err := s.publish(ctx, now)
	metrics.ObserveRefresh(err, time.Since(started))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Float64("height", snapshot.CurrentTide.Height).
		Str("direction", string(snapshot.CurrentTide.Direction)).
		Str("tidePool", string(snapshot.TidePool.Rating)).
		Msg("Refreshed widget snapshot")
	return snapshot, nil
}

func (s *Service) publish(ctx context.Context, now time.Time) (*models.WidgetSnapshot, error) {
	snapshot, err := s.Snapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(ctx, *snapshot); err != nil {
			return nil, fmt.Errorf("publishing snapshot: %w", err)
		}
	}

	return snapshot, nil
}

// Latest returns the most recently published snapshot, or nil before the
// first refresh
func (s *Service) Latest() *models.WidgetSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
