package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/api"
	"github.com/bbernstein/tidewidget/internal/config"
	"github.com/bbernstein/tidewidget/internal/models"
)

type SnapshotBuilder interface {
	Snapshot(ctx context.Context, now time.Time) (*models.WidgetSnapshot, error)
}

type SnapshotReader interface {
	GetSnapshot(ctx context.Context) (*models.WidgetSnapshot, error)
}

type ForecastHandler struct {
	builder   SnapshotBuilder
	published SnapshotReader
	spots     *config.SpotsConfig
	now       func() time.Time
}

// NewForecastHandler serves widget snapshots. published may be nil; when set
// a fresh published snapshot is served instead of building one.
func NewForecastHandler(builder SnapshotBuilder, spots *config.SpotsConfig, published SnapshotReader) *ForecastHandler {
	return &ForecastHandler{
		builder:   builder,
		published: published,
		spots:     spots,
		now:       time.Now,
	}
}

func (h *ForecastHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	if strings.HasSuffix(request.Path, "/spots") {
		return api.Success(api.NewSpotsResponse(h.spots.Spots, h.spots.TideSpotID))
	}

	now, override, err := api.ParseNow(params)
	if err != nil {
		var timeErr api.InvalidTimeError
		if errors.As(err, &timeErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}
	if !override {
		now = h.now().UTC()
	}

	spotID, filterSpot := params["spotId"]
	if filterSpot {
		if _, ok := h.spots.Lookup(spotID); !ok {
			return api.Error("Spot not found", http.StatusNotFound)
		}
	}

	snapshot := h.publishedSnapshot(ctx, override)
	if snapshot == nil {
		snapshot, err = h.builder.Snapshot(ctx, now)
		if err != nil {
			log.Error().Err(err).Msg("Error building snapshot")
			if errors.Is(err, context.DeadlineExceeded) {
				return api.Error("Timed out loading conditions", http.StatusGatewayTimeout)
			}
			return api.Error("Error loading conditions", http.StatusInternalServerError)
		}
	}

	if filterSpot {
		filtered := api.FilterConditions(*snapshot, spotID)
		snapshot = &filtered
	}

	return api.Success(snapshot)
}

// publishedSnapshot returns the published snapshot unless the caller asked
// for a specific time
func (h *ForecastHandler) publishedSnapshot(ctx context.Context, override bool) *models.WidgetSnapshot {
	if override || h.published == nil {
		return nil
	}

	snapshot, err := h.published.GetSnapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read published snapshot")
		return nil
	}
	return snapshot
}
