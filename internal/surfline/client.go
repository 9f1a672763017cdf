package surfline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/models"
	"github.com/bbernstein/tidewidget/pkg/http/client"
)

// tideDays covers today plus the 24 hours the hourly curve looks ahead
const tideDays = 2

type CacheProvider interface {
	GetSpot(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error)
	SaveSpot(ctx context.Context, record models.SpotRecord) error
}

type Client struct {
	httpClient client.Interface
	cache      CacheProvider
	spots      map[string]models.Spot
	logger     zerolog.Logger
}

// NewClient creates a Surfline fetcher for the given spots. cache may be nil.
func NewClient(httpClient client.Interface, cache CacheProvider, spots []models.Spot) *Client {
	byID := make(map[string]models.Spot, len(spots))
	for _, spot := range spots {
		byID[spot.ID] = spot
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		spots:      byID,
		logger:     log.With().Str("component", "surfline").Logger(),
	}
}

// FetchSpot returns tide events and the current rating for a spot, from
// cache when possible. A failed rating request leaves Rating nil; a failed
// tide request fails the fetch.
func (c *Client) FetchSpot(ctx context.Context, spotID string, now time.Time) (*models.SpotConditions, error) {
	spot, ok := c.spots[spotID]
	if !ok {
		return nil, NewInvalidSpotError(spotID)
	}

	date := now.UTC()
	if c.cache != nil {
		record, err := c.cache.GetSpot(ctx, spotID, date)
		if err != nil {
			c.logger.Warn().Err(err).Str("spotId", spotID).Msg("Failed to read spot cache")
		} else if record != nil {
			c.logger.Debug().Str("spotId", spotID).Msg("Spot cache hit")
			return record.Conditions(), nil
		}
	}

	tides, err := c.fetchTides(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("fetching tides for %s: %w", spot.Name, err)
	}

	rating, err := c.fetchRating(ctx, spotID, now)
	if err != nil {
		c.logger.Warn().Err(err).Str("spotId", spotID).Msg("Failed to fetch rating")
		rating = nil
	}

	conditions := &models.SpotConditions{
		Spot:   spot,
		Tides:  tides,
		Rating: rating,
	}

	if c.cache != nil {
		record := models.NewSpotRecord(*conditions, date)
		if err := c.cache.SaveSpot(ctx, record); err != nil {
			c.logger.Warn().Err(err).Str("spotId", spotID).Msg("Failed to save spot to cache")
		}
	}

	return conditions, nil
}

func (c *Client) fetchTides(ctx context.Context, spotID string) ([]models.TideEvent, error) {
	path := fmt.Sprintf("/kbyg/spots/forecasts/tides?spotId=%s&days=%d", url.QueryEscape(spotID), tideDays)

	var resp tidesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	events := make([]models.TideEvent, len(resp.Data.Tides))
	for i, t := range resp.Data.Tides {
		events[i] = models.TideEvent{
			Timestamp: t.Timestamp,
			Height:    t.Height,
			Type:      t.Type,
		}
	}

	c.logger.Debug().Str("spotId", spotID).Int("events", len(events)).Msg("Fetched tides")
	return events, nil
}

func (c *Client) fetchRating(ctx context.Context, spotID string, now time.Time) (*models.SpotRating, error) {
	path := fmt.Sprintf("/kbyg/spots/forecasts/rating?spotId=%s&days=1&intervalHours=1", url.QueryEscape(spotID))

	var resp ratingResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	entry := nearestRating(resp.Data.Rating, now)
	if entry == nil {
		return nil, NewAPIError("no rating entries", nil)
	}

	return &models.SpotRating{
		Key:   entry.Rating.Key,
		Value: math.Max(0, math.Min(5, entry.Rating.Value)),
		Text:  ratingText(entry.Rating.Key),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.httpClient.Get(ctx, path)
	if err != nil {
		return NewAPIError("request failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{Message: "unexpected status", StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return NewAPIError("decoding response", err)
	}
	return nil
}

// nearestRating picks the hourly rating closest to now
func nearestRating(entries []ratingEntry, now time.Time) *ratingEntry {
	var best *ratingEntry
	var bestDiff int64 = math.MaxInt64
	for i := range entries {
		diff := entries[i].Timestamp - now.Unix()
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best = &entries[i]
			bestDiff = diff
		}
	}
	return best
}

// ratingText turns a key such as FAIR_TO_GOOD into "Fair to good"
func ratingText(key string) string {
	if key == "" {
		return ""
	}
	text := strings.ToLower(strings.ReplaceAll(key, "_", " "))
	return strings.ToUpper(text[:1]) + text[1:]
}
