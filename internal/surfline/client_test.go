package surfline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/tidewidget/internal/models"
	"github.com/bbernstein/tidewidget/pkg/http/client"
)

var (
	testSpot = models.Spot{ID: "spot-pp", Name: "Pleasure Point"}
	testNow  = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

const tidesBody = `{"data":{"tides":[
	{"timestamp":1717228800,"type":"LOW","height":0.4},
	{"timestamp":1717250400,"type":"NORMAL","height":2.9},
	{"timestamp":1717272000,"type":"HIGH","height":5.6},
	{"timestamp":null,"type":"HIGH","height":5.0}
]}}`

const ratingBody = `{"data":{"rating":[
	{"timestamp":1717236000,"rating":{"key":"POOR","value":1}},
	{"timestamp":1717243200,"rating":{"key":"FAIR_TO_GOOD","value":3.7}},
	{"timestamp":1717250400,"rating":{"key":"GOOD","value":4}}
]}}`

type mockCache struct {
	getFunc  func(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error)
	saveFunc func(ctx context.Context, record models.SpotRecord) error
}

func (m *mockCache) GetSpot(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, spotID, date)
	}
	return nil, nil
}

func (m *mockCache) SaveSpot(ctx context.Context, record models.SpotRecord) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, record)
	}
	return nil
}

func routedClient(routes map[string]*client.Response) *client.Client {
	c := client.New(client.Options{})
	c.GetFunc = func(ctx context.Context, path string) (*client.Response, error) {
		for prefix, resp := range routes {
			if strings.HasPrefix(path, prefix) {
				return resp, nil
			}
		}
		return nil, fmt.Errorf("unexpected path %s", path)
	}
	return c
}

func TestFetchSpot(t *testing.T) {
	t.Parallel()

	httpClient := routedClient(map[string]*client.Response{
		"/kbyg/spots/forecasts/tides":  {StatusCode: http.StatusOK, Body: []byte(tidesBody)},
		"/kbyg/spots/forecasts/rating": {StatusCode: http.StatusOK, Body: []byte(ratingBody)},
	})

	c := NewClient(httpClient, nil, []models.Spot{testSpot})

	conditions, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
	require.NoError(t, err)

	assert.Equal(t, testSpot, conditions.Spot)
	require.Len(t, conditions.Tides, 4)
	assert.Equal(t, models.EventKindLow, conditions.Tides[0].Kind())
	assert.Nil(t, conditions.Tides[3].Timestamp, "invalid events are passed through for the engine to drop")

	require.NotNil(t, conditions.Rating)
	assert.Equal(t, "FAIR_TO_GOOD", conditions.Rating.Key)
	assert.Equal(t, 3.7, conditions.Rating.Value)
	assert.Equal(t, "Fair to good", conditions.Rating.Text)
}

func TestFetchSpotRequestPaths(t *testing.T) {
	t.Parallel()

	var paths []string
	httpClient := client.New(client.Options{})
	httpClient.GetFunc = func(ctx context.Context, path string) (*client.Response, error) {
		paths = append(paths, path)
		if strings.Contains(path, "tides") {
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(tidesBody)}, nil
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(ratingBody)}, nil
	}

	c := NewClient(httpClient, nil, []models.Spot{testSpot})
	_, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/kbyg/spots/forecasts/tides?spotId=spot-pp&days=2",
		"/kbyg/spots/forecasts/rating?spotId=spot-pp&days=1&intervalHours=1",
	}, paths)
}

func TestFetchSpotUnknownSpot(t *testing.T) {
	t.Parallel()

	c := NewClient(routedClient(nil), nil, []models.Spot{testSpot})

	_, err := c.FetchSpot(context.Background(), "elsewhere", testNow)
	require.Error(t, err)

	var spotErr *InvalidSpotError
	require.True(t, errors.As(err, &spotErr))
	assert.Equal(t, "elsewhere", spotErr.SpotID)
}

func TestFetchSpotTideErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       *client.Response
		wantStatus int
	}{
		{
			name:       "server error status",
			resp:       &client.Response{StatusCode: http.StatusServiceUnavailable},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "malformed body",
			resp: &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"data":`)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClient(routedClient(map[string]*client.Response{
				"/kbyg/spots/forecasts/tides": tt.resp,
			}), nil, []models.Spot{testSpot})

			_, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Contains(t, err.Error(), "Pleasure Point")
		})
	}
}

func TestFetchSpotRatingFailureKeepsTides(t *testing.T) {
	t.Parallel()

	c := NewClient(routedClient(map[string]*client.Response{
		"/kbyg/spots/forecasts/tides":  {StatusCode: http.StatusOK, Body: []byte(tidesBody)},
		"/kbyg/spots/forecasts/rating": {StatusCode: http.StatusInternalServerError},
	}), nil, []models.Spot{testSpot})

	conditions, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
	require.NoError(t, err)
	assert.Len(t, conditions.Tides, 4)
	assert.Nil(t, conditions.Rating)
}

func TestFetchSpotUsesCache(t *testing.T) {
	t.Parallel()

	var httpCalls int32
	httpClient := client.New(client.Options{})
	httpClient.GetFunc = func(ctx context.Context, path string) (*client.Response, error) {
		atomic.AddInt32(&httpCalls, 1)
		return nil, errors.New("should not be called")
	}

	cached := models.NewSpotRecord(models.SpotConditions{
		Spot:   testSpot,
		Rating: &models.SpotRating{Key: "GOOD", Value: 4, Text: "Good"},
	}, testNow)

	cache := &mockCache{
		getFunc: func(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error) {
			assert.Equal(t, testSpot.ID, spotID)
			return &cached, nil
		},
	}

	c := NewClient(httpClient, cache, []models.Spot{testSpot})
	conditions, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
	require.NoError(t, err)

	assert.Equal(t, "GOOD", conditions.Rating.Key)
	assert.Equal(t, int32(0), atomic.LoadInt32(&httpCalls))
}

func TestFetchSpotSavesOnMiss(t *testing.T) {
	t.Parallel()

	var saved *models.SpotRecord
	cache := &mockCache{
		getFunc: func(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error) {
			return nil, errors.New("table unavailable")
		},
		saveFunc: func(ctx context.Context, record models.SpotRecord) error {
			saved = &record
			return nil
		},
	}

	c := NewClient(routedClient(map[string]*client.Response{
		"/kbyg/spots/forecasts/tides":  {StatusCode: http.StatusOK, Body: []byte(tidesBody)},
		"/kbyg/spots/forecasts/rating": {StatusCode: http.StatusOK, Body: []byte(ratingBody)},
	}), cache, []models.Spot{testSpot})

	_, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, testSpot.ID, saved.SpotID)
	assert.Equal(t, "2024-06-01", saved.Date)
	assert.Len(t, saved.Tides, 4)
}

func TestNearestRating(t *testing.T) {
	t.Parallel()

	entries := []ratingEntry{{Timestamp: 100}, {Timestamp: 200}, {Timestamp: 300}}

	assert.Nil(t, nearestRating(nil, testNow))
	assert.Equal(t, int64(200), nearestRating(entries, time.Unix(240, 0)).Timestamp)
	assert.Equal(t, int64(300), nearestRating(entries, time.Unix(1000, 0)).Timestamp)
	assert.Equal(t, int64(100), nearestRating(entries, time.Unix(0, 0)).Timestamp)
}

func TestRatingText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Fair to good", ratingText("FAIR_TO_GOOD"))
	assert.Equal(t, "Epic", ratingText("EPIC"))
	assert.Equal(t, "", ratingText(""))
}

func TestRatingValueClamped(t *testing.T) {
	t.Parallel()

	c := NewClient(routedClient(map[string]*client.Response{
		"/kbyg/spots/forecasts/tides":  {StatusCode: http.StatusOK, Body: []byte(tidesBody)},
		"/kbyg/spots/forecasts/rating": {StatusCode: http.StatusOK, Body: []byte(`{"data":{"rating":[{"timestamp":1717243200,"rating":{"key":"EPIC","value":6}}]}}`)},
	}), nil, []models.Spot{testSpot})

	conditions, err := c.FetchSpot(context.Background(), testSpot.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 5.0, conditions.Rating.Value)
	assert.NoError(t, conditions.Rating.Validate())
}
