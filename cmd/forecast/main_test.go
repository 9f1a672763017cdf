package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/tidewidget/internal/models"
)

func resetSetup() {
	setupOnce = sync.Once{}
	setupErr = nil
	forecastHandler = nil
}

func newSurflineServer(t *testing.T, now time.Time) *httptest.Server {
	t.Helper()

	low := now.Add(-3 * time.Hour).Unix()
	high := now.Add(3 * time.Hour).Unix()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/tides"):
			fmt.Fprintf(w, `{"data":{"tides":[{"timestamp":%d,"type":"LOW","height":2.1},{"timestamp":%d,"type":"HIGH","height":5.8}]}}`, low, high)
		case strings.HasSuffix(r.URL.Path, "/rating"):
			fmt.Fprintf(w, `{"data":{"rating":[{"timestamp":%d,"rating":{"key":"GOOD","value":4}}]}}`, now.Unix())
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestHandleRequest(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	server := newSurflineServer(t, now)
	defer server.Close()

	t.Setenv("SURFLINE_BASE_URL", server.URL)
	t.Setenv("SPOTS", "pp:Pleasure Point,26:26th Avenue")
	t.Setenv("TIDE_SPOT_ID", "pp")
	t.Setenv("CACHE_ENABLE_DYNAMO", "false")
	t.Setenv("SNAPSHOT_BUCKET", "")

	testCases := []struct {
		name         string
		request      events.APIGatewayProxyRequest
		expectedCode int
	}{
		{
			name: "snapshot at fixed time",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"now": now.Format(time.RFC3339)},
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "single spot",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"now": now.Format(time.RFC3339), "spotId": "26"},
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "unknown spot",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"spotId": "mavericks"},
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resetSetup()

			response, err := handleRequest(context.Background(), tc.request)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCode, response.StatusCode)

			if tc.expectedCode != http.StatusOK {
				return
			}

			var snapshot models.WidgetSnapshot
			require.NoError(t, json.Unmarshal([]byte(response.Body), &snapshot))
			assert.InDelta(t, 3.95, snapshot.CurrentTide.Height, 1e-9)
			assert.Equal(t, models.DirectionRising, snapshot.CurrentTide.Direction)
			assert.Len(t, snapshot.HourlyPredictions, 24)
			for _, c := range snapshot.Conditions {
				assert.Equal(t, models.SurfGood, c.Quality)
			}
		})
	}
}

func TestHandleRequestMisconfigured(t *testing.T) {
	t.Setenv("SPOTS", "not-a-spot-list")
	resetSetup()
	defer resetSetup()

	response, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Contains(t, response.Body, "Service misconfigured")
}

func TestMain_StartsLambda(t *testing.T) {
	original := lambdaStart
	defer func() { lambdaStart = original }()

	var started bool
	lambdaStart = func(handler interface{}) {
		started = true
	}

	main()
	assert.True(t, started)
}
