package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bbernstein/tidewidget/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type SpotsResponse struct {
	APIResponse
	Spots    []models.Spot `json:"spots"`
	TideSpot string        `json:"tideSpotId"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewSpotsResponse(spots []models.Spot, tideSpotID string) *SpotsResponse {
	return &SpotsResponse{
		APIResponse: APIResponse{ResponseType: "spots"},
		Spots:       spots,
		TideSpot:    tideSpotID,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// Parameter parsing helpers

// ParseNow reads the optional "now" override (RFC3339). ok is false when the
// parameter is absent.
func ParseNow(params map[string]string) (now time.Time, ok bool, err error) {
	raw, present := params["now"]
	if !present || strings.TrimSpace(raw) == "" {
		return time.Time{}, false, nil
	}

	now, err = time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false, InvalidTimeError{Value: raw}
	}
	return now.UTC(), true, nil
}

// FilterConditions keeps only the surf condition for spotID
func FilterConditions(snapshot models.WidgetSnapshot, spotID string) models.WidgetSnapshot {
	filtered := make([]models.SurfCondition, 0, 1)
	for _, c := range snapshot.Conditions {
		if c.Spot.ID == spotID {
			filtered = append(filtered, c)
		}
	}
	snapshot.Conditions = filtered
	return snapshot
}

type InvalidTimeError struct {
	Value string
}

func (e InvalidTimeError) Error() string {
	return "Invalid time: " + e.Value + " (expected RFC3339)"
}
