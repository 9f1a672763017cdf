package models

import "time"

// WidgetSnapshot is the document handed to the widget on every refresh
type WidgetSnapshot struct {
	ResponseType       string            `json:"responseType"`
	TideSpot           Spot              `json:"tideSpot"`
	CurrentTide        TidePoint         `json:"currentTide"`
	NextTides          []TidePoint       `json:"nextTides"`
	HourlyPredictions  []TidePoint       `json:"hourlyPredictions"`
	TidePool           TidePoolCondition `json:"tidePool"`
	NextTidePoolWindow *TidePoint        `json:"nextTidePoolWindow,omitempty"`
	Conditions         []SurfCondition   `json:"conditions"`
	Stats              ForecastStats     `json:"stats"`
	LastUpdated        time.Time         `json:"lastUpdated"`
}
