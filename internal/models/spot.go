package models

import "fmt"

type TidePoolRating string

const (
	TidePoolExcellent TidePoolRating = "EXCELLENT"
	TidePoolGood      TidePoolRating = "GOOD"
	TidePoolFair      TidePoolRating = "FAIR"
	TidePoolPoor      TidePoolRating = "POOR"
)

type SurfQuality string

const (
	SurfExcellent SurfQuality = "EXCELLENT"
	SurfGood      SurfQuality = "GOOD"
	SurfFair      SurfQuality = "FAIR"
	SurfPoor      SurfQuality = "POOR"
)

// Spot is a monitored surf location
type Spot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotRating is the upstream surf rating for a spot, roughly 0 to 5
type SpotRating struct {
	Key   string  `json:"key" dynamodbav:"key"`
	Value float64 `json:"value" dynamodbav:"value"`
	Text  string  `json:"text" dynamodbav:"text"`
}

// SpotConditions is everything fetched for one spot in one refresh
type SpotConditions struct {
	Spot   Spot        `json:"spot"`
	Tides  []TideEvent `json:"tides"`
	Rating *SpotRating `json:"rating,omitempty"`
}

// TidePoolCondition is the tide pool accessibility derived from a tide point
type TidePoolCondition struct {
	Rating  TidePoolRating `json:"rating"`
	Message string         `json:"message"`
	Alert   bool           `json:"alert"`
	Height  float64        `json:"height"`
}

// SurfCondition is the surf quality for a spot at a point in time
type SurfCondition struct {
	Spot       Spot        `json:"spot"`
	Quality    SurfQuality `json:"quality"`
	Rating     *float64    `json:"rating,omitempty"`
	Reason     string      `json:"reason"`
	TideHeight float64     `json:"tideHeight"`
	Time       int64       `json:"time"`
}

// Validate checks a SpotRating's fields
func (r *SpotRating) Validate() error {
	if r.Value < 0 || r.Value > 5 {
		return fmt.Errorf("rating out of range: %f", r.Value)
	}
	return nil
}
