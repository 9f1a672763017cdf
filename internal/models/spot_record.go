package models

import (
	"fmt"
	"time"
)

// SpotRecord is a cached fetch result for a spot and date
type SpotRecord struct {
	SpotID      string      `dynamodbav:"spotId"`
	Date        string      `dynamodbav:"date"`
	SpotName    string      `dynamodbav:"spotName"`
	Tides       []TideEvent `dynamodbav:"tides"`
	Rating      *SpotRating `dynamodbav:"rating"`
	LastUpdated int64       `dynamodbav:"lastUpdated"`
	TTL         int64       `dynamodbav:"ttl"`
}

// NewSpotRecord builds a cache record for conditions fetched on date
func NewSpotRecord(conditions SpotConditions, date time.Time) SpotRecord {
	return SpotRecord{
		SpotID:   conditions.Spot.ID,
		SpotName: conditions.Spot.Name,
		Date:     date.Format("2006-01-02"),
		Tides:    conditions.Tides,
		Rating:   conditions.Rating,
	}
}

// Conditions converts the record back into fetched conditions
func (r *SpotRecord) Conditions() *SpotConditions {
	return &SpotConditions{
		Spot:   Spot{ID: r.SpotID, Name: r.SpotName},
		Tides:  r.Tides,
		Rating: r.Rating,
	}
}

// Validate checks if a SpotRecord's fields are valid. Individual tide events
// are not validated; bad events are dropped when a forecast is built.
func (r *SpotRecord) Validate() error {
	if r.SpotID == "" {
		return fmt.Errorf("spot ID is required")
	}

	if r.Date == "" {
		return fmt.Errorf("date is required")
	}

	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date format: %s", r.Date)
	}

	if r.Rating != nil {
		if err := r.Rating.Validate(); err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
	}

	return nil
}
