package models

import (
	"fmt"
	"time"
)

// EventKind classifies a raw tide event
type EventKind string

const (
	EventKindHigh   EventKind = "HIGH"
	EventKindLow    EventKind = "LOW"
	EventKindNormal EventKind = "NORMAL"
)

// Valid reports whether k is one of the kinds delivered upstream
func (k EventKind) Valid() bool {
	switch k {
	case EventKindHigh, EventKindLow, EventKindNormal:
		return true
	}
	return false
}

// IsExtreme reports whether k is a high or low tide
func (k EventKind) IsExtreme() bool {
	return k == EventKindHigh || k == EventKindLow
}

type Direction string

const (
	DirectionRising  Direction = "RISING"
	DirectionFalling Direction = "FALLING"
)

// TideEvent is a tide point as delivered by the data source. Any field may be
// missing; missing fields make the event unusable for forecasting.
type TideEvent struct {
	Timestamp *int64   `json:"timestamp" dynamodbav:"timestamp"` // epoch seconds
	Height    *float64 `json:"height" dynamodbav:"height"`       // feet, negative for minus tides
	Type      *string  `json:"type" dynamodbav:"type"`           // HIGH, LOW or NORMAL
}

// Kind returns the event kind, or "" when the type is missing
func (e TideEvent) Kind() EventKind {
	if e.Type == nil {
		return ""
	}
	return EventKind(*e.Type)
}

// Time returns the event time in UTC. Callers must check Validate first.
func (e TideEvent) Time() time.Time {
	if e.Timestamp == nil {
		return time.Time{}
	}
	return time.Unix(*e.Timestamp, 0).UTC()
}

// Validate checks that every field is present and the kind is recognised
func (e TideEvent) Validate() error {
	if e.Timestamp == nil {
		return fmt.Errorf("missing timestamp")
	}
	if e.Height == nil {
		return fmt.Errorf("missing height")
	}
	if e.Type == nil {
		return fmt.Errorf("missing type")
	}
	if !e.Kind().Valid() {
		return fmt.Errorf("invalid tide type: %s", *e.Type)
	}
	return nil
}

// TidePoint is a tide height at an instant, either interpolated or an extreme
type TidePoint struct {
	Time      time.Time `json:"time"`
	Height    float64   `json:"height"`
	Direction Direction `json:"direction"`
	// Kind is set only for upcoming extremes
	Kind EventKind `json:"kind,omitempty"`
	// IsFallback marks a value that could not be interpolated because the
	// query time lies outside every known pair of events
	IsFallback bool `json:"isFallback"`
}

func (p TidePoint) IsRising() bool {
	return p.Direction == DirectionRising
}

// ForecastStats describes the quality of the data a forecast was built from
type ForecastStats struct {
	Events          int `json:"events"`
	Dropped         int `json:"dropped"`
	FallbackSamples int `json:"fallbackSamples"`
}

// TideForecast is the result of one engine run
type TideForecast struct {
	Current         TidePoint     `json:"current"`
	UpcomingExtrema []TidePoint   `json:"upcomingExtrema"`
	Hourly          []TidePoint   `json:"hourly"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	Stats           ForecastStats `json:"stats"`
}

// Validate checks the structural invariants of a forecast
func (f *TideForecast) Validate() error {
	if f.GeneratedAt.IsZero() {
		return fmt.Errorf("generatedAt is required")
	}

	if err := validateDirection(f.Current.Direction); err != nil {
		return fmt.Errorf("invalid current point: %w", err)
	}

	for i, p := range f.Hourly {
		want := f.GeneratedAt.Add(time.Duration(i) * time.Hour)
		if !p.Time.Equal(want) {
			return fmt.Errorf("hourly point %d at %s, expected %s", i, p.Time, want)
		}
		if err := validateDirection(p.Direction); err != nil {
			return fmt.Errorf("invalid hourly point at index %d: %w", i, err)
		}
	}

	for i, p := range f.UpcomingExtrema {
		if !p.Kind.IsExtreme() {
			return fmt.Errorf("upcoming extreme %d has kind %q", i, p.Kind)
		}
		if !p.Time.After(f.GeneratedAt) {
			return fmt.Errorf("upcoming extreme %d is not in the future", i)
		}
		if i > 0 && !p.Time.After(f.UpcomingExtrema[i-1].Time) {
			return fmt.Errorf("upcoming extremes out of order at index %d", i)
		}
	}

	return nil
}

func validateDirection(d Direction) error {
	switch d {
	case DirectionRising, DirectionFalling:
		return nil
	}
	return fmt.Errorf("invalid direction: %s", d)
}
