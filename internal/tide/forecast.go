package tide

import (
	"time"

	"github.com/bbernstein/tidewidget/internal/models"
)

// BuildForecast assembles the current tide, the hourly curve for the next
// HourlySamples hours and the upcoming highs and lows. It never fails: an
// empty or unusable event list yields fallback values throughout.
func BuildForecast(events []models.TideEvent, now time.Time, opts ...Option) models.TideForecast {
	o := newOptions(opts)

	normalized := Normalize(events)
	timeline := normalized.Events
	if o.ExtremaOnly {
		timeline = Extrema(timeline)
	}

	hourly := make([]models.TidePoint, HourlySamples)
	fallbacks := 0
	for h := range hourly {
		hourly[h] = interpolate(timeline, now.Add(time.Duration(h)*time.Hour), o)
		if hourly[h].IsFallback {
			fallbacks++
		}
	}

	return models.TideForecast{
		Current:         interpolate(timeline, now, o),
		UpcomingExtrema: upcomingExtrema(normalized.Events, now, o.UpcomingLimit),
		Hourly:          hourly,
		GeneratedAt:     now,
		Stats: models.ForecastStats{
			Events:          len(normalized.Events),
			Dropped:         normalized.Dropped,
			FallbackSamples: fallbacks,
		},
	}
}

// upcomingExtrema returns the first limit highs and lows strictly after now.
// A low is followed by a rising tide and a high by a falling one. Of several
// extremes sharing a timestamp only the first is kept.
func upcomingExtrema(events []Event, now time.Time, limit int) []models.TidePoint {
	upcoming := make([]models.TidePoint, 0, limit)

	for _, e := range events {
		if len(upcoming) >= limit {
			break
		}
		if !e.Kind.IsExtreme() || !e.Time.After(now) {
			continue
		}
		if n := len(upcoming); n > 0 && !e.Time.After(upcoming[n-1].Time) {
			continue
		}

		dir := models.DirectionFalling
		if e.Kind == models.EventKindLow {
			dir = models.DirectionRising
		}

		upcoming = append(upcoming, models.TidePoint{
			Time:      e.Time,
			Height:    e.Height,
			Direction: dir,
			Kind:      e.Kind,
		})
	}

	return upcoming
}
