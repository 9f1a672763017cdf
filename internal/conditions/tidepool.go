package conditions

import (
	"fmt"

	"github.com/bbernstein/tidewidget/internal/models"
)

// TidePoolThresholds are the tide heights, in feet, at or below which tide
// pools reach each rating
type TidePoolThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// DefaultTidePoolThresholds suit a rocky reef measured against MLLW
func DefaultTidePoolThresholds() TidePoolThresholds {
	return TidePoolThresholds{
		Excellent: 0.0,
		Good:      1.0,
		Fair:      2.0,
	}
}

// Validate checks that thresholds do not decrease from Excellent to Fair
func (t TidePoolThresholds) Validate() error {
	if t.Excellent > t.Good {
		return fmt.Errorf("excellent threshold %.2f above good threshold %.2f", t.Excellent, t.Good)
	}
	if t.Good > t.Fair {
		return fmt.Errorf("good threshold %.2f above fair threshold %.2f", t.Good, t.Fair)
	}
	return nil
}

// Rate maps a tide height to a rating
func (t TidePoolThresholds) Rate(height float64) models.TidePoolRating {
	switch {
	case height <= t.Excellent:
		return models.TidePoolExcellent
	case height <= t.Good:
		return models.TidePoolGood
	case height <= t.Fair:
		return models.TidePoolFair
	default:
		return models.TidePoolPoor
	}
}

// ClassifyTidePool rates tide pool access at a tide point. Alert is raised
// only for an excellent tide that is still falling. A fallback point carries
// no real height and is always rated poor.
func ClassifyTidePool(point models.TidePoint, thresholds TidePoolThresholds) models.TidePoolCondition {
	if point.IsFallback {
		return models.TidePoolCondition{
			Rating:  models.TidePoolPoor,
			Message: "Tide data unavailable",
			Height:  point.Height,
		}
	}

	rating := thresholds.Rate(point.Height)
	falling := point.Direction == models.DirectionFalling

	return models.TidePoolCondition{
		Rating:  rating,
		Message: tidePoolMessage(rating, falling),
		Alert:   rating == models.TidePoolExcellent && falling,
		Height:  point.Height,
	}
}

func tidePoolMessage(rating models.TidePoolRating, falling bool) string {
	switch rating {
	case models.TidePoolExcellent:
		if falling {
			return "Minus tide dropping, prime tide pooling now"
		}
		return "Tide pools exposed, tide returning"
	case models.TidePoolGood:
		if falling {
			return "Tide pools accessible and improving"
		}
		return "Tide pools accessible, tide coming in"
	case models.TidePoolFair:
		if falling {
			return "Some tide pools exposed, tide dropping"
		}
		return "Some tide pools exposed"
	default:
		return "Tide too high for tide pools"
	}
}

// NextTidePoolWindow returns the first upcoming low tide low enough for a
// good tide pool rating, or nil when the forecast has none
func NextTidePoolWindow(forecast models.TideForecast, thresholds TidePoolThresholds) *models.TidePoint {
	for _, p := range forecast.UpcomingExtrema {
		if p.Kind == models.EventKindLow && p.Height <= thresholds.Good {
			window := p
			return &window
		}
	}
	return nil
}
