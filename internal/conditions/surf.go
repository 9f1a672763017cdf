package conditions

import (
	"time"

	"github.com/bbernstein/tidewidget/internal/models"
)

// Rating cut points for surf quality
const (
	excellentRating = 4.5
	goodRating      = 3.5
	fairRating      = 2.5
)

const loadingReason = "Loading conditions"

// ClassifySurf buckets a surf rating, roughly 0 to 5
func ClassifySurf(rating float64) models.SurfQuality {
	switch {
	case rating >= excellentRating:
		return models.SurfExcellent
	case rating >= goodRating:
		return models.SurfGood
	case rating >= fairRating:
		return models.SurfFair
	default:
		return models.SurfPoor
	}
}

// SurfConditionFor builds the surf condition shown for a spot. Without a
// rating the spot is shown as fair while conditions load.
func SurfConditionFor(spot models.Spot, rating *models.SpotRating, tideHeight float64, now time.Time) models.SurfCondition {
	condition := models.SurfCondition{
		Spot:       spot,
		Quality:    models.SurfFair,
		Reason:     loadingReason,
		TideHeight: tideHeight,
		Time:       now.Unix(),
	}

	if rating == nil {
		return condition
	}

	value := rating.Value
	condition.Rating = &value
	condition.Quality = ClassifySurf(value)
	condition.Reason = rating.Text
	if condition.Reason == "" {
		condition.Reason = rating.Key
	}
	return condition
}
