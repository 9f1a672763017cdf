package tide

import (
	"sort"
	"time"

	"github.com/bbernstein/tidewidget/internal/models"
)

// Interpolate returns the tide at a query time. The timeline must be sorted,
// as returned by Normalize.
//
// A query before the first event or after the last one cannot be
// interpolated. It returns the fallback height, RISING and IsFallback set, so
// a curve extending past the known events shows the same flat value repeated.
func Interpolate(timeline []Event, at time.Time, opts ...Option) models.TidePoint {
	return interpolate(timeline, at, newOptions(opts))
}

func interpolate(timeline []Event, at time.Time, o Options) models.TidePoint {
	i, ok := bracket(timeline, at)
	if !ok {
		return models.TidePoint{
			Time:       at,
			Height:     o.FallbackHeight,
			Direction:  models.DirectionRising,
			IsFallback: true,
		}
	}

	e1 := timeline[i]
	e2 := timeline[i+1]

	progress := 0.0
	if span := e2.Time.Sub(e1.Time); span > 0 {
		progress = float64(at.Sub(e1.Time)) / float64(span)
	}

	return models.TidePoint{
		Time:      at,
		Height:    lerp(e1.Height, e2.Height, progress),
		Direction: direction(e1.Height, e2.Height, o.TieDirection),
	}
}

// bracket finds the first i with timeline[i] <= at <= timeline[i+1]
func bracket(timeline []Event, at time.Time) (int, bool) {
	if len(timeline) < 2 {
		return 0, false
	}

	// First event at or after the query time
	idx := sort.Search(len(timeline), func(i int) bool {
		return !timeline[i].Time.Before(at)
	})

	switch {
	case idx >= len(timeline):
		return 0, false
	case idx == 0:
		if timeline[0].Time.Equal(at) {
			return 0, true
		}
		return 0, false
	default:
		return idx - 1, true
	}
}

// lerp is exact at both endpoints
func lerp(h1, h2, progress float64) float64 {
	return h1*(1-progress) + h2*progress
}

func direction(h1, h2 float64, tie models.Direction) models.Direction {
	switch {
	case h2 > h1:
		return models.DirectionRising
	case h2 < h1:
		return models.DirectionFalling
	default:
		return tie
	}
}
