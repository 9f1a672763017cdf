package tide

import (
	"sort"
	"time"

	"github.com/bbernstein/tidewidget/internal/models"
)

// Event is a validated tide event on the forecast timeline
type Event struct {
	Time   time.Time
	Height float64
	Kind   models.EventKind
}

// NormalizeResult is the sorted timeline plus the number of rejected events
type NormalizeResult struct {
	Events  []Event
	Dropped int
}

// Normalize drops events with a missing field or unknown kind and sorts the
// rest by time. The sort is stable, so events sharing a timestamp keep their
// input order.
func Normalize(raw []models.TideEvent) NormalizeResult {
	events := make([]Event, 0, len(raw))
	dropped := 0

	for _, e := range raw {
		if err := e.Validate(); err != nil {
			dropped++
			continue
		}
		events = append(events, Event{
			Time:   e.Time(),
			Height: *e.Height,
			Kind:   e.Kind(),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})

	return NormalizeResult{
		Events:  events,
		Dropped: dropped,
	}
}

// Extrema filters a timeline down to its highs and lows
func Extrema(events []Event) []Event {
	var extrema []Event
	for _, e := range events {
		if e.Kind.IsExtreme() {
			extrema = append(extrema, e)
		}
	}
	return extrema
}
