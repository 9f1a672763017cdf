package tide

import (
	"time"

	"github.com/bbernstein/tidewidget/internal/models"
)

var baseDay = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return baseDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func event(t time.Time, height float64, kind models.EventKind) models.TideEvent {
	ts := t.Unix()
	k := string(kind)
	return models.TideEvent{
		Timestamp: &ts,
		Height:    &height,
		Type:      &k,
	}
}

func timeline(events ...models.TideEvent) []Event {
	return Normalize(events).Events
}
