package tide

import "github.com/bbernstein/tidewidget/internal/models"

const (
	// HourlySamples is the length of every hourly forecast curve
	HourlySamples = 24

	DefaultUpcomingLimit = 4
)

// Options tune interpolation and forecast assembly
type Options struct {
	// FallbackHeight is reported when a query time has no bracketing events
	FallbackHeight float64
	// TieDirection is reported when both bracketing events have the same height
	TieDirection models.Direction
	// UpcomingLimit caps the number of upcoming highs and lows
	UpcomingLimit int
	// ExtremaOnly interpolates across highs and lows only, ignoring NORMAL samples
	ExtremaOnly bool
}

type Option func(*Options)

// WithFallbackHeight sets the height reported outside the known event range
func WithFallbackHeight(height float64) Option {
	return func(o *Options) {
		o.FallbackHeight = height
	}
}

// WithTieDirection sets the direction reported across a flat segment
func WithTieDirection(direction models.Direction) Option {
	return func(o *Options) {
		if direction == models.DirectionRising || direction == models.DirectionFalling {
			o.TieDirection = direction
		}
	}
}

// WithUpcomingLimit sets how many upcoming extremes a forecast carries
func WithUpcomingLimit(limit int) Option {
	return func(o *Options) {
		if limit < 0 {
			limit = 0
		}
		o.UpcomingLimit = limit
	}
}

// WithExtremaOnly drops NORMAL samples from interpolation
func WithExtremaOnly(extremaOnly bool) Option {
	return func(o *Options) {
		o.ExtremaOnly = extremaOnly
	}
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		FallbackHeight: 0.0,
		TieDirection:   models.DirectionRising,
		UpcomingLimit:  DefaultUpcomingLimit,
	}
}

func newOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
