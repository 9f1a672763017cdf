package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidewidget/internal/conditions"
	"github.com/bbernstein/tidewidget/internal/models"
	"github.com/bbernstein/tidewidget/internal/tide"
)

// TidePoolConfig holds the tide pool rating thresholds in feet
type TidePoolConfig struct {
	ExcellentFeet float64
	GoodFeet      float64
	FairFeet      float64
}

// GetTidePoolConfig reads tide pool thresholds from the environment. Invalid
// combinations fall back to the defaults.
func GetTidePoolConfig() *TidePoolConfig {
	defaults := conditions.DefaultTidePoolThresholds()
	cfg := &TidePoolConfig{
		ExcellentFeet: getEnvFloat("TIDEPOOL_EXCELLENT_FT", defaults.Excellent),
		GoodFeet:      getEnvFloat("TIDEPOOL_GOOD_FT", defaults.Good),
		FairFeet:      getEnvFloat("TIDEPOOL_FAIR_FT", defaults.Fair),
	}

	if err := cfg.Thresholds().Validate(); err != nil {
		log.Warn().Err(err).Msg("Invalid tide pool thresholds, using defaults")
		cfg.ExcellentFeet = defaults.Excellent
		cfg.GoodFeet = defaults.Good
		cfg.FairFeet = defaults.Fair
	}

	return cfg
}

func (c *TidePoolConfig) Thresholds() conditions.TidePoolThresholds {
	return conditions.TidePoolThresholds{
		Excellent: c.ExcellentFeet,
		Good:      c.GoodFeet,
		Fair:      c.FairFeet,
	}
}

// ForecastConfig holds the tunables of the tide forecast
type ForecastConfig struct {
	FallbackHeight float64
	TieDirection   models.Direction
	UpcomingLimit  int
	ExtremaOnly    bool
}

// GetForecastConfig reads forecast tunables from the environment
func GetForecastConfig() (*ForecastConfig, error) {
	cfg := &ForecastConfig{
		FallbackHeight: getEnvFloat("TIDE_FALLBACK_HEIGHT_FT", 0),
		TieDirection:   models.Direction(strings.ToUpper(getEnvOrDefault("TIDE_TIE_DIRECTION", string(models.DirectionRising)))),
		UpcomingLimit:  getEnvInt("TIDE_UPCOMING_LIMIT", tide.DefaultUpcomingLimit),
		ExtremaOnly:    getEnvBool("TIDE_EXTREMA_ONLY", false),
	}

	switch cfg.TieDirection {
	case models.DirectionRising, models.DirectionFalling:
	default:
		return nil, fmt.Errorf("invalid TIDE_TIE_DIRECTION %q", cfg.TieDirection)
	}
	if cfg.UpcomingLimit < 0 {
		return nil, fmt.Errorf("invalid TIDE_UPCOMING_LIMIT %d", cfg.UpcomingLimit)
	}

	return cfg, nil
}

// Options converts the configuration into forecast options
func (c *ForecastConfig) Options() []tide.Option {
	return []tide.Option{
		tide.WithFallbackHeight(c.FallbackHeight),
		tide.WithTieDirection(c.TieDirection),
		tide.WithUpcomingLimit(c.UpcomingLimit),
		tide.WithExtremaOnly(c.ExtremaOnly),
	}
}
