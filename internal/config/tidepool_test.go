package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/tidewidget/internal/conditions"
	"github.com/bbernstein/tidewidget/internal/models"
	"github.com/bbernstein/tidewidget/internal/tide"
)

func TestGetTidePoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    conditions.TidePoolThresholds
	}{
		{
			name: "defaults",
			want: conditions.DefaultTidePoolThresholds(),
		},
		{
			name: "custom thresholds",
			envVars: map[string]string{
				"TIDEPOOL_EXCELLENT_FT": "-0.5",
				"TIDEPOOL_GOOD_FT":      "0.5",
				"TIDEPOOL_FAIR_FT":      "1.5",
			},
			want: conditions.TidePoolThresholds{Excellent: -0.5, Good: 0.5, Fair: 1.5},
		},
		{
			name: "decreasing thresholds fall back to defaults",
			envVars: map[string]string{
				"TIDEPOOL_GOOD_FT": "3.0",
			},
			want: conditions.DefaultTidePoolThresholds(),
		},
		{
			name: "unparseable value keeps default",
			envVars: map[string]string{
				"TIDEPOOL_FAIR_FT": "knee deep",
			},
			want: conditions.DefaultTidePoolThresholds(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			assert.Equal(t, tt.want, GetTidePoolConfig().Thresholds())
		})
	}
}

func TestGetForecastConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := GetForecastConfig()
		require.NoError(t, err)

		assert.Equal(t, 0.0, cfg.FallbackHeight)
		assert.Equal(t, models.DirectionRising, cfg.TieDirection)
		assert.Equal(t, tide.DefaultUpcomingLimit, cfg.UpcomingLimit)
		assert.False(t, cfg.ExtremaOnly)
		assert.Len(t, cfg.Options(), 4)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("TIDE_FALLBACK_HEIGHT_FT", "2.5")
		t.Setenv("TIDE_TIE_DIRECTION", "falling")
		t.Setenv("TIDE_UPCOMING_LIMIT", "2")
		t.Setenv("TIDE_EXTREMA_ONLY", "true")

		cfg, err := GetForecastConfig()
		require.NoError(t, err)

		assert.Equal(t, 2.5, cfg.FallbackHeight)
		assert.Equal(t, models.DirectionFalling, cfg.TieDirection)
		assert.Equal(t, 2, cfg.UpcomingLimit)
		assert.True(t, cfg.ExtremaOnly)
	})

	t.Run("invalid tie direction", func(t *testing.T) {
		t.Setenv("TIDE_TIE_DIRECTION", "SLACK")

		_, err := GetForecastConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TIDE_TIE_DIRECTION")
	})

	t.Run("negative upcoming limit", func(t *testing.T) {
		t.Setenv("TIDE_UPCOMING_LIMIT", "-1")

		_, err := GetForecastConfig()
		assert.Error(t, err)
	})
}

func TestForecastConfigOptionsDriveEngine(t *testing.T) {
	cfg := &ForecastConfig{FallbackHeight: 1.25, TieDirection: models.DirectionFalling, UpcomingLimit: 1}

	opts := tide.DefaultOptions()
	for _, opt := range cfg.Options() {
		opt(&opts)
	}

	assert.Equal(t, 1.25, opts.FallbackHeight)
	assert.Equal(t, models.DirectionFalling, opts.TieDirection)
	assert.Equal(t, 1, opts.UpcomingLimit)
}
