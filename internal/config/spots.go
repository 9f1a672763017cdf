package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bbernstein/tidewidget/internal/models"
)

// DefaultSpots are the Santa Cruz breaks the widget shipped with. The first
// one doubles as the tide source.
var DefaultSpots = []models.Spot{
	{ID: "5842041f4e65fad6a7708807", Name: "Pleasure Point"},
	{ID: "5842041f4e65fad6a770880b", Name: "26th Avenue"},
}

// SpotsConfig lists the spots shown by the widget
type SpotsConfig struct {
	Spots      []models.Spot
	TideSpotID string
}

// GetSpotsConfig reads SPOTS ("id:name,id:name") and TIDE_SPOT_ID
func GetSpotsConfig() (*SpotsConfig, error) {
	spots := DefaultSpots
	if raw := os.Getenv("SPOTS"); raw != "" {
		parsed, err := ParseSpots(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing SPOTS: %w", err)
		}
		spots = parsed
	}

	cfg := &SpotsConfig{
		Spots:      spots,
		TideSpotID: getEnvOrDefault("TIDE_SPOT_ID", spots[0].ID),
	}

	if _, ok := cfg.Lookup(cfg.TideSpotID); !ok {
		return nil, fmt.Errorf("tide spot %s is not a configured spot", cfg.TideSpotID)
	}

	return cfg, nil
}

// ParseSpots parses a comma separated list of id:name pairs
func ParseSpots(raw string) ([]models.Spot, error) {
	var spots []models.Spot
	seen := make(map[string]bool)

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, name, found := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if !found || id == "" || name == "" {
			return nil, fmt.Errorf("invalid spot entry %q, expected id:name", entry)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate spot id %s", id)
		}
		seen[id] = true

		spots = append(spots, models.Spot{ID: id, Name: name})
	}

	if len(spots) == 0 {
		return nil, fmt.Errorf("no spots configured")
	}
	return spots, nil
}

// Lookup finds a configured spot by ID
func (c *SpotsConfig) Lookup(id string) (models.Spot, bool) {
	for _, spot := range c.Spots {
		if spot.ID == id {
			return spot, true
		}
	}
	return models.Spot{}, false
}

// TideSpot returns the spot whose tides drive the forecast
func (c *SpotsConfig) TideSpot() models.Spot {
	spot, _ := c.Lookup(c.TideSpotID)
	return spot
}
