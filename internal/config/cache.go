package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	SpotLRUSize       int
	SpotLRUTTLMinutes int

	// DynamoDB Cache settings
	SpotDynamoTTLMinutes int
	SpotTableName        string

	// S3 snapshot settings
	SnapshotTTLMinutes int

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	// Default values
	defaultSpotLRUSize          = 100
	defaultSpotLRUTTLMinutes    = 15
	defaultSpotDynamoTTLMinutes = 60
	defaultSpotTableName        = "surf-spot-cache"
	defaultSnapshotTTLMinutes   = 90
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		SpotLRUSize:          getEnvInt("CACHE_SPOT_LRU_SIZE", defaultSpotLRUSize),
		SpotLRUTTLMinutes:    getEnvInt("CACHE_SPOT_LRU_TTL_MINUTES", defaultSpotLRUTTLMinutes),
		SpotDynamoTTLMinutes: getEnvInt("CACHE_SPOT_DYNAMO_TTL_MINUTES", defaultSpotDynamoTTLMinutes),
		SpotTableName:        getEnvOrDefault("CACHE_SPOT_TABLE", defaultSpotTableName),
		SnapshotTTLMinutes:   getEnvInt("CACHE_SNAPSHOT_TTL_MINUTES", defaultSnapshotTTLMinutes),
		EnableLRUCache:       getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:    getEnvBool("CACHE_ENABLE_DYNAMO", false),
	}

	log.Debug().
		Int("SpotLRUSize", config.SpotLRUSize).
		Int("SpotLRUTTLMinutes", config.SpotLRUTTLMinutes).
		Int("SpotDynamoTTLMinutes", config.SpotDynamoTTLMinutes).
		Str("SpotTableName", config.SpotTableName).
		Int("SnapshotTTLMinutes", config.SnapshotTTLMinutes).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetSpotLRUTTL() time.Duration {
	return time.Duration(c.SpotLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.SpotDynamoTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetSnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
		log.Warn().Str("key", key).Msg("Invalid float value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
