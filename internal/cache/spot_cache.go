package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bbernstein/tidewidget/internal/config"
	"github.com/bbernstein/tidewidget/internal/models"
)

// SpotStore is a persistent second cache layer
type SpotStore interface {
	GetSpot(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error)
	SaveSpot(ctx context.Context, record models.SpotRecord) error
}

// lruEntry wraps the cached data with metadata
type lruEntry struct {
	Data      *models.SpotRecord
	ExpiresAt time.Time
}

// SpotCacheService provides a two-layer caching system using LRU and DynamoDB.
// Either layer may be disabled.
type SpotCacheService struct {
	lru          *lru.Cache[string, *lruEntry]
	store        SpotStore
	ttl          time.Duration
	clock        clock
	lruHits      atomic.Uint64
	lruMisses    atomic.Uint64
	dynamoHits   atomic.Uint64
	dynamoMisses atomic.Uint64
}

// NewSpotCacheService wires the cache layers enabled in cfg
func NewSpotCacheService(ctx context.Context, cfg *config.CacheConfig) (*SpotCacheService, error) {
	var store SpotStore
	if cfg.EnableDynamoCache {
		dynamoClient, err := NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		store = NewDynamoSpotCache(dynamoClient, cfg.SpotTableName, cfg.GetDynamoTTL())
	}

	lruSize := 0
	if cfg.EnableLRUCache {
		lruSize = cfg.SpotLRUSize
	}

	return newSpotCacheService(lruSize, cfg.GetSpotLRUTTL(), store, realClock{})
}

func newSpotCacheService(lruSize int, ttl time.Duration, store SpotStore, clk clock) (*SpotCacheService, error) {
	s := &SpotCacheService{
		store: store,
		ttl:   ttl,
		clock: clk,
	}

	if lruSize > 0 {
		lruCache, err := lru.New[string, *lruEntry](lruSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU cache: %w", err)
		}
		s.lru = lruCache
	}

	return s, nil
}

// getCacheKey generates a unique cache key for a spot and date
func getCacheKey(spotID string, date time.Time) string {
	return fmt.Sprintf("%s:%s", spotID, date.Format("2006-01-02"))
}

// GetSpot tries the LRU cache first, then DynamoDB
func (c *SpotCacheService) GetSpot(ctx context.Context, spotID string, date time.Time) (*models.SpotRecord, error) {
	key := getCacheKey(spotID, date)

	if c.lru != nil {
		if entry, ok := c.lru.Get(key); ok {
			if c.clock.Now().Before(entry.ExpiresAt) {
				c.lruHits.Add(1)
				return entry.Data, nil
			}
			// Entry expired, remove it
			c.lru.Remove(key)
		}
		c.lruMisses.Add(1)
	}

	if c.store == nil {
		return nil, nil
	}

	record, err := c.store.GetSpot(ctx, spotID, date)
	if err != nil {
		return nil, fmt.Errorf("getting spot from DynamoDB: %w", err)
	}

	if record == nil {
		c.dynamoMisses.Add(1)
		return nil, nil
	}

	c.dynamoHits.Add(1)
	c.addToLRU(key, record)
	return record, nil
}

// SaveSpot saves a spot record to both layers
func (c *SpotCacheService) SaveSpot(ctx context.Context, record models.SpotRecord) error {
	date, err := time.Parse("2006-01-02", record.Date)
	if err != nil {
		return fmt.Errorf("parsing date: %w", err)
	}

	c.addToLRU(getCacheKey(record.SpotID, date), &record)

	if c.store == nil {
		return nil
	}

	if err := c.store.SaveSpot(ctx, record); err != nil {
		return fmt.Errorf("saving spot to DynamoDB: %w", err)
	}

	return nil
}

func (c *SpotCacheService) addToLRU(key string, record *models.SpotRecord) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, &lruEntry{
		Data:      record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *SpotCacheService) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits.Load(),
		"lru_misses":    c.lruMisses.Load(),
		"dynamo_hits":   c.dynamoHits.Load(),
		"dynamo_misses": c.dynamoMisses.Load(),
	}
}

// Clear removes all entries from the LRU cache
func (c *SpotCacheService) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
