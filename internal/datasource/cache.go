package datasource

import (
	"context"
	"io"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/matchups/internal/logger"
	"github.com/yourusername/matchups/internal/metrics"
	"github.com/yourusername/matchups/internal/models"
)

const tableCacheKey = "matchup_table"

// CachedSource keeps the most recently loaded table in memory for a TTL.
// The cached table is shared between requests and must be treated as read-only.
type CachedSource struct {
	source MatchupSource
	cache  *cache.Cache
	ttl    time.Duration
	logger *logger.DataLogger

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedSource wraps a source with a TTL cache
func NewCachedSource(source MatchupSource, ttl time.Duration, dataLogger *logger.DataLogger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache.New(ttl, ttl*2),
		ttl:    ttl,
		logger: dataLogger,
	}
}

// Name returns the wrapped source name
func (c *CachedSource) Name() string {
	return c.source.Name()
}

// Location returns the wrapped source location
func (c *CachedSource) Location() string {
	return c.source.Location()
}

// Ping delegates to the wrapped source
func (c *CachedSource) Ping(ctx context.Context) error {
	return c.source.Ping(ctx)
}

// Load returns the cached table or loads and caches a fresh one
func (c *CachedSource) Load(ctx context.Context) (models.MatchupTable, error) {
	if cached, found := c.cache.Get(tableCacheKey); found {
		if table, ok := cached.(models.MatchupTable); ok {
			c.countHit()
			return table, nil
		}
	}

	c.countMiss()
	table, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(tableCacheKey, table, c.ttl)
	return table, nil
}

// Refresh reloads the table and replaces the cached entry.
// A failed reload leaves the previous entry in place.
func (c *CachedSource) Refresh(ctx context.Context) error {
	table, err := c.source.Load(ctx)
	if c.logger != nil {
		c.logger.LogCacheRefresh(len(table), err)
	}
	if err != nil {
		return err
	}
	c.cache.Set(tableCacheKey, table, c.ttl)
	return nil
}

// Close closes the wrapped source when it holds resources
func (c *CachedSource) Close() error {
	if closer, ok := c.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Invalidate drops the cached table so the next Load reads the source
func (c *CachedSource) Invalidate(reason string) {
	c.cache.Delete(tableCacheKey)
	if c.logger != nil {
		c.logger.LogCacheInvalidation(reason)
	}
}

// Stats returns cache statistics
func (c *CachedSource) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits = c.hitCount
	misses = c.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (c *CachedSource) countHit() {
	c.mu.Lock()
	c.hitCount++
	c.mu.Unlock()
	metrics.RecordCacheHit()
}

func (c *CachedSource) countMiss() {
	c.mu.Lock()
	c.missCount++
	c.mu.Unlock()
	metrics.RecordCacheMiss()
}
