package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vilaca/gitlab-insights/internal/domain"
	"github.com/vilaca/gitlab-insights/internal/metrics"
)

// CachingClient wraps a Client with a TTL cache of successful responses.
// Failures are never cached, so the next request asks the API again.
type CachingClient struct {
	client Client
	cache  *cache
	logger *zap.Logger
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client Client, cacheDuration time.Duration, logger *zap.Logger) *CachingClient {
	return &CachingClient{
		client: client,
		cache:  newCache(cacheDuration),
		logger: logger,
	}
}

// GetIssues retrieves issues with caching.
func (c *CachingClient) GetIssues(ctx context.Context, projectID string) ([]domain.RawIssue, error) {
	return cached(c, fmt.Sprintf("GetIssues:%s", projectID), func() ([]domain.RawIssue, error) {
		return c.client.GetIssues(ctx, projectID)
	})
}

// GetCommits retrieves commits with caching.
func (c *CachingClient) GetCommits(ctx context.Context, projectID string) ([]domain.Commit, error) {
	return cached(c, fmt.Sprintf("GetCommits:%s", projectID), func() ([]domain.Commit, error) {
		return c.client.GetCommits(ctx, projectID)
	})
}

// Invalidate drops every cached response for a project.
func (c *CachingClient) Invalidate(projectID string) {
	c.cache.delete("GetIssues:" + projectID)
	c.cache.delete("GetCommits:" + projectID)
}

func cached[T any](c *CachingClient, key string, fetch func() ([]T, error)) ([]T, error) {
	if value, found := c.cache.get(key); found {
		if items, ok := value.([]T); ok {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			c.logger.Debug("cache hit", zap.String("key", key), zap.Int("items", len(items)))
			return items, nil
		}
	}

	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	c.logger.Debug("cache miss, fetching from API", zap.String("key", key))
	items, err := fetch()
	if err != nil {
		return nil, err
	}

	c.cache.set(key, items)
	return items, nil
}

// cache implements a thread-safe TTL cache. A zero duration disables it.
type cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	duration time.Duration
	now      func() time.Time
}

// cacheEntry holds a cached value with expiry time.
type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

func newCache(duration time.Duration) *cache {
	return &cache{
		entries:  make(map[string]*cacheEntry),
		duration: duration,
		now:      time.Now,
	}
}

// get retrieves a live value; expired entries are removed on the way.
func (c *cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.delete(key)
		return nil, false
	}

	return entry.value, true
}

func (c *cache) set(key string, value interface{}) {
	if c.duration <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: c.now().Add(c.duration),
	}
}

func (c *cache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
