// Package cache provides the in-memory memoization used by the platform
// optimization capability.
package cache

import (
	"fmt"
	"sync"
	"time"

	"kotodama/internal/domain"
)

// MemoryCache is an in-memory platform-result cache with TTL support.
// Entries are scoped per editor session and per platform.
type MemoryCache struct {
	results sync.Map
	ttl     time.Duration
}

// cacheEntry holds a cached result with expiration metadata.
type cacheEntry struct {
	result    domain.PlatformResult
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache with the specified TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	cache := &MemoryCache{ttl: ttl}
	go cache.cleanup()
	return cache
}

// NormalizedKey returns the cache key for a result: /{session}/platform/{platform}
func NormalizedKey(sessionID string, platform domain.Platform) string {
	return fmt.Sprintf("/%s/platform/%s", sessionID, platform)
}

// Get retrieves a platform result from the cache.
// Returns the result and true if found and not expired.
func (c *MemoryCache) Get(sessionID string, platform domain.Platform) (domain.PlatformResult, bool) {
	key := NormalizedKey(sessionID, platform)
	value, ok := c.results.Load(key)
	if !ok {
		return domain.PlatformResult{}, false
	}

	entry := value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.results.Delete(key)
		return domain.PlatformResult{}, false
	}

	return entry.result, true
}

// Set stores a platform result with the configured TTL, overwriting any
// previous entry for the same session and platform.
func (c *MemoryCache) Set(sessionID string, platform domain.Platform, result domain.PlatformResult) {
	key := NormalizedKey(sessionID, platform)
	c.results.Store(key, &cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// cleanup periodically removes expired entries from the cache.
func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		c.results.Range(func(key, value interface{}) bool {
			entry := value.(*cacheEntry)
			if now.After(entry.expiresAt) {
				c.results.Delete(key)
			}
			return true
		})
	}
}
