package fizzy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// CacheEntry is a cached response body together with its validation tag.
type CacheEntry struct {
	Data      []byte
	ETag      string
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its TTL.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is the backend interface for response caching.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheOptions holds options common to all cache backends.
type CacheOptions struct {
	// DefaultTTL is applied to entries stored without an explicit TTL.
	DefaultTTL time.Duration
}

// DefaultCacheTTL bounds how long a cached body is trusted for
// If-None-Match revalidation.
const DefaultCacheTTL = 5 * time.Minute

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{DefaultTTL: DefaultCacheTTL}
}

// MemoryCache is an in-process cache with lazy TTL eviction. Expired entries
// are treated as absent and removed on the next lookup.
type MemoryCache struct {
	mutex   sync.Mutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a new in-memory cache holding at most maxSize
// entries. When full, the entry expiring soonest is evicted.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves an entry, evicting it if expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		delete(c.entries, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting the soonest-expiring entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Keys returns the keys of all live entries, sorted.
func (c *MemoryCache) Keys() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	keys := make([]string, 0, len(c.entries))

	for key, entry := range c.entries {
		if !entry.Expired() {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}

// Size returns the number of live entries.
func (c *MemoryCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0

	for _, entry := range c.entries {
		if !entry.Expired() {
			count++
		}
	}

	return count
}

// Cleanup removes all expired entries eagerly.
func (c *MemoryCache) Cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// NoOpCache is a cache that stores nothing.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// CacheStats tracks cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// GetHitRate returns the fraction of lookups served from cache.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CachingPolicy decides which responses are cacheable.
type CachingPolicy struct {
	CacheGET     bool
	CachePOST    bool
	CacheErrors  bool
	IncludePaths []string
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GET responses only. Notification
// endpoints are excluded; their unread state changes on every read.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:     true,
		ExcludePaths: []string{"/notifications"},
	}
}

// ShouldCache reports whether a response for method/path/status is cacheable
// under this policy.
func (p *CachingPolicy) ShouldCache(method, path string, status int) bool {
	switch method {
	case "GET":
		if !p.CacheGET {
			return false
		}
	case "POST":
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (status < 200 || status >= 300) {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.Contains(path, excluded) {
			return false
		}
	}

	if len(p.IncludePaths) > 0 {
		for _, included := range p.IncludePaths {
			if strings.Contains(path, included) {
				return true
			}
		}

		return false
	}

	return true
}

// CacheManager wraps a Cache with key construction, a caching policy,
// default TTLs, and hit/miss statistics. It is scoped to one client
// instance; the sequential request flow means no locking is needed beyond
// the stats counter.
type CacheManager struct {
	cache   Cache
	policy  *CachingPolicy
	options *CacheOptions
	mutex   sync.Mutex
	stats   CacheStats
}

// NewCacheManager creates a cache manager. A nil cache disables caching; a
// nil policy uses DefaultCachingPolicy.
func NewCacheManager(cache Cache, policy *CachingPolicy) *CacheManager {
	if cache == nil {
		cache = NewNoOpCache()
	}

	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	return &CacheManager{
		cache:   cache,
		policy:  policy,
		options: DefaultCacheOptions(),
	}
}

// GetCacheKey builds the cache key for a request. Params are sorted so the
// key is stable regardless of map iteration order.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	return method + ":" + path + ":" + strings.Join(pairs, "&")
}

// ShouldCache defers to the manager's policy.
func (m *CacheManager) ShouldCache(method, path string, status int) bool {
	return m.policy.ShouldCache(method, path, status)
}

// Get retrieves cached data, recording a hit or miss.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.GetEntry(ctx, key)
	if err != nil {
		return nil, err
	}

	return entry.Data, nil
}

// GetEntry retrieves the full cache entry, recording a hit or miss. The
// pipeline uses the entry's ETag to populate If-None-Match.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	entry, err := m.cache.Get(ctx, key)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err != nil {
		m.stats.Misses++

		return nil, err
	}

	m.stats.Hits++

	return entry, nil
}

// Set stores data with an explicit TTL.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data with its ETag. A zero ttl uses the default.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.options.DefaultTTL
	}

	entry := &CacheEntry{
		Data:      data,
		ETag:      etag,
		ExpiresAt: time.Now().Add(ttl),
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		return fmt.Errorf("caching entry: %w", err)
	}

	m.mutex.Lock()
	m.stats.Sets++
	m.mutex.Unlock()

	return nil
}

// Clear drops every cached entry.
func (m *CacheManager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// GetStats returns a snapshot of the hit/miss counters.
func (m *CacheManager) GetStats() CacheStats {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.stats
}
