package fizzy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

func liveEntry(data string) *fizzy.CacheEntry {
	return &fizzy.CacheEntry{
		Data:      []byte(data),
		ExpiresAt: time.Now().Add(time.Minute),
	}
}

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(10)

		err := cache.Set(ctx, "GET:/boards", liveEntry("boards"))
		require.NoError(t, err)

		entry, err := cache.Get(ctx, "GET:/boards")
		require.NoError(t, err)
		assert.Equal(t, []byte("boards"), entry.Data)
	})

	t.Run("get nonexistent key", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(10)

		_, err := cache.Get(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "key not found")
	})

	t.Run("expired entry evicted on read", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(10)

		err := cache.Set(ctx, "stale", &fizzy.CacheEntry{
			Data:      []byte("old"),
			ExpiresAt: time.Now().Add(-time.Second),
		})
		require.NoError(t, err)

		_, err = cache.Get(ctx, "stale")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entry expired")
		assert.Equal(t, 0, cache.Size())
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(10)
		require.NoError(t, cache.Set(ctx, "key", liveEntry("data")))

		require.NoError(t, cache.Delete(ctx, "key"))
		assert.False(t, cache.Has(ctx, "key"))
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(10)
		require.NoError(t, cache.Set(ctx, "a", liveEntry("1")))
		require.NoError(t, cache.Set(ctx, "b", liveEntry("2")))

		require.NoError(t, cache.Clear(ctx))
		assert.Equal(t, 0, cache.Size())
	})

	t.Run("eviction at capacity", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(2)

		require.NoError(t, cache.Set(ctx, "oldest", &fizzy.CacheEntry{
			Data:      []byte("1"),
			ExpiresAt: time.Now().Add(time.Minute),
		}))
		require.NoError(t, cache.Set(ctx, "newer", &fizzy.CacheEntry{
			Data:      []byte("2"),
			ExpiresAt: time.Now().Add(2 * time.Minute),
		}))
		require.NoError(t, cache.Set(ctx, "newest", &fizzy.CacheEntry{
			Data:      []byte("3"),
			ExpiresAt: time.Now().Add(3 * time.Minute),
		}))

		assert.False(t, cache.Has(ctx, "oldest"))
		assert.True(t, cache.Has(ctx, "newer"))
		assert.True(t, cache.Has(ctx, "newest"))
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(1)
		require.NoError(t, cache.Set(ctx, "key", liveEntry("v1")))
		require.NoError(t, cache.Set(ctx, "key", liveEntry("v2")))

		entry, err := cache.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), entry.Data)
	})

	t.Run("keys sorted", func(t *testing.T) {
		t.Parallel()

		cache := fizzy.NewMemoryCache(10)
		require.NoError(t, cache.Set(ctx, "b", liveEntry("2")))
		require.NoError(t, cache.Set(ctx, "a", liveEntry("1")))

		assert.Equal(t, []string{"a", "b"}, cache.Keys())
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := fizzy.NewNoOpCache()

	require.NoError(t, cache.Set(ctx, "key", liveEntry("data")))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, fizzy.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestCachingPolicy(t *testing.T) {
	t.Parallel()

	t.Run("default policy", func(t *testing.T) {
		t.Parallel()

		policy := fizzy.DefaultCachingPolicy()

		assert.True(t, policy.ShouldCache("GET", "/acme/boards", 200))
		assert.False(t, policy.ShouldCache("POST", "/acme/boards", 201))
		assert.False(t, policy.ShouldCache("DELETE", "/acme/boards/1", 204))
		assert.False(t, policy.ShouldCache("GET", "/acme/boards", 404))
		assert.False(t, policy.ShouldCache("GET", "/my/notifications", 200))
	})

	t.Run("include paths restrict caching", func(t *testing.T) {
		t.Parallel()

		policy := &fizzy.CachingPolicy{
			CacheGET:     true,
			IncludePaths: []string{"/boards"},
		}

		assert.True(t, policy.ShouldCache("GET", "/acme/boards", 200))
		assert.False(t, policy.ShouldCache("GET", "/acme/cards", 200))
	})
}

func TestCacheManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("key construction", func(t *testing.T) {
		t.Parallel()

		manager := fizzy.NewCacheManager(fizzy.NewMemoryCache(10), nil)

		assert.Equal(t, "GET:/acme/boards", manager.GetCacheKey("GET", "/acme/boards", nil))

		withParams := manager.GetCacheKey("GET", "/acme/cards", map[string]string{
			"status": "open",
			"board":  "3",
		})
		assert.Equal(t, "GET:/acme/cards:board=3&status=open", withParams)
	})

	t.Run("entry round trip with etag", func(t *testing.T) {
		t.Parallel()

		manager := fizzy.NewCacheManager(fizzy.NewMemoryCache(10), nil)

		err := manager.SetWithETag(ctx, "GET:/acme/boards", []byte(`[]`), `"abc123"`, 0)
		require.NoError(t, err)

		entry, err := manager.GetEntry(ctx, "GET:/acme/boards")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), entry.Data)
		assert.Equal(t, `"abc123"`, entry.ETag)
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()

		manager := fizzy.NewCacheManager(fizzy.NewMemoryCache(10), nil)

		_, _ = manager.Get(ctx, "missing")
		require.NoError(t, manager.Set(ctx, "key", []byte("data"), time.Minute))
		_, _ = manager.Get(ctx, "key")

		stats := manager.GetStats()
		assert.Equal(t, int64(1), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.Equal(t, int64(1), stats.Sets)
		assert.InDelta(t, 0.5, stats.GetHitRate(), 0.001)
	})

	t.Run("nil cache disables caching", func(t *testing.T) {
		t.Parallel()

		manager := fizzy.NewCacheManager(nil, nil)

		require.NoError(t, manager.Set(ctx, "key", []byte("data"), time.Minute))

		_, err := manager.Get(ctx, "key")
		require.ErrorIs(t, err, fizzy.ErrCacheDisabled)
	})
}
