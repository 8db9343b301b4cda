package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewLRUCache(2)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 60))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 60))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, cache.Set(ctx, "c", []byte("3"), 60))

	_, ok = cache.Get(ctx, "b")
	assert.False(t, ok)
	value, ok := cache.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), value)
}

func TestLRUCacheExpiresEntries(t *testing.T) {
	cache := NewLRUCache(4)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	time.Sleep(time.Millisecond)

	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
}

func TestLRUCacheOverwrite(t *testing.T) {
	cache := NewLRUCache(2)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 60))
	require.NoError(t, cache.Set(ctx, "a", []byte("2"), 60))

	value, ok := cache.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), value)
}

func TestLRUCacheDelete(t *testing.T) {
	cache := NewLRUCache(2)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 60))
	require.NoError(t, cache.Delete(ctx, "a"))

	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
}

func TestTokenBucketExhaustsAndReleases(t *testing.T) {
	limiter := NewTokenBucket(2, time.Hour)
	ctx := context.Background()

	release1, err := limiter.Acquire(ctx, "u1")
	require.NoError(t, err)
	_, err = limiter.Acquire(ctx, "u1")
	require.NoError(t, err)

	_, err = limiter.Acquire(ctx, "u1")
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	release1()
	release2, err := limiter.Acquire(ctx, "u1")
	require.NoError(t, err)
	release2()
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	limiter := NewTokenBucket(1, time.Hour)
	ctx := context.Background()

	_, err := limiter.Acquire(ctx, "u1")
	require.NoError(t, err)

	_, err = limiter.Acquire(ctx, "u1")
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	_, err = limiter.Acquire(ctx, "u2")
	assert.NoError(t, err)
}
