package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := client
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
	return mr
}

func TestAside_CachesFetchResult(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, err := Aside(ctx, "test:key", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	// Second call is served from cache.
	got, err = Aside(ctx, "test:key", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, calls)

	assert.True(t, mr.Exists("test:key"))
}

func TestAside_CorruptEntryRefetches(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("test:key", "{not json"))

	got, err := Aside(ctx, "test:key", time.Minute, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestAside_NilClientFallsThrough(t *testing.T) {
	prev := client
	SetClient(nil)
	t.Cleanup(func() { SetClient(prev) })

	calls := 0
	for i := 0; i < 2; i++ {
		got, err := Aside(context.Background(), "test:key", time.Minute, func(ctx context.Context) (string, error) {
			calls++
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)
	}
	assert.Equal(t, 2, calls)
}

func TestInvalidate(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set(PostKey("p1"), `"cached"`))
	require.NoError(t, mr.Set(FeedKey, `"cached"`))

	InvalidatePost(context.Background(), "p1")

	assert.False(t, mr.Exists(PostKey("p1")))
	assert.False(t, mr.Exists(FeedKey))
}
