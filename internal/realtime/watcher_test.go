package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RefetchesOnChange(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	watcher := NewWatcher(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan struct{}, 1)
	go func() {
		_ = watcher.Run(ctx, func(ctx context.Context) (func(), error) {
			return func() { applied <- struct{}{} }, nil
		}, CollectionPosts)
	}()

	// Give the watcher time to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, bus.Publish(ctx, Event{Collection: CollectionPosts, Action: ActionCreated}))

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("refetch result never applied")
	}
	assert.Equal(t, uint64(1), watcher.Seq())
}

func TestWatcher_DiscardsStaleResult(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	watcher := NewWatcher(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	applied := make(chan int32, 4)
	refetch := func(ctx context.Context) (func(), error) {
		n := calls.Add(1)
		if n == 1 {
			// A change lands while the first fetch is in flight.
			require.NoError(t, bus.Publish(ctx, Event{Collection: CollectionPosts, Action: ActionDeleted}))
			// Give the bus time to deliver before the fetch returns.
			time.Sleep(50 * time.Millisecond)
		}
		return func() { applied <- n }, nil
	}

	go func() { _ = watcher.Run(ctx, refetch, CollectionPosts) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, bus.Publish(ctx, Event{Collection: CollectionPosts, Action: ActionCreated}))

	select {
	case n := <-applied:
		// The first fetch raced with the mid-flight change and must have
		// been discarded in favor of a re-fetch.
		assert.Equal(t, int32(2), n)
	case <-time.After(2 * time.Second):
		t.Fatal("no result applied")
	}

	select {
	case n := <-applied:
		t.Fatalf("stale result applied: fetch %d", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	watcher := NewWatcher(bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(ctx context.Context) (func(), error) {
			return func() {}, nil
		}, CollectionPosts)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
