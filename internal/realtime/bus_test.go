package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	ch, cancel, err := bus.Subscribe(context.Background(), CollectionPosts)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(context.Background(), Event{
		Collection: CollectionPosts,
		Action:     ActionCreated,
		RecordID:   "post-1",
	}))

	event := recvEvent(t, ch)
	assert.Equal(t, CollectionPosts, event.Collection)
	assert.Equal(t, ActionCreated, event.Action)
	assert.Equal(t, "post-1", event.RecordID)
}

func TestMemoryBus_CollectionFilter(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	ch, cancel, err := bus.Subscribe(context.Background(), CollectionComments)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(context.Background(), Event{Collection: CollectionPosts}))
	require.NoError(t, bus.Publish(context.Background(), Event{Collection: CollectionComments, RecordID: "c-1"}))

	event := recvEvent(t, ch)
	assert.Equal(t, "c-1", event.RecordID)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra event: %+v", extra)
	default:
	}
}

func TestMemoryBus_SubscribeAllCollections(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	ch, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(context.Background(), Event{Collection: CollectionBookmarks}))
	event := recvEvent(t, ch)
	assert.Equal(t, CollectionBookmarks, event.Collection)
}

func TestMemoryBus_CancelClosesChannel(t *testing.T) {
	t.Parallel()

	bus := NewMemoryBus()
	ch, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)

	cancel()
	cancel() // idempotent

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after cancel must not panic.
	assert.NoError(t, bus.Publish(context.Background(), Event{Collection: CollectionPosts}))
}
