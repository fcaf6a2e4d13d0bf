package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client, err := hub.Register("user-1", nil)
	require.NoError(t, err)

	assert.True(t, hub.IsOnline("user-1"))
	assert.False(t, hub.IsOnline("user-2"))

	hub.Broadcast("user-1", []byte("hello"))
	select {
	case msg := <-client.Send:
		assert.Equal(t, "hello", string(msg))
	default:
		t.Fatal("message not delivered")
	}

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline("user-1"))
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register("user-1", nil)
		require.NoError(t, err)
	}

	_, err := hub.Register("user-1", nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register("user-2", nil)
	assert.NoError(t, err)
}

func TestHub_SubscriptionScopesRelay(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	scoped, err := hub.Register("user-1", nil)
	require.NoError(t, err)
	unscoped, err := hub.Register("user-2", nil)
	require.NoError(t, err)

	HandleSubscribe(scoped, []byte(`{"subscribe":{"collection":"comments","filter":{"post_id":"p-1"}}}`))

	hub.BroadcastEvent(Event{Collection: CollectionComments, Action: ActionCreated, RecordID: "c-1", PostID: "p-1"})
	hub.BroadcastEvent(Event{Collection: CollectionComments, Action: ActionCreated, RecordID: "c-2", PostID: "p-2"})
	hub.BroadcastEvent(Event{Collection: CollectionReactions, Action: ActionUpdated, RecordID: "p-1", PostID: "p-1"})

	// The scoped client only sees comments on its post.
	require.Len(t, scoped.Send, 1)
	var event Event
	require.NoError(t, json.Unmarshal(<-scoped.Send, &event))
	assert.Equal(t, "c-1", event.RecordID)
	assert.Equal(t, "p-1", event.PostID)

	// A client that never subscribed receives everything.
	assert.Len(t, unscoped.Send, 3)
}

func TestHub_SubscribeWholeCollection(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client, err := hub.Register("user-1", nil)
	require.NoError(t, err)

	HandleSubscribe(client, []byte(`{"subscribe":{"collection":"posts"}}`))
	HandleSubscribe(client, []byte(`not even json`))

	hub.BroadcastEvent(Event{Collection: CollectionPosts, Action: ActionCreated, RecordID: "p-1", PostID: "p-1"})
	hub.BroadcastEvent(Event{Collection: CollectionBookmarks, Action: ActionCreated, RecordID: "p-1", PostID: "p-1"})

	require.Len(t, client.Send, 1)
	var event Event
	require.NoError(t, json.Unmarshal(<-client.Send, &event))
	assert.Equal(t, CollectionPosts, event.Collection)
}

func TestHub_StartWiringRelaysEvents(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	bus := NewMemoryBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, bus))

	clientA, err := hub.Register("user-1", nil)
	require.NoError(t, err)
	clientB, err := hub.Register("user-2", nil)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Event{
		Collection: CollectionComments,
		Action:     ActionCreated,
		RecordID:   "c-3",
	}))

	for _, client := range []*Client{clientA, clientB} {
		select {
		case raw := <-client.Send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, "c-3", event.RecordID)
		case <-time.After(2 * time.Second):
			t.Fatal("event not relayed to client")
		}
	}
}
