package realtime

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"
	"strings"

	"echodrop/internal/observability"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "realtime:"

// Channel derives the Redis channel name for a collection.
func Channel(collection string) string {
	return channelPrefix + collection
}

// RedisBus is a Bus backed by Redis pub/sub so change events reach every
// node. A nil Redis client degrades to publishing into the wrapped local
// bus only.
type RedisBus struct {
	rdb   *redis.Client
	local *MemoryBus
}

// NewRedisBus creates a Bus that publishes through Redis and fans incoming
// messages out to local subscribers.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{
		rdb:   rdb,
		local: NewMemoryBus(),
	}
}

// Publish sends the event to the collection channel. Local-only delivery
// when Redis is unavailable.
func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	if b.rdb == nil {
		return b.local.Publish(ctx, event)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	observability.RealtimeEventsTotal.WithLabelValues(event.Collection, event.Action).Inc()
	return b.rdb.Publish(ctx, Channel(event.Collection), payload).Err()
}

// Subscribe registers a local subscriber. Start must be running for events
// published by other nodes to arrive.
func (b *RedisBus) Subscribe(ctx context.Context, collections ...string) (<-chan Event, func(), error) {
	return b.local.Subscribe(ctx, collections...)
}

// Start subscribes to the realtime channel pattern and forwards incoming
// events to local subscribers until ctx is cancelled.
func (b *RedisBus) Start(ctx context.Context) error {
	if b.rdb == nil {
		return nil
	}

	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in realtime subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					b.dispatch(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

func (b *RedisBus) dispatch(channel, payload string) {
	if !strings.HasPrefix(channel, channelPrefix) {
		log.Printf("invalid realtime channel: %s", channel)
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("invalid realtime payload on %s: %v", channel, err)
		return
	}
	if event.Collection == "" {
		event.Collection = strings.TrimPrefix(channel, channelPrefix)
	}
	_ = b.local.Publish(context.Background(), event)
}
