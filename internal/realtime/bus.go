package realtime

import (
	"context"
	"sync"

	"echodrop/internal/observability"
)

// Bus fans change events out to subscribers. Publish never blocks on slow
// subscribers; a subscriber that cannot keep up loses events, which is
// acceptable because events only signal "re-fetch".
type Bus interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a channel of events for the given collections
	// (all collections when none are named) and a cancel function.
	Subscribe(ctx context.Context, collections ...string) (<-chan Event, func(), error)
}

const subscriberBuffer = 64

type memorySubscriber struct {
	ch          chan Event
	collections map[string]struct{}
}

func (s *memorySubscriber) wants(collection string) bool {
	if len(s.collections) == 0 {
		return true
	}
	_, ok := s.collections[collection]
	return ok
}

// MemoryBus is an in-process Bus for single-node deployments and tests.
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[*memorySubscriber]struct{}
}

// NewMemoryBus creates a new in-process event bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[*memorySubscriber]struct{})}
}

// Publish delivers the event to every matching subscriber. Full subscriber
// buffers drop the event and count it.
func (b *MemoryBus) Publish(_ context.Context, event Event) error {
	observability.RealtimeEventsTotal.WithLabelValues(event.Collection, event.Action).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.wants(event.Collection) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			observability.WebSocketBackpressureDrops.WithLabelValues("realtime bus", "full").Inc()
		}
	}
	return nil
}

// Subscribe registers a subscriber for the given collections.
func (b *MemoryBus) Subscribe(ctx context.Context, collections ...string) (<-chan Event, func(), error) {
	sub := &memorySubscriber{
		ch:          make(chan Event, subscriberBuffer),
		collections: make(map[string]struct{}, len(collections)),
	}
	for _, c := range collections {
		sub.collections[c] = struct{}{}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, sub)
			b.mu.Unlock()
			close(sub.ch)
		})
	}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}

	return sub.ch, cancel, nil
}
