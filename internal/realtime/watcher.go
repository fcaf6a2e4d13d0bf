package realtime

import (
	"context"
	"sync/atomic"

	"echodrop/internal/observability"
)

// Refetch loads fresh data and returns an apply function that commits the
// result. The watcher calls apply only when no newer change arrived while
// the fetch was in flight, so a slow fetch can never clobber newer data.
type Refetch func(ctx context.Context) (apply func(), err error)

// Watcher re-runs a fetch whenever a watched collection changes. Events
// are coalesced: any number of changes during a fetch trigger exactly one
// follow-up fetch.
type Watcher struct {
	bus Bus
	seq atomic.Uint64
	log *observability.StructuredLogger
}

// NewWatcher creates a Watcher over the given bus.
func NewWatcher(bus Bus) *Watcher {
	return &Watcher{
		bus: bus,
		log: observability.NewStructuredLogger(),
	}
}

// Seq returns the number of change events observed so far.
func (w *Watcher) Seq() uint64 {
	return w.seq.Load()
}

// Run subscribes to the given collections and blocks until ctx is
// cancelled, invoking refetch after every observed change.
func (w *Watcher) Run(ctx context.Context, refetch Refetch, collections ...string) error {
	events, cancel, err := w.bus.Subscribe(ctx, collections...)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			w.seq.Add(1)
			w.refresh(ctx, refetch, events)
		}
	}
}

// drain absorbs queued events, returning how many were pending.
func (w *Watcher) drain(events <-chan Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			w.seq.Add(1)
		default:
			return
		}
	}
}

// refresh fetches until no change lands mid-fetch, then applies the last
// result. A result that raced with a newer event is discarded and the
// fetch repeats, so the applied state always reflects the latest change.
func (w *Watcher) refresh(ctx context.Context, refetch Refetch, events <-chan Event) {
	for {
		if ctx.Err() != nil {
			return
		}
		w.drain(events)
		before := w.seq.Load()

		apply, err := refetch(ctx)
		if err != nil {
			w.log.LogWithCorrelation(ctx, "watcher refetch failed",
				map[string]interface{}{"error": err.Error()})
			return
		}

		w.drain(events)
		if w.seq.Load() != before {
			// Stale result, a newer change arrived mid-fetch.
			continue
		}

		observability.FeedRefreshesTotal.WithLabelValues("realtime").Inc()
		apply()
		return
	}
}
