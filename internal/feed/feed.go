// Package feed binds remote analytics resources to local reactive values:
// fetch on start, re-fetch on a fixed interval, manual refetch, and an
// always-consistent snapshot of data/loading/error for the UI.
package feed

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads one fresh result for a feed.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// Snapshot is a point-in-time view of a feed. Data stays at its last good
// value when a fetch fails; Err describes the most recent failed cycle and
// clears on the next success.
type Snapshot[T any] struct {
	Data    *T
	Loading bool
	Err     error
}

// Feed polls one resource. Overlapping fetches are not deduplicated; each
// carries a sequence number and only the highest-issued response is ever
// applied, so a late stale arrival can never clobber a newer result.
type Feed[T any] struct {
	fetch    FetchFunc[T]
	interval time.Duration

	mu       sync.Mutex
	data     *T
	err      error
	inflight int
	issued   uint64
	applied  uint64
	stop     chan struct{}
	onChange func()
}

func New[T any](fetch FetchFunc[T], interval time.Duration) *Feed[T] {
	return &Feed[T]{fetch: fetch, interval: interval}
}

// OnChange registers the callback invoked after every state transition
// (fetch issued, result applied, result discarded). At most one callback.
func (f *Feed[T]) OnChange(fn func()) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Start issues an immediate fetch and begins the interval cycle. Calling
// Start on a started feed is a no-op.
func (f *Feed[T]) Start() {
	f.mu.Lock()
	if f.stop != nil {
		f.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	f.stop = stop
	f.mu.Unlock()

	f.Refetch()

	go func() {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f.Refetch()
			case <-stop:
				return
			}
		}
	}()
}

// Stop cancels the interval cycle. In-flight fetches still complete and
// their results still apply under the usual sequence rule.
func (f *Feed[T]) Stop() {
	f.mu.Lock()
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
	f.mu.Unlock()
}

// Refetch forces an out-of-cycle fetch. Concurrent calls each run
// independently.
func (f *Feed[T]) Refetch() {
	f.refetch(nil)
}

func (f *Feed[T]) refetch(done func()) {
	f.mu.Lock()
	f.issued++
	seq := f.issued
	f.inflight++
	f.mu.Unlock()
	f.notify()

	go func() {
		data, err := f.fetch(context.Background())

		f.mu.Lock()
		f.inflight--
		if seq > f.applied {
			f.applied = seq
			if err != nil {
				// Keep stale data; blanking the dashboard is worse.
				f.err = err
			} else {
				f.data = data
				f.err = nil
			}
		}
		f.mu.Unlock()
		f.notify()

		if done != nil {
			done()
		}
	}()
}

// Snapshot returns the current state.
func (f *Feed[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot[T]{Data: f.data, Loading: f.inflight > 0, Err: f.err}
}

// Mutate patches the current value in place, bypassing the fetch cycle.
// Used for live-event updates between polls; the next poll overwrites the
// patch wholesale. No-op while no data has been loaded yet.
func (f *Feed[T]) Mutate(fn func(*T)) {
	f.mu.Lock()
	if f.data != nil {
		fn(f.data)
	}
	f.mu.Unlock()
	f.notify()
}

func (f *Feed[T]) notify() {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}
