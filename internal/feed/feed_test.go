package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// waitRefetch runs one fetch cycle to completion.
func waitRefetch[T any](f *Feed[T]) {
	done := make(chan struct{})
	f.refetch(func() { close(done) })
	<-done
}

// ============================================================
// Fetch cycle
// ============================================================

func TestFeedInitialFetch(t *testing.T) {
	f := New(func(ctx context.Context) (*int, error) {
		v := 7
		return &v, nil
	}, time.Hour)

	snap := f.Snapshot()
	if snap.Data != nil || snap.Err != nil || snap.Loading {
		t.Fatalf("fresh feed should be empty: %+v", snap)
	}

	waitRefetch(f)

	snap = f.Snapshot()
	if snap.Data == nil || *snap.Data != 7 {
		t.Fatalf("expected 7, got %+v", snap.Data)
	}
	if snap.Loading || snap.Err != nil {
		t.Fatalf("unexpected state: %+v", snap)
	}
}

func TestFeedKeepsStaleDataOnError(t *testing.T) {
	var fail atomic.Bool
	f := New(func(ctx context.Context) (*int, error) {
		if fail.Load() {
			return nil, errors.New("backend down")
		}
		v := 7
		return &v, nil
	}, time.Hour)

	waitRefetch(f)
	fail.Store(true)
	waitRefetch(f)

	snap := f.Snapshot()
	if snap.Data == nil || *snap.Data != 7 {
		t.Fatal("stale data should survive a failed cycle")
	}
	if snap.Err == nil {
		t.Fatal("error should be reported")
	}

	// Next success clears the error.
	fail.Store(false)
	waitRefetch(f)
	if snap := f.Snapshot(); snap.Err != nil {
		t.Fatalf("error should clear on success: %v", snap.Err)
	}
}

func TestFeedLatestIssuedWins(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	f := New(func(ctx context.Context) (*int, error) {
		n := int(calls.Add(1))
		if n == 1 {
			close(started)
			<-block
		}
		return &n, nil
	}, time.Hour)

	// First fetch stalls; second completes first.
	done1 := make(chan struct{})
	f.refetch(func() { close(done1) })
	<-started
	waitRefetch(f)

	if snap := f.Snapshot(); snap.Data == nil || *snap.Data != 2 {
		t.Fatalf("expected second result applied, got %+v", snap.Data)
	}

	// The stalled first fetch finishes late and must be discarded.
	close(block)
	<-done1

	if snap := f.Snapshot(); *snap.Data != 2 {
		t.Fatalf("late stale result clobbered newer data: %d", *snap.Data)
	}
}

func TestFeedLoadingWhileInflight(t *testing.T) {
	block := make(chan struct{})
	f := New(func(ctx context.Context) (*int, error) {
		<-block
		v := 1
		return &v, nil
	}, time.Hour)

	done := make(chan struct{})
	f.refetch(func() { close(done) })

	if !f.Snapshot().Loading {
		t.Fatal("expected loading while fetch is in flight")
	}

	close(block)
	<-done
	if f.Snapshot().Loading {
		t.Fatal("loading should clear once the fetch lands")
	}
}

func TestFeedStartIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	fetched := make(chan struct{}, 4)
	f := New(func(ctx context.Context) (*int, error) {
		calls.Add(1)
		fetched <- struct{}{}
		v := 1
		return &v, nil
	}, time.Hour)

	f.Start()
	defer f.Stop()
	f.Start()

	<-fetched
	// Give a duplicate immediate fetch time to show up if one was issued.
	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one immediate fetch, got %d", n)
	}
}

// ============================================================
// Mutate and change notification
// ============================================================

func TestFeedMutateBeforeDataIsNoop(t *testing.T) {
	f := New(func(ctx context.Context) (*int, error) {
		v := 1
		return &v, nil
	}, time.Hour)

	f.Mutate(func(v *int) { *v = 99 })
	if f.Snapshot().Data != nil {
		t.Fatal("mutate must not materialize data")
	}

	waitRefetch(f)
	f.Mutate(func(v *int) { *v = 99 })
	if *f.Snapshot().Data != 99 {
		t.Fatal("mutate should patch loaded data")
	}
}

func TestFeedOnChangeFires(t *testing.T) {
	var fires atomic.Int32
	f := New(func(ctx context.Context) (*int, error) {
		v := 1
		return &v, nil
	}, time.Hour)
	f.OnChange(func() { fires.Add(1) })

	waitRefetch(f)
	// One notification when the fetch is issued, one when it lands.
	if n := fires.Load(); n != 2 {
		t.Fatalf("expected 2 notifications, got %d", n)
	}
}
