package feed

import (
	"context"
	"sync"
	"time"

	"github.com/ospano/occuview/internal/api"
)

// Entries polls the entry/exit table with a mutable query. Changing the
// page or filters takes effect on the next fetch; callers pair a setter
// with Refetch for an immediate reload.
type Entries struct {
	feed *Feed[api.EntriesPage]

	mu     sync.Mutex
	page   int
	limit  int
	search string
	gender string
}

func NewEntries(client *api.Client, interval time.Duration) *Entries {
	e := &Entries{page: 1, limit: 10}
	e.feed = New(func(ctx context.Context) (*api.EntriesPage, error) {
		e.mu.Lock()
		q := api.EntriesQuery{
			Page:   e.page,
			Limit:  e.limit,
			Search: e.search,
			Gender: e.gender,
		}
		e.mu.Unlock()
		return client.Entries(ctx, q)
	}, interval)
	return e
}

func (e *Entries) Start()             { e.feed.Start() }
func (e *Entries) Stop()              { e.feed.Stop() }
func (e *Entries) Refetch()           { e.feed.Refetch() }
func (e *Entries) OnChange(fn func()) { e.feed.OnChange(fn) }

func (e *Entries) Snapshot() Snapshot[api.EntriesPage] {
	return e.feed.Snapshot()
}

func (e *Entries) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

// SetPage clamps to page >= 1. The upper bound is the server's to enforce;
// an out-of-range page simply comes back empty.
func (e *Entries) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	e.mu.Lock()
	e.page = page
	e.mu.Unlock()
}

func (e *Entries) Search() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.search
}

// SetSearch updates the search filter and resets to the first page.
func (e *Entries) SetSearch(search string) {
	e.mu.Lock()
	e.search = search
	e.page = 1
	e.mu.Unlock()
}

func (e *Entries) Gender() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gender
}

// SetGender updates the gender filter ("" means no filter) and resets to
// the first page.
func (e *Entries) SetGender(gender string) {
	e.mu.Lock()
	e.gender = gender
	e.page = 1
	e.mu.Unlock()
}
