package query

import (
	"context"
	"sync"
	"time"

	"github.com/example/storefront/internal/domain/catalog"
)

// Refresher recomputes a live product list as the shopper edits the
// filters. Each Submit supersedes the previous one: a pending
// recomputation is cancelled and its result is never delivered.
type Refresher struct {
	catalog *catalog.Catalog
	delay   time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a Refresher that waits delay before each
// recomputation
func NewRefresher(c *catalog.Catalog, delay time.Duration) *Refresher {
	return &Refresher{catalog: c, delay: delay}
}

// Submit starts a recomputation for cr. The returned channel yields the
// result if cr is still the latest submission when it completes, and is
// closed either way.
func (r *Refresher) Submit(ctx context.Context, cr catalog.Criteria) <-chan catalog.Result {
	out := make(chan catalog.Result, 1)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer close(out)
		defer cancel()

		if !r.wait(ctx) {
			return
		}
		result := r.catalog.Query(cr)

		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.gen || ctx.Err() != nil {
			return
		}
		out <- result
	}()
	return out
}

// Stop cancels the pending recomputation and waits for it to exit
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Refresher) wait(ctx context.Context) bool {
	if r.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
