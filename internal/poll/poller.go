package poll

import (
	"context"
	"log"
	"sync"
	"time"

	"tableside/internal/domain"
)

// FetchFunc returns the slice of orders relevant to one view, e.g. the
// kitchen queue or a table's open orders.
type FetchFunc func(ctx context.Context) ([]domain.Order, error)

// Poller is the client side of the synchronization contract. There is no
// push transport: each view re-fetches its slice on a fixed interval and
// replaces its local snapshot wholesale. The interval is the staleness
// window — a view never fabricates state locally, it only re-fetches.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc

	mu       sync.RWMutex
	snapshot []domain.Order
}

func NewPoller(interval time.Duration, fetch FetchFunc) *Poller {
	return &Poller{
		interval: interval,
		fetch:    fetch,
	}
}

// Run polls until the context is cancelled. It fetches once up front so a
// view never starts on an empty snapshot when the store is reachable.
func (p *Poller) Run(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		log.Printf("[poll] initial fetch failed: %v", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				log.Printf("[poll] fetch failed: %v", err)
			}
		}
	}
}

// Refresh forces an immediate re-fetch. A view calls it right after issuing
// a mutation instead of locally assuming the write's new state.
func (p *Poller) Refresh(ctx context.Context) error {
	orders, err := p.fetch(ctx)
	if err != nil {
		// Keep the previous snapshot; stale beats fabricated.
		return err
	}

	p.mu.Lock()
	p.snapshot = orders
	p.mu.Unlock()
	return nil
}

// Snapshot returns the view's current local copy.
func (p *Poller) Snapshot() []domain.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()

	orders := make([]domain.Order, len(p.snapshot))
	copy(orders, p.snapshot)
	return orders
}

// Interval is the staleness window of this view.
func (p *Poller) Interval() time.Duration {
	return p.interval
}
