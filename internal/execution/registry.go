package execution

import (
	"sort"
	"sync"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

// Registry is the in-memory mapping of known orders to their last-observed
// state. Entries are created on successful submission, updated on status
// refresh and cancellation, and never deleted: terminal orders remain
// queryable for the session lifetime.
//
// All mutations are applied atomically per order id; a concurrent refresh
// and cancel on the same id serialize on the registry lock, so an entry
// can never be observed half-updated.
type Registry struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewRegistry() *Registry {
	return &Registry{orders: make(map[string]domain.Order)}
}

// Insert creates (or replaces) the entry for a freshly acknowledged order.
func (r *Registry) Insert(o domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
}

// Get returns a copy of the entry for id.
func (r *Registry) Get(id string) (domain.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	return o, ok
}

// Len returns the number of tracked orders.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

// Snapshot returns a copy of every tracked order, oldest first.
func (r *Registry) Snapshot() []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Refresh applies a freshly observed exchange state to the entry for
// observed.ID. Unknown ids are inserted (supports operator-provided ids
// from a prior session). A transition the state machine forbids leaves the
// entry untouched and returns ErrInvalidStateTransition.
//
// The stored order and whether anything changed are returned. An identical
// observation is a no-op, so repeated status queries with no intervening
// exchange activity yield identical values.
func (r *Registry) Refresh(observed domain.Order) (domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.orders[observed.ID]
	if !ok {
		r.orders[observed.ID] = observed
		return observed, true, nil
	}

	if !domain.CanTransition(cur.Status, observed.Status) {
		return cur, false, ErrInvalidStateTransition
	}

	merged := observed
	if merged.ClientOrderID == "" {
		merged.ClientOrderID = cur.ClientOrderID
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = cur.CreatedAt
	}

	if ordersEqual(cur, merged) {
		return cur, false, nil
	}

	r.orders[observed.ID] = merged
	return merged, true, nil
}

func ordersEqual(a, b domain.Order) bool {
	return a.ID == b.ID &&
		a.ClientOrderID == b.ClientOrderID &&
		a.Symbol == b.Symbol &&
		a.Side == b.Side &&
		a.Type == b.Type &&
		a.Status == b.Status &&
		a.Quantity.Equal(b.Quantity) &&
		a.ExecutedQty.Equal(b.ExecutedQty) &&
		a.LimitPrice.Equal(b.LimitPrice) &&
		a.StopPrice.Equal(b.StopPrice) &&
		a.AvgFillPrice.Equal(b.AvgFillPrice) &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.LastUpdatedAt.Equal(b.LastUpdatedAt)
}
