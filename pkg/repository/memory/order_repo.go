package memory

import (
	"context"
	"sync"

	"github.com/artem13815/resumepay/pkg/order"
)

var _ order.Store = (*OrderRepository)(nil)

// OrderRepository keeps orders in a map. Used by tests and STORE=memory;
// nothing survives a restart.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]order.Order)}
}

func (r *OrderRepository) Get(_ context.Context, id string) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	o.Data = o.Data.Clone()
	return o, nil
}

func (r *OrderRepository) Insert(_ context.Context, o order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID]; exists {
		return order.ErrAlreadyExists
	}
	o.Data = o.Data.Clone()
	r.orders[o.ID] = o
	return nil
}

func (r *OrderRepository) UpdateIf(_ context.Context, id string, cond order.Condition, p order.Patch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || !cond.Holds(o) {
		return false, nil
	}
	p.Apply(&o)
	r.orders[id] = o
	return true, nil
}

// Len returns the number of stored orders.
func (r *OrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
