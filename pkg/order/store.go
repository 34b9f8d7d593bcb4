package order

import (
	"context"
	"time"
)

// Condition is the predicate a conditional update is guarded by.
type Condition int

const (
	Always Condition = iota
	Unpaid           // paid = false
)

// Patch lists the mutable fields of an order. Nil fields are left as is.
type Patch struct {
	Paid             *bool
	PaymentStatus    *string
	PaymentProvider  *string
	PaymentSessionID *string
	UpdatedAt        time.Time
}

// Store is the order persistence port.
//
// UpdateIf must apply the patch atomically and only when the order exists and
// cond holds; it reports whether a row was changed. This is the only mechanism
// that serializes concurrent confirmations.
type Store interface {
	Get(ctx context.Context, id string) (Order, error)
	Insert(ctx context.Context, o Order) error
	UpdateIf(ctx context.Context, id string, cond Condition, p Patch) (bool, error)
}

// Apply copies the set fields of p onto o. Store implementations without a
// query language use it to share patch semantics.
func (p Patch) Apply(o *Order) {
	if p.Paid != nil {
		o.Paid = *p.Paid
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentProvider != nil {
		o.PaymentProvider = *p.PaymentProvider
	}
	if p.PaymentSessionID != nil {
		o.PaymentSessionID = *p.PaymentSessionID
	}
	if !p.UpdatedAt.IsZero() {
		o.UpdatedAt = p.UpdatedAt
	}
}

// Holds reports whether o satisfies c.
func (c Condition) Holds(o Order) bool {
	switch c {
	case Unpaid:
		return !o.Paid
	default:
		return true
	}
}
