// Package order_matching implements the two-sided price-level book and
// the matching algorithm that crosses an incoming order against it.
//
// The ladder backing each side is a sorted price slice rather than the
// heap the rest of this codebase otherwise reaches for: a heap only
// gives O(1) access to the single best price, but FOK feasibility needs
// a range-sum over every level at or better than a price, and sweeps
// need best-to-worst iteration. A sorted slice gives both directly
// (binary search finds a price's position in O(log n); inserting or
// removing a level shifts the slice, which is linear) without pulling
// in a generic ordered-map dependency the retrieved stack doesn't have.
package order_matching

import (
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// Level is a FIFO queue of order ids resting at a single price, plus
// the cached sum of their remaining quantities.
type Level struct {
	price  types.Price
	orders []types.OrderId
	total  types.Quantity
}

// NewLevel creates an empty level at price.
func NewLevel(price types.Price) *Level {
	return &Level{price: price}
}

// Price returns the level's price.
func (l *Level) Price() types.Price { return l.price }

// IsEmpty reports whether the level has no resting orders.
func (l *Level) IsEmpty() bool { return len(l.orders) == 0 }

// OrderCount returns the number of resting order ids.
func (l *Level) OrderCount() int { return len(l.orders) }

// TotalQuantity returns the cached sum of remaining quantities.
func (l *Level) TotalQuantity() types.Quantity { return l.total }

// Front returns the id at the head of the queue, and false if empty.
func (l *Level) Front() (types.OrderId, bool) {
	if len(l.orders) == 0 {
		return 0, false
	}
	return l.orders[0], true
}

// PushBack enqueues id at the tail and adds qty to the cached total.
func (l *Level) PushBack(id types.OrderId, qty types.Quantity) {
	l.orders = append(l.orders, id)
	l.total += qty
}

// PopFront dequeues the head id and subtracts qty from the cached
// total, saturating at zero. Returns false if the level was empty.
func (l *Level) PopFront(qty types.Quantity) (types.OrderId, bool) {
	if len(l.orders) == 0 {
		return 0, false
	}
	id := l.orders[0]
	l.orders = l.orders[1:]
	l.subtract(qty)
	return id, true
}

// Remove deletes id from anywhere in the queue (used by cancellation)
// and subtracts qty from the cached total. Returns false if id was not
// present.
func (l *Level) Remove(id types.OrderId, qty types.Quantity) bool {
	for i, oid := range l.orders {
		if oid == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			l.subtract(qty)
			return true
		}
	}
	return false
}

// DecreaseQuantity adjusts the cached total for a partial fill that
// left the head order in the queue.
func (l *Level) DecreaseQuantity(amount types.Quantity) {
	l.subtract(amount)
}

func (l *Level) subtract(amount types.Quantity) {
	if amount >= l.total {
		l.total = 0
		return
	}
	l.total -= amount
}

// Orders returns the resting ids in FIFO order. The returned slice is
// owned by the caller; mutating it does not affect the level.
func (l *Level) Orders() []types.OrderId {
	out := make([]types.OrderId, len(l.orders))
	copy(out, l.orders)
	return out
}
