package types

import "fmt"

// Order is the per-order mutable state the book tracks from submission
// to a terminal status. The invariant OriginalQuantity == Remaining +
// Filled holds until the order is cancelled; Cancel zeroes Remaining
// without adding to Filled.
type Order struct {
	ID                OrderId
	Side              Side
	Price             Price
	OriginalQuantity  Quantity
	RemainingQuantity Quantity
	FilledQuantity    Quantity
	Timestamp         Timestamp
	TimeInForce       TimeInForce
	Status            OrderStatus
}

// NewOrder creates an order in its initial New status: remaining equal
// to the full quantity, nothing filled.
func NewOrder(id OrderId, side Side, price Price, qty Quantity, ts Timestamp, tif TimeInForce) *Order {
	return &Order{
		ID:                id,
		Side:              side,
		Price:             price,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		Timestamp:         ts,
		TimeInForce:       tif,
		Status:            New,
	}
}

// IsActive reports whether the order can still be filled or cancelled.
func (o *Order) IsActive() bool {
	return o.Status.IsActive()
}

// Fill reduces the order's remaining quantity and advances its status
// to PartiallyFilled or Filled.
//
// Fill is a programming error, not a domain error, to call with a
// quantity exceeding what remains: the matching engine computes fills
// as min(aggressor_remaining, resting_remaining), so a caller that
// triggers this panic has a bug, not bad input.
func (o *Order) Fill(qty Quantity) {
	if qty > o.RemainingQuantity {
		panic(fmt.Sprintf("order %s: fill quantity %d exceeds remaining %d", o.ID, qty, o.RemainingQuantity))
	}
	o.RemainingQuantity -= qty
	o.FilledQuantity += qty
	if o.RemainingQuantity == 0 {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Cancel transitions the order to Cancelled and returns the quantity
// that was outstanding at the time of cancellation.
//
// Cancel panics if the order is already terminal; the exchange façade
// guards every caller-facing cancel path with an IsActive check first,
// so reaching this panic means an internal caller skipped that guard.
func (o *Order) Cancel() Quantity {
	if !o.IsActive() {
		panic(fmt.Sprintf("order %s: cannot cancel order in terminal state %s", o.ID, o.Status))
	}
	cancelled := o.RemainingQuantity
	o.RemainingQuantity = 0
	o.Status = Cancelled
	return cancelled
}
