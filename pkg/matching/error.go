package matching

import (
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// ValidationError is returned by the validated Try* submission entry
// points for input that fails a precondition cheap enough to check
// before touching the book.
type ValidationError struct {
	reason string
}

var (
	// ErrZeroQuantity means quantity must be greater than zero.
	ErrZeroQuantity = &ValidationError{reason: "quantity must be greater than zero"}
	// ErrZeroPrice means price must be greater than zero for limit
	// orders.
	ErrZeroPrice = &ValidationError{reason: "price must be greater than zero"}
)

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.reason }

// Is supports errors.Is comparison against the ErrZero* sentinels.
func (e *ValidationError) Is(target error) bool {
	other, ok := target.(*ValidationError)
	return ok && other == e
}

// TrySubmitLimit validates quantity and price before submitting, and
// returns a *ValidationError instead of panicking or silently admitting
// a degenerate order.
func (e *Exchange) TrySubmitLimit(side types.Side, price types.Price, qty types.Quantity, tif types.TimeInForce) (SubmitResult, error) {
	if qty <= 0 {
		return SubmitResult{}, ErrZeroQuantity
	}
	if price <= 0 {
		return SubmitResult{}, ErrZeroPrice
	}
	return e.SubmitLimit(side, price, qty, tif), nil
}

// TrySubmitMarket validates quantity before submitting.
func (e *Exchange) TrySubmitMarket(side types.Side, qty types.Quantity) (SubmitResult, error) {
	if qty <= 0 {
		return SubmitResult{}, ErrZeroQuantity
	}
	return e.SubmitMarket(side, qty), nil
}
