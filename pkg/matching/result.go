// Package matching is the exchange façade: the public surface wrapping
// the order book, matching engine, and stop book with time-in-force
// handling, event logging, and persistence.
package matching

import (
	"github.com/abdoElHodaky/nanobook/internal/stop"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// SubmitResult is returned by SubmitLimit/SubmitMarket/TrySubmitLimit/
// TrySubmitMarket.
type SubmitResult struct {
	OrderID           types.OrderId
	Status            types.OrderStatus
	Trades            []types.Trade
	FilledQuantity    types.Quantity
	RestingQuantity   types.Quantity
	CancelledQuantity types.Quantity
}

// HasTrades reports whether any trades occurred.
func (r SubmitResult) HasTrades() bool { return len(r.Trades) > 0 }

// IsResting reports whether the order is resting on the book.
func (r SubmitResult) IsResting() bool { return r.RestingQuantity > 0 }

// IsFullyFilled reports whether the order reached Filled status.
func (r SubmitResult) IsFullyFilled() bool { return r.Status == types.Filled }

// CancelError enumerates why a cancel failed.
type CancelError uint8

const (
	// CancelOrderNotFound means no order or stop order with the id is
	// stored (never assigned, or dropped by ClearOrderHistory).
	CancelOrderNotFound CancelError = iota
	// CancelOrderNotActive means the order exists but is already
	// terminal (filled or cancelled).
	CancelOrderNotActive
)

// String implements fmt.Stringer.
func (e CancelError) String() string {
	switch e {
	case CancelOrderNotFound:
		return "OrderNotFound"
	case CancelOrderNotActive:
		return "OrderNotActive"
	default:
		return "unknown"
	}
}

// CancelResult is returned by Cancel.
type CancelResult struct {
	Success           bool
	CancelledQuantity types.Quantity
	Error             *CancelError
}

func cancelSuccess(qty types.Quantity) CancelResult {
	return CancelResult{Success: true, CancelledQuantity: qty}
}

func cancelFailure(err CancelError) CancelResult {
	return CancelResult{Error: &err}
}

// ModifyError enumerates why a modify failed.
type ModifyError uint8

const (
	// ModifyOrderNotFound means no order with the id is stored (never
	// assigned, or dropped by ClearOrderHistory).
	ModifyOrderNotFound ModifyError = iota
	// ModifyOrderNotActive means the order exists but is terminal.
	ModifyOrderNotActive
	// ModifyInvalidQuantity means the new quantity was zero.
	ModifyInvalidQuantity
)

// String implements fmt.Stringer.
func (e ModifyError) String() string {
	switch e {
	case ModifyOrderNotFound:
		return "OrderNotFound"
	case ModifyOrderNotActive:
		return "OrderNotActive"
	case ModifyInvalidQuantity:
		return "InvalidQuantity"
	default:
		return "unknown"
	}
}

// ModifyResult is returned by Modify. The old order is always
// identified; the new order id and any resulting trades are only
// populated on success.
type ModifyResult struct {
	Success           bool
	OldOrderID        types.OrderId
	NewOrderID        *types.OrderId
	CancelledQuantity types.Quantity
	Trades            []types.Trade
	Error             *ModifyError
}

func modifySuccess(oldID, newID types.OrderId, cancelled types.Quantity, trades []types.Trade) ModifyResult {
	return ModifyResult{
		Success:           true,
		OldOrderID:        oldID,
		NewOrderID:        &newID,
		CancelledQuantity: cancelled,
		Trades:            trades,
	}
}

func modifyFailure(oldID types.OrderId, err ModifyError) ModifyResult {
	return ModifyResult{OldOrderID: oldID, Error: &err}
}

// StopSubmitResult is returned by SubmitStopMarket/SubmitStopLimit/
// SubmitTrailingStop*.
type StopSubmitResult struct {
	OrderID types.OrderId
	Status  stop.Status
}
