// Package types defines the value types shared by the order book, the
// matching engine, and the exchange façade: prices, quantities, ids,
// timestamps, symbols, and the small enums (Side, TimeInForce,
// OrderStatus) that describe an order's life.
package types

import (
	"fmt"
	"math"
)

// Price is an integer tick value in hundredths of a dollar. Prices are
// ordered; MaxPrice and MinPrice are sentinels used to translate market
// orders into marketable limit orders.
type Price int64

const (
	// MaxPrice is the sentinel used for a marketable buy (a buy that
	// must cross any resting ask).
	MaxPrice Price = math.MaxInt64
	// MinPrice is the sentinel used for a marketable sell.
	MinPrice Price = math.MinInt64
)

// String renders the price in the $d.cc display convention. Display is
// not part of the core's contract; callers that need locale-aware or
// currency-aware formatting should not rely on this method.
func (p Price) String() string {
	if p == MaxPrice {
		return "MAX"
	}
	if p == MinPrice {
		return "MIN"
	}
	neg := ""
	v := int64(p)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", neg, v/100, v%100)
}

// Quantity is an unsigned count of units (shares/contracts). Zero is
// never a legal submitted quantity.
type Quantity uint64

// OrderId is a monotonically increasing identifier assigned by a book.
// Ids are never reused, even after cancellation.
type OrderId uint64

// String renders the id the way the original book's Display impl does,
// "O<n>", which shows up in log lines and in trade/order string forms.
func (id OrderId) String() string {
	return fmt.Sprintf("O%d", uint64(id))
}

// TradeId is a monotonically increasing identifier assigned to each
// trade by the book that produced it.
type TradeId uint64

// String renders the id as "T<n>".
func (id TradeId) String() string {
	return fmt.Sprintf("T%d", uint64(id))
}

// Timestamp is a logical clock: a monotonically increasing counter
// advanced independently of wall time and assigned to every order at
// submission and every trade at creation.
type Timestamp uint64

// symbolMaxLen bounds a Symbol to 8 bytes, matching the fixed-width,
// cheap-to-hash, Copy-able identifier the spec requires.
const symbolMaxLen = 8

// Symbol is a fixed-width identifier of at most 8 bytes. The core never
// interprets a symbol's contents; it exists so the multi-symbol façade
// has a cheap, comparable map key.
type Symbol struct {
	bytes [symbolMaxLen]byte
	n     uint8
}

// NewSymbol truncates s to the first 8 bytes. Longer inputs are a
// caller error in practice, but truncating rather than panicking keeps
// this constructor usable from data that wasn't pre-validated (e.g. a
// persisted event log written by a different build).
func NewSymbol(s string) Symbol {
	var sym Symbol
	n := len(s)
	if n > symbolMaxLen {
		n = symbolMaxLen
	}
	copy(sym.bytes[:], s[:n])
	sym.n = uint8(n)
	return sym
}

// String returns the symbol's text.
func (s Symbol) String() string {
	return string(s.bytes[:s.n])
}
