package types

import "fmt"

// Trade is a completed execution between an aggressor (taker) order and
// a passive (maker) order resting on the book. The execution price is
// always the resting order's price: the aggressor receives price
// improvement whenever its limit was more generous than necessary.
type Trade struct {
	ID               TradeId
	Price            Price
	Quantity         Quantity
	AggressorOrderID OrderId
	PassiveOrderID   OrderId
	AggressorSide    Side
	Timestamp        Timestamp
}

// NewTrade creates a trade record.
func NewTrade(id TradeId, price Price, qty Quantity, aggressorID, passiveID OrderId, aggressorSide Side, ts Timestamp) Trade {
	return Trade{
		ID:               id,
		Price:            price,
		Quantity:         qty,
		AggressorOrderID: aggressorID,
		PassiveOrderID:   passiveID,
		AggressorSide:    aggressorSide,
		Timestamp:        ts,
	}
}

// PassiveSide returns the side of the passive (maker) order.
func (t Trade) PassiveSide() Side {
	return t.AggressorSide.Opposite()
}

// Notional returns the raw product of price units and quantity.
// Interpretation (e.g. dividing by 100 for cents) is left to the
// caller's price-unit convention.
func (t Trade) Notional() int64 {
	return int64(t.Price) * int64(t.Quantity)
}

// String renders the trade the way the original book's Display impl
// does: "T1: 100 bought @ $100.50 (O10 aggressor)".
func (t Trade) String() string {
	verb := "sold"
	if t.AggressorSide == Buy {
		verb = "bought"
	}
	return fmt.Sprintf("%s: %d %s @ %s (%s aggressor)", t.ID, t.Quantity, verb, t.Price, t.AggressorOrderID)
}
