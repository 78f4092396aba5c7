package order_matching

import "github.com/abdoElHodaky/nanobook/pkg/types"

// MatchResult is the outcome of crossing an incoming order against the
// book: every trade produced, in execution order, and whatever quantity
// was left over once no further cross was possible.
type MatchResult struct {
	Trades            []types.Trade
	RemainingQuantity types.Quantity
}

// FilledQuantity sums the quantity across every trade in the result.
func (r MatchResult) FilledQuantity() types.Quantity {
	var total types.Quantity
	for _, t := range r.Trades {
		total += t.Quantity
	}
	return total
}

// IsFullyFilled reports whether nothing was left over.
func (r MatchResult) IsFullyFilled() bool { return r.RemainingQuantity == 0 }

// IsEmpty reports whether no trades occurred at all.
func (r MatchResult) IsEmpty() bool { return len(r.Trades) == 0 }

// pricesCross reports whether an incoming order at incomingPrice would
// cross a resting order at restingPrice: a buy crosses if its price is
// at or above the resting ask; a sell crosses if its price is at or
// below the resting bid.
func pricesCross(incomingSide types.Side, incomingPrice, restingPrice types.Price) bool {
	if incomingSide == types.Buy {
		return incomingPrice >= restingPrice
	}
	return incomingPrice <= restingPrice
}

// MatchOrder crosses incoming against the opposite side of the book in
// price-time priority: best prices first, FIFO within a price, trades
// executing at the resting order's price. incoming is mutated in place
// (its RemainingQuantity/FilledQuantity/Status reflect every fill), as
// are any resting orders it fills against. incoming itself is never
// added to the book — the caller decides whether to rest the remainder
// based on its time-in-force.
func (b *Book) MatchOrder(incoming *types.Order) MatchResult {
	result := MatchResult{RemainingQuantity: incoming.RemainingQuantity}

	for incoming.RemainingQuantity > 0 {
		opposite := b.OppositeSide(incoming.Side)
		bestPrice, ok := opposite.BestPrice()
		if !ok {
			break // no liquidity
		}
		if !pricesCross(incoming.Side, incoming.Price, bestPrice) {
			break // best opposite price no longer crosses
		}
		b.matchAtPrice(incoming, bestPrice, &result)
	}

	result.RemainingQuantity = incoming.RemainingQuantity
	return result
}

// matchAtPrice fills incoming against resting orders at price, in FIFO
// order, until the level is exhausted or incoming is filled.
func (b *Book) matchAtPrice(incoming *types.Order, price types.Price, result *MatchResult) {
	for incoming.RemainingQuantity > 0 {
		opposite := b.OppositeSide(incoming.Side)
		level := opposite.GetLevel(price)
		if level == nil {
			return
		}
		restingID, ok := level.Front()
		if !ok {
			return // level exhausted
		}

		resting, ok := b.GetOrder(restingID)
		if !ok {
			// Orphaned id in the level — shouldn't happen, but drop it
			// and keep going rather than wedge the sweep.
			level.PopFront(0)
			continue
		}

		fillQty := incoming.RemainingQuantity
		if resting.RemainingQuantity < fillQty {
			fillQty = resting.RemainingQuantity
		}

		trade := types.NewTrade(b.NextTradeID(), price, fillQty, incoming.ID, restingID, incoming.Side, b.NextTimestamp())
		result.Trades = append(result.Trades, trade)

		incoming.Fill(fillQty)
		resting.Fill(fillQty)

		if resting.Status == types.Filled {
			level.PopFront(fillQty)
			if level.IsEmpty() {
				opposite.RemoveLevel(price)
			}
		} else {
			level.DecreaseQuantity(fillQty)
		}
	}
}

// AvailableToFill reports the quantity resting on the opposite side of
// side at prices that would cross with price: the feasibility check
// behind fill-or-kill.
func (b *Book) AvailableToFill(side types.Side, price types.Price) types.Quantity {
	return b.OppositeSide(side).QuantityAtOrBetter(price)
}

// CanFullyFill reports whether an order for side/price/quantity could
// be filled completely against the current book.
func (b *Book) CanFullyFill(side types.Side, price types.Price, qty types.Quantity) bool {
	return b.AvailableToFill(side, price) >= qty
}
