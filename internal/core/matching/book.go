package order_matching

import (
	"fmt"

	cache "github.com/patrickmn/go-cache"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// Book is the complete two-sided order book: bid and ask ladders plus
// a central id→order store (active and historical orders alike) and
// the three monotonic counters a book owns.
//
// The historical store is a github.com/patrickmn/go-cache instance
// with no expiration rather than a bare map: GetOrder/ContainsOrder
// are cache reads, and ClearTerminalOrders (behind the exchange's
// ClearOrderHistory, §4.9) is a bounded sweep deleting every terminal
// entry, which the cache's Items()/Delete pair gives for free.
type Book struct {
	Bids *Ladder
	Asks *Ladder

	orders *cache.Cache

	nextOrderID types.OrderId
	nextTradeID types.TradeId
	nextTS      types.Timestamp
}

// NewBook creates an empty book with counters starting at 1, matching
// the original implementation's convention (id 0 is never assigned,
// so callers can use it as a "no order" sentinel if they choose to).
func NewBook() *Book {
	return &Book{
		Bids:        NewLadder(types.Buy),
		Asks:        NewLadder(types.Sell),
		orders:      cache.New(cache.NoExpiration, cache.NoExpiration),
		nextOrderID: 1,
		nextTradeID: 1,
		nextTS:      1,
	}
}

// NextOrderID returns and consumes the next order id.
func (b *Book) NextOrderID() types.OrderId {
	id := b.nextOrderID
	b.nextOrderID++
	return id
}

// NextTradeID returns and consumes the next trade id.
func (b *Book) NextTradeID() types.TradeId {
	id := b.nextTradeID
	b.nextTradeID++
	return id
}

// NextTimestamp returns and consumes the next logical timestamp.
func (b *Book) NextTimestamp() types.Timestamp {
	ts := b.nextTS
	b.nextTS++
	return ts
}

// PeekNextOrderID reports what NextOrderID would return without
// consuming it.
func (b *Book) PeekNextOrderID() types.OrderId {
	return b.nextOrderID
}

// CurrentTimestamp returns the most recently issued logical timestamp,
// or zero if none has been issued yet.
func (b *Book) CurrentTimestamp() types.Timestamp {
	if b.nextTS <= 1 {
		return 0
	}
	return b.nextTS - 1
}

// GetOrder returns an order by id, including historical (terminal)
// orders.
func (b *Book) GetOrder(id types.OrderId) (*types.Order, bool) {
	v, ok := b.orders.Get(orderKey(id))
	if !ok {
		return nil, false
	}
	return v.(*types.Order), true
}

// ContainsOrder reports whether an order with id is stored in the
// central index: active, or terminal and not yet removed by
// ClearTerminalOrders. Ids handed out by NextOrderID for orders never
// stored here (such as stop orders) are not contained.
func (b *Book) ContainsOrder(id types.OrderId) bool {
	_, ok := b.orders.Get(orderKey(id))
	return ok
}

// OrderCount returns the total number of orders ever stored, active or
// historical.
func (b *Book) OrderCount() int {
	return b.orders.ItemCount()
}

// ActiveOrderCount returns the number of orders still active (on the
// book or otherwise not terminal).
func (b *Book) ActiveOrderCount() int {
	n := 0
	for _, item := range b.orders.Items() {
		if item.Object.(*types.Order).IsActive() {
			n++
		}
	}
	return n
}

// ClearTerminalOrders removes every terminal (filled or cancelled)
// order from the historical index, keeping only active ones, and
// returns the count removed.
func (b *Book) ClearTerminalOrders() int {
	n := 0
	for key, item := range b.orders.Items() {
		if item.Object.(*types.Order).Status.IsTerminal() {
			b.orders.Delete(key)
			n++
		}
	}
	return n
}

// Side returns the ladder for side.
func (b *Book) Side(side types.Side) *Ladder {
	if side == types.Buy {
		return b.Bids
	}
	return b.Asks
}

// OppositeSide returns the ladder opposite side.
func (b *Book) OppositeSide(side types.Side) *Ladder {
	return b.Side(side.Opposite())
}

// BestBid returns the best resting bid price.
func (b *Book) BestBid() (types.Price, bool) { return b.Bids.BestPrice() }

// BestAsk returns the best resting ask price.
func (b *Book) BestAsk() (types.Price, bool) { return b.Asks.BestPrice() }

// Spread returns ask - bid, if both sides have resting orders.
func (b *Book) Spread() (int64, bool) {
	bid, okb := b.BestBid()
	ask, oka := b.BestAsk()
	if !okb || !oka {
		return 0, false
	}
	return int64(ask) - int64(bid), true
}

// IsCrossed reports whether the best bid is at or above the best ask.
// This must be false after any submit/cancel/modify completes.
func (b *Book) IsCrossed() bool {
	bid, okb := b.BestBid()
	ask, oka := b.BestAsk()
	if !okb || !oka {
		return false
	}
	return bid >= ask
}

// AddOrder stores order in the central index and inserts it into the
// appropriate ladder.
//
// AddOrder panics if order.ID was already assigned in this book: that
// can only happen if a caller bypassed NextOrderID, which is always a
// programming error in this library's own code.
func (b *Book) AddOrder(order *types.Order) {
	if b.ContainsOrder(order.ID) {
		panic(fmt.Sprintf("order %s already exists", order.ID))
	}
	b.orders.Set(orderKey(order.ID), order, cache.NoExpiration)
	b.Side(order.Side).InsertOrder(order.Price, order.ID, order.RemainingQuantity)
}

// StoreOrder records order in the historical index without inserting
// it into either ladder. Used for orders that never rest: fully
// filled on arrival, or IOC/FOK with a cancelled remainder.
//
// StoreOrder panics if order.ID was already assigned, for the same
// reason AddOrder does.
func (b *Book) StoreOrder(order *types.Order) {
	if b.ContainsOrder(order.ID) {
		panic(fmt.Sprintf("order %s already exists", order.ID))
	}
	b.orders.Set(orderKey(order.ID), order, cache.NoExpiration)
}

// CancelOrder cancels an active order, removing it from its ladder and
// returning the quantity that was cancelled. Returns false if the
// order is unknown or already terminal.
func (b *Book) CancelOrder(id types.OrderId) (types.Quantity, bool) {
	order, ok := b.GetOrder(id)
	if !ok || !order.IsActive() {
		return 0, false
	}
	side, price, remaining := order.Side, order.Price, order.RemainingQuantity
	order.Cancel()
	b.Side(side).RemoveOrder(price, id, remaining)
	return remaining, true
}

// CreateOrder allocates a fresh id and timestamp and builds an Order,
// without inserting it into the book — callers use AddOrder separately
// so that FOK feasibility can be checked against a still-unmodified
// book before the order (if any) is admitted.
func (b *Book) CreateOrder(side types.Side, price types.Price, qty types.Quantity, tif types.TimeInForce) *types.Order {
	id := b.NextOrderID()
	ts := b.NextTimestamp()
	return types.NewOrder(id, side, price, qty, ts, tif)
}

func orderKey(id types.OrderId) string {
	return fmt.Sprintf("%d", uint64(id))
}
