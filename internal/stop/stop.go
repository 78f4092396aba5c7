// Package stop implements the conditional stop-order book: orders that
// rest off the main book and are admitted as fresh submissions once the
// last trade price reaches their trigger.
package stop

import (
	"sort"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// Status is the lifecycle state of a stop order.
type Status uint8

const (
	// Pending means the trigger has not yet been reached.
	Pending Status = iota
	// Triggered means the stop price was reached and the order has been
	// submitted to the main book.
	Triggered
	// Cancelled means the stop was withdrawn before triggering.
	Cancelled
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Triggered:
		return "Triggered"
	case Cancelled:
		return "Cancelled"
	default:
		return "unknown"
	}
}

// Order is a conditional order waiting for its trigger price. A nil
// LimitPrice means stop-market; a set LimitPrice means stop-limit.
type Order struct {
	ID          types.OrderId
	Side        types.Side
	StopPrice   types.Price
	LimitPrice  *types.Price
	Quantity    types.Quantity
	TimeInForce types.TimeInForce
	Timestamp   types.Timestamp
	Status      Status
}

// Book holds pending stop orders indexed by trigger price on each side,
// plus the full by-id index (pending, triggered, and cancelled alike,
// until ClearHistory runs). Buy stops trigger when the last trade price
// rises to or through their stop price; sell stops trigger when it
// falls to or through theirs.
type Book struct {
	buyPrices  []types.Price // ascending
	buyStops   map[types.Price][]types.OrderId
	sellPrices []types.Price // ascending
	sellStops  map[types.Price][]types.OrderId
	orders     map[types.OrderId]*Order
}

// NewBook creates an empty stop book.
func NewBook() *Book {
	return &Book{
		buyStops:  make(map[types.Price][]types.OrderId),
		sellStops: make(map[types.Price][]types.OrderId),
		orders:    make(map[types.OrderId]*Order),
	}
}

func insertSortedPrice(prices []types.Price, price types.Price) ([]types.Price, bool) {
	i := sort.Search(len(prices), func(i int) bool { return prices[i] >= price })
	if i < len(prices) && prices[i] == price {
		return prices, false
	}
	prices = append(prices, 0)
	copy(prices[i+1:], prices[i:])
	prices[i] = price
	return prices, true
}

func removeSortedPrice(prices []types.Price, price types.Price) []types.Price {
	i := sort.Search(len(prices), func(i int) bool { return prices[i] >= price })
	if i < len(prices) && prices[i] == price {
		return append(prices[:i], prices[i+1:]...)
	}
	return prices
}

// Insert admits order into the book as pending.
func (b *Book) Insert(order *Order) {
	switch order.Side {
	case types.Buy:
		var created bool
		b.buyPrices, created = insertSortedPrice(b.buyPrices, order.StopPrice)
		_ = created
		b.buyStops[order.StopPrice] = append(b.buyStops[order.StopPrice], order.ID)
	case types.Sell:
		var created bool
		b.sellPrices, created = insertSortedPrice(b.sellPrices, order.StopPrice)
		_ = created
		b.sellStops[order.StopPrice] = append(b.sellStops[order.StopPrice], order.ID)
	}
	b.orders[order.ID] = order
}

// Cancel withdraws a pending stop order. Returns false if it was not
// pending (unknown, already triggered, or already cancelled).
func (b *Book) Cancel(id types.OrderId) bool {
	order, ok := b.orders[id]
	if !ok || order.Status != Pending {
		return false
	}
	order.Status = Cancelled

	var ids map[types.Price][]types.OrderId
	if order.Side == types.Buy {
		ids = b.buyStops
	} else {
		ids = b.sellStops
	}
	remaining := ids[order.StopPrice]
	for i, oid := range remaining {
		if oid == id {
			remaining = append(remaining[:i], remaining[i+1:]...)
			break
		}
	}
	if len(remaining) == 0 {
		delete(ids, order.StopPrice)
		if order.Side == types.Buy {
			b.buyPrices = removeSortedPrice(b.buyPrices, order.StopPrice)
		} else {
			b.sellPrices = removeSortedPrice(b.sellPrices, order.StopPrice)
		}
	} else {
		ids[order.StopPrice] = remaining
	}
	return true
}

// UpdateTriggerPrice re-prices a pending trailing stop as its watermark
// moves, removing it from its old price slot and reinserting at
// newPrice. Returns false if id is not a currently pending stop.
func (b *Book) UpdateTriggerPrice(id types.OrderId, newPrice types.Price) bool {
	order, ok := b.orders[id]
	if !ok || order.Status != Pending {
		return false
	}
	if order.StopPrice == newPrice {
		return true
	}

	var prices []types.Price
	var ids map[types.Price][]types.OrderId
	if order.Side == types.Buy {
		ids = b.buyStops
	} else {
		ids = b.sellStops
	}
	remaining := ids[order.StopPrice]
	for i, oid := range remaining {
		if oid == id {
			remaining = append(remaining[:i], remaining[i+1:]...)
			break
		}
	}
	if len(remaining) == 0 {
		delete(ids, order.StopPrice)
		if order.Side == types.Buy {
			b.buyPrices = removeSortedPrice(b.buyPrices, order.StopPrice)
		} else {
			b.sellPrices = removeSortedPrice(b.sellPrices, order.StopPrice)
		}
	} else {
		ids[order.StopPrice] = remaining
	}

	order.StopPrice = newPrice
	if order.Side == types.Buy {
		prices, _ = insertSortedPrice(b.buyPrices, newPrice)
		b.buyPrices = prices
	} else {
		prices, _ = insertSortedPrice(b.sellPrices, newPrice)
		b.sellPrices = prices
	}
	ids[newPrice] = append(ids[newPrice], id)
	return true
}

// CollectTriggered removes and returns every pending stop order whose
// trigger condition is satisfied by a trade at tradePrice: buy stops
// with StopPrice <= tradePrice, sell stops with StopPrice >= tradePrice.
// The result is ordered by submission timestamp across both sides,
// giving deterministic FIFO admission regardless of which side
// triggered first.
func (b *Book) CollectTriggered(tradePrice types.Price) []*Order {
	var triggered []*Order

	buyIdx := sort.Search(len(b.buyPrices), func(i int) bool { return b.buyPrices[i] > tradePrice })
	buyKeys := append([]types.Price(nil), b.buyPrices[:buyIdx]...)
	b.buyPrices = b.buyPrices[buyIdx:]
	for _, price := range buyKeys {
		for _, id := range b.buyStops[price] {
			if o := b.orders[id]; o != nil && o.Status == Pending {
				o.Status = Triggered
				triggered = append(triggered, o)
			}
		}
		delete(b.buyStops, price)
	}

	sellIdx := sort.Search(len(b.sellPrices), func(i int) bool { return b.sellPrices[i] >= tradePrice })
	sellKeys := append([]types.Price(nil), b.sellPrices[sellIdx:]...)
	b.sellPrices = b.sellPrices[:sellIdx]
	for _, price := range sellKeys {
		for _, id := range b.sellStops[price] {
			if o := b.orders[id]; o != nil && o.Status == Pending {
				o.Status = Triggered
				triggered = append(triggered, o)
			}
		}
		delete(b.sellStops, price)
	}

	sort.SliceStable(triggered, func(i, j int) bool { return triggered[i].Timestamp < triggered[j].Timestamp })
	return triggered
}

// Get returns a stop order by id, regardless of status.
func (b *Book) Get(id types.OrderId) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// IsEmpty reports whether no stop orders are pending.
func (b *Book) IsEmpty() bool {
	return len(b.buyPrices) == 0 && len(b.sellPrices) == 0
}

// PendingCount returns the number of pending stop orders.
func (b *Book) PendingCount() int {
	n := 0
	for _, ids := range b.buyStops {
		n += len(ids)
	}
	for _, ids := range b.sellStops {
		n += len(ids)
	}
	return n
}

// ClearHistory drops every triggered or cancelled order from the by-id
// index, keeping only pending ones. This bounds the memory a long
// backtest run accumulates in stop order history.
func (b *Book) ClearHistory() {
	for id, o := range b.orders {
		if o.Status != Pending {
			delete(b.orders, id)
		}
	}
}

// ContainsPending reports whether id names a currently pending stop
// order.
func (b *Book) ContainsPending(id types.OrderId) bool {
	o, ok := b.orders[id]
	return ok && o.Status == Pending
}
