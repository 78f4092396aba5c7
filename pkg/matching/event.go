package matching

import (
	"github.com/shopspring/decimal"

	"github.com/abdoElHodaky/nanobook/internal/stop"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// EventKind discriminates an Event's payload.
type EventKind uint8

const (
	EventSubmitLimit EventKind = iota
	EventSubmitMarket
	EventCancel
	EventModify
	EventSubmitStop
	EventSubmitTrailingStop
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventSubmitLimit:
		return "SubmitLimit"
	case EventSubmitMarket:
		return "SubmitMarket"
	case EventCancel:
		return "Cancel"
	case EventModify:
		return "Modify"
	case EventSubmitStop:
		return "SubmitStop"
	case EventSubmitTrailingStop:
		return "SubmitTrailingStop"
	default:
		return "unknown"
	}
}

// Event is a recorded input to the exchange. Events capture inputs, not
// outputs (trades are never recorded directly) — replaying the same
// events against a fresh exchange reproduces identical state. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	Side        types.Side
	Price       types.Price
	Quantity    types.Quantity
	TimeInForce types.TimeInForce
	OrderID     types.OrderId
	NewPrice    types.Price
	NewQuantity types.Quantity

	// Stop/trailing-stop payload. StopPrice is the plain stop trigger;
	// LimitPrice is nil for a stop-market. TrailMethod names which of
	// the trail-config fields below is populated for a trailing stop.
	StopPrice   types.Price
	LimitPrice  *types.Price
	TrailMethod stop.TrailMethod
	FixedOffset *types.Price
	Percentage  *decimal.Decimal
	AtrMultiple *decimal.Decimal
	AtrPeriod   int
}

// NewSubmitLimitEvent builds a SubmitLimit event.
func NewSubmitLimitEvent(side types.Side, price types.Price, qty types.Quantity, tif types.TimeInForce) Event {
	return Event{Kind: EventSubmitLimit, Side: side, Price: price, Quantity: qty, TimeInForce: tif}
}

// NewSubmitMarketEvent builds a SubmitMarket event.
func NewSubmitMarketEvent(side types.Side, qty types.Quantity) Event {
	return Event{Kind: EventSubmitMarket, Side: side, Quantity: qty}
}

// NewCancelEvent builds a Cancel event.
func NewCancelEvent(orderID types.OrderId) Event {
	return Event{Kind: EventCancel, OrderID: orderID}
}

// NewModifyEvent builds a Modify event.
func NewModifyEvent(orderID types.OrderId, newPrice types.Price, newQty types.Quantity) Event {
	return Event{Kind: EventModify, OrderID: orderID, NewPrice: newPrice, NewQuantity: newQty}
}

// NewSubmitStopEvent builds a SubmitStop event. A nil limitPrice means
// stop-market.
func NewSubmitStopEvent(side types.Side, stopPrice types.Price, limitPrice *types.Price, qty types.Quantity, tif types.TimeInForce) Event {
	return Event{
		Kind:        EventSubmitStop,
		Side:        side,
		StopPrice:   stopPrice,
		LimitPrice:  limitPrice,
		Quantity:    qty,
		TimeInForce: tif,
	}
}

// NewSubmitTrailingStopEvent builds a SubmitTrailingStop event from a
// trail configuration.
func NewSubmitTrailingStopEvent(side types.Side, qty types.Quantity, cfg stop.TrailConfig, method stop.TrailMethod) Event {
	return Event{
		Kind:        EventSubmitTrailingStop,
		Side:        side,
		Quantity:    qty,
		TrailMethod: method,
		FixedOffset: cfg.FixedOffset,
		Percentage:  cfg.Percentage,
		AtrMultiple: cfg.AtrMultiple,
		AtrPeriod:   cfg.AtrPeriod,
	}
}

func (e Event) trailConfig() stop.TrailConfig {
	return stop.TrailConfig{
		FixedOffset: e.FixedOffset,
		Percentage:  e.Percentage,
		AtrMultiple: e.AtrMultiple,
		AtrPeriod:   e.AtrPeriod,
	}
}

// ApplyResult reports the trades an applied event produced.
type ApplyResult struct {
	Trades []types.Trade
}

// Apply records event in the log and applies it through the internal
// (non-recording) methods, so replaying the log never double-records.
func (e *Exchange) Apply(event Event) ApplyResult {
	e.events = append(e.events, event)

	switch event.Kind {
	case EventSubmitLimit:
		result := e.submitLimitInternal(event.Side, event.Price, event.Quantity, event.TimeInForce)
		return ApplyResult{Trades: result.Trades}
	case EventSubmitMarket:
		price := marketTranslationPrice(event.Side)
		result := e.submitLimitInternal(event.Side, price, event.Quantity, types.IOC)
		return ApplyResult{Trades: result.Trades}
	case EventCancel:
		e.cancelInternal(event.OrderID)
		return ApplyResult{}
	case EventModify:
		result := e.modifyInternal(event.OrderID, event.NewPrice, event.NewQuantity)
		return ApplyResult{Trades: result.Trades}
	case EventSubmitStop:
		e.admitStop(event.Side, event.StopPrice, event.LimitPrice, event.Quantity, event.TimeInForce)
		return ApplyResult{}
	case EventSubmitTrailingStop:
		e.admitTrailingStop(event.Side, event.Quantity, event.trailConfig())
		return ApplyResult{}
	default:
		panic("matching: unknown event kind")
	}
}

// ApplyAll applies events in sequence, returning every trade produced.
func (e *Exchange) ApplyAll(events []Event) []types.Trade {
	var trades []types.Trade
	for _, ev := range events {
		trades = append(trades, e.Apply(ev).Trades...)
	}
	return trades
}

// Replay reconstructs exchange state by applying events against a fresh
// Exchange, built with the same options the caller supplies.
func Replay(events []Event, opts ...Option) *Exchange {
	e := NewExchange(opts...)
	for _, ev := range events {
		e.Apply(ev)
	}
	return e
}

// Events returns the recorded event log.
func (e *Exchange) Events() []Event {
	return e.events
}

// ClearEvents discards the recorded event log, typically after
// persisting it to external storage.
func (e *Exchange) ClearEvents() {
	e.events = nil
}
