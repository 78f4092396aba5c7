package matching

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	order_matching "github.com/abdoElHodaky/nanobook/internal/core/matching"
	"github.com/abdoElHodaky/nanobook/internal/stop"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// Exchange is the public surface of the simulation kernel: it wraps the
// order book and the stop book with time-in-force handling, the stop
// cascade, trailing-stop tracking, and an event log enabling
// deterministic replay.
type Exchange struct {
	book     *order_matching.Book
	stops    *stop.Book
	trailing map[types.OrderId]*trailingStop
	trades   []types.Trade
	events   []Event

	lastTradePrice    types.Price
	hasLastTradePrice bool
	inCascade         bool

	instanceID string
	logger     *zap.Logger
	metrics    *Metrics
}

// trailingStop pairs a registered trail configuration with the tracker
// computing its current watermark-relative level.
type trailingStop struct {
	cfg     stop.TrailConfig
	tracker *stop.Tracker
}

// Option configures an Exchange at construction time.
type Option func(*Exchange)

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exchange) { e.logger = logger }
}

// WithMetrics attaches a Metrics instance, built by the caller via
// NewMetrics against their own registry. Exchange never registers
// metrics itself.
func WithMetrics(m *Metrics) Option {
	return func(e *Exchange) { e.metrics = m }
}

// NewExchange creates an exchange with an empty book and stop book.
// Every instance is tagged with a random id, carried on every log line
// it emits, so logs from multiple concurrent backtest runs in the same
// process can be told apart.
func NewExchange(opts ...Option) *Exchange {
	e := &Exchange{
		book:       order_matching.NewBook(),
		stops:      stop.NewBook(),
		trailing:   make(map[types.OrderId]*trailingStop),
		instanceID: uuid.NewString(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("exchange_id", e.instanceID))
	return e
}

func marketTranslationPrice(side types.Side) types.Price {
	if side == types.Buy {
		return types.MaxPrice
	}
	return types.MinPrice
}

// === Order submission ===

// SubmitLimit submits a limit order, records an event, and runs the
// stop cascade if any trades occurred.
func (e *Exchange) SubmitLimit(side types.Side, price types.Price, qty types.Quantity, tif types.TimeInForce) SubmitResult {
	e.events = append(e.events, NewSubmitLimitEvent(side, price, qty, tif))
	return e.submitLimitInternal(side, price, qty, tif)
}

// SubmitMarket submits a market order: a limit order at the worst
// possible price with IOC semantics (§4.4 market-order translation).
func (e *Exchange) SubmitMarket(side types.Side, qty types.Quantity) SubmitResult {
	e.events = append(e.events, NewSubmitMarketEvent(side, qty))
	price := marketTranslationPrice(side)
	return e.submitLimitInternal(side, price, qty, types.IOC)
}

// submitLimitInternal performs the match/rest/cancel pipeline without
// recording an event, so replay never double-records. It always runs
// the stop cascade when trades occur, even when invoked internally
// (from the cascade itself, or from Modify's resubmit).
func (e *Exchange) submitLimitInternal(side types.Side, price types.Price, qty types.Quantity, tif types.TimeInForce) SubmitResult {
	e.metrics.recordSubmit(side.String())

	if tif == types.FOK && !e.book.CanFullyFill(side, price, qty) {
		order := e.book.CreateOrder(side, price, qty, tif)
		order.Status = types.Cancelled
		e.book.StoreOrder(order)
		e.metrics.recordReject()
		return SubmitResult{
			OrderID:           order.ID,
			Status:            types.Cancelled,
			CancelledQuantity: qty,
		}
	}

	order := e.book.CreateOrder(side, price, qty, tif)
	orderID := order.ID

	matchResult := e.book.MatchOrder(order)
	e.trades = append(e.trades, matchResult.Trades...)

	filled := order.FilledQuantity
	remaining := order.RemainingQuantity

	var status types.OrderStatus
	var resting, cancelled types.Quantity

	switch {
	case remaining == 0:
		order.Status = types.Filled
		e.book.StoreOrder(order)
		status = types.Filled

	case tif == types.GTC:
		if filled > 0 {
			order.Status = types.PartiallyFilled
			status = types.PartiallyFilled
		} else {
			status = types.New
		}
		e.book.AddOrder(order)
		resting = remaining

	default: // IOC or FOK with a remainder
		// The remainder never rests, so the stored order is cancelled;
		// the result still reports a partial fill when one happened.
		if filled > 0 {
			status = types.PartiallyFilled
		} else {
			status = types.Cancelled
		}
		cancelled = order.Cancel()
		e.book.StoreOrder(order)
	}

	e.metrics.recordTrades(len(matchResult.Trades))
	if len(matchResult.Trades) > 0 {
		e.onTrades(matchResult.Trades)
	}

	return SubmitResult{
		OrderID:           orderID,
		Status:            status,
		Trades:            matchResult.Trades,
		FilledQuantity:    filled,
		RestingQuantity:   resting,
		CancelledQuantity: cancelled,
	}
}

// === Order management ===

// Cancel cancels order_id, recording an event regardless of outcome so
// replay reproduces the same failed attempts. order_id may name a
// resting order or a pending stop order; a stop that already fired or
// was cancelled reports OrderNotActive.
func (e *Exchange) Cancel(orderID types.OrderId) CancelResult {
	e.events = append(e.events, NewCancelEvent(orderID))
	return e.cancelInternal(orderID)
}

func (e *Exchange) cancelInternal(orderID types.OrderId) CancelResult {
	order, ok := e.book.GetOrder(orderID)
	if !ok {
		if so, isStop := e.stops.Get(orderID); isStop {
			if !e.stops.Cancel(orderID) {
				return cancelFailure(CancelOrderNotActive)
			}
			delete(e.trailing, orderID)
			e.metrics.recordCancel()
			return cancelSuccess(so.Quantity)
		}
		return cancelFailure(CancelOrderNotFound)
	}
	if !order.IsActive() {
		return cancelFailure(CancelOrderNotActive)
	}
	qty, ok := e.book.CancelOrder(orderID)
	if !ok {
		return cancelFailure(CancelOrderNotActive)
	}
	e.metrics.recordCancel()
	return cancelSuccess(qty)
}

// Modify cancels order_id and resubmits with new_price/new_quantity.
// The new order gets a fresh id and timestamp, losing time priority; it
// inherits the original side and time-in-force.
func (e *Exchange) Modify(orderID types.OrderId, newPrice types.Price, newQty types.Quantity) ModifyResult {
	e.events = append(e.events, NewModifyEvent(orderID, newPrice, newQty))
	return e.modifyInternal(orderID, newPrice, newQty)
}

func (e *Exchange) modifyInternal(orderID types.OrderId, newPrice types.Price, newQty types.Quantity) ModifyResult {
	if newQty == 0 {
		return modifyFailure(orderID, ModifyInvalidQuantity)
	}

	order, ok := e.book.GetOrder(orderID)
	if !ok {
		return modifyFailure(orderID, ModifyOrderNotFound)
	}
	if !order.IsActive() {
		return modifyFailure(orderID, ModifyOrderNotActive)
	}
	side, tif := order.Side, order.TimeInForce

	cancelled, ok := e.book.CancelOrder(orderID)
	if !ok {
		return modifyFailure(orderID, ModifyOrderNotActive)
	}

	result := e.submitLimitInternal(side, newPrice, newQty, tif)
	return modifySuccess(orderID, result.OrderID, cancelled, result.Trades)
}

// === Queries ===

// GetOrder returns an order by id, including historical (terminal)
// orders.
func (e *Exchange) GetOrder(orderID types.OrderId) (*types.Order, bool) {
	return e.book.GetOrder(orderID)
}

// BestBid returns the best resting bid price.
func (e *Exchange) BestBid() (types.Price, bool) { return e.book.BestBid() }

// BestAsk returns the best resting ask price.
func (e *Exchange) BestAsk() (types.Price, bool) { return e.book.BestAsk() }

// BestBidAsk returns both best prices in one call.
func (e *Exchange) BestBidAsk() (bid types.Price, hasBid bool, ask types.Price, hasAsk bool) {
	bid, hasBid = e.book.BestBid()
	ask, hasAsk = e.book.BestAsk()
	return
}

// Spread returns ask - bid, if both sides have resting orders.
func (e *Exchange) Spread() (int64, bool) { return e.book.Spread() }

// LastTradePrice returns the price of the most recent trade, if any.
func (e *Exchange) LastTradePrice() (types.Price, bool) {
	return e.lastTradePrice, e.hasLastTradePrice
}

// Trades returns every trade that has occurred.
func (e *Exchange) Trades() []types.Trade { return e.trades }

// PendingStopCount returns the number of stop orders still pending.
func (e *Exchange) PendingStopCount() int { return e.stops.PendingCount() }

// GetStopOrder returns a stop order by id, regardless of status.
func (e *Exchange) GetStopOrder(orderID types.OrderId) (*stop.Order, bool) {
	return e.stops.Get(orderID)
}

// === Memory management (§4.9) ===

// ClearTrades empties the trade history. Does not affect the event log.
func (e *Exchange) ClearTrades() {
	e.trades = nil
}

// ClearOrderHistory removes terminal orders from the id-map, keeping
// only active ones, and returns the count removed.
func (e *Exchange) ClearOrderHistory() int {
	return e.book.ClearTerminalOrders()
}

// Compact walks each side ladder and drops any remaining tombstones.
// The ladder in this implementation removes empty levels eagerly on
// every fill and cancel, so there are never tombstones to collect;
// Compact is a no-op kept for API parity with a book that defers level
// cleanup.
func (e *Exchange) Compact() {}
