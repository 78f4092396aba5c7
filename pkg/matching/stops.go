package matching

import (
	"github.com/shopspring/decimal"

	"github.com/abdoElHodaky/nanobook/internal/stop"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// onTrades feeds the last trade's price into every pending trailing
// stop, recomputes and re-prices their triggers, then drains the stop
// cascade (§4.6): any stop whose trigger is now satisfied is converted
// to a fresh submit, which may itself produce trades through fireStop
// -> submitLimitInternal -> onTrades. That nested call only updates
// lastTradePrice and the trailing watermarks (inCascade is already
// true, so it returns before draining) so there is exactly one loop
// driving the cascade, always reading the evolving e.lastTradePrice
// rather than the price that started it. The loop is bounded by the
// number of stops pending at entry, since each pending stop can
// trigger at most once.
func (e *Exchange) onTrades(trades []types.Trade) {
	last := trades[len(trades)-1]
	e.lastTradePrice = last.Price
	e.hasLastTradePrice = true
	e.feedTrailingStops(last.Price)

	if e.inCascade {
		return
	}
	e.inCascade = true
	defer func() { e.inCascade = false }()

	bound := e.stops.PendingCount()
	for i := 0; i <= bound; i++ {
		triggered := e.stops.CollectTriggered(e.lastTradePrice)
		if len(triggered) == 0 {
			return
		}
		for _, so := range triggered {
			delete(e.trailing, so.ID)
			e.metrics.recordStopTriggered(e.stops.PendingCount())
			e.fireStop(so)
		}
	}
}

func (e *Exchange) feedTrailingStops(price types.Price) {
	for id, ts := range e.trailing {
		ts.tracker.Update(price, ts.cfg.AtrPeriod)
		level, _, ok := ts.tracker.EffectiveStopLevel(ts.cfg)
		if !ok {
			continue
		}
		e.stops.UpdateTriggerPrice(id, level)
	}
}

// fireStop converts a triggered stop order into a fresh submit:
// stop-market becomes a market order of the stop's side and quantity;
// stop-limit becomes a limit order at the stored limit price with the
// stored time-in-force.
func (e *Exchange) fireStop(so *stop.Order) SubmitResult {
	if so.LimitPrice == nil {
		price := marketTranslationPrice(so.Side)
		return e.submitLimitInternal(so.Side, price, so.Quantity, types.IOC)
	}
	return e.submitLimitInternal(so.Side, *so.LimitPrice, so.Quantity, so.TimeInForce)
}

// SubmitStopMarket admits a stop order that becomes a market order of
// the same side and quantity once triggered.
func (e *Exchange) SubmitStopMarket(side types.Side, stopPrice types.Price, qty types.Quantity) StopSubmitResult {
	e.events = append(e.events, NewSubmitStopEvent(side, stopPrice, nil, qty, types.IOC))
	return e.admitStop(side, stopPrice, nil, qty, types.IOC)
}

// SubmitStopLimit admits a stop order that becomes a limit order at
// limitPrice once triggered.
func (e *Exchange) SubmitStopLimit(side types.Side, stopPrice, limitPrice types.Price, qty types.Quantity, tif types.TimeInForce) StopSubmitResult {
	lp := limitPrice
	e.events = append(e.events, NewSubmitStopEvent(side, stopPrice, &lp, qty, tif))
	return e.admitStop(side, stopPrice, &lp, qty, tif)
}

// SubmitTrailingStopFixed admits a trailing stop whose trigger trails
// the watermark by a fixed tick offset.
func (e *Exchange) SubmitTrailingStopFixed(side types.Side, qty types.Quantity, offset types.Price) StopSubmitResult {
	cfg := stop.TrailConfig{FixedOffset: &offset}
	e.events = append(e.events, NewSubmitTrailingStopEvent(side, qty, cfg, stop.TrailFixed))
	return e.admitTrailingStop(side, qty, cfg)
}

// SubmitTrailingStopPercentage admits a trailing stop whose trigger
// trails the watermark by a fractional distance (0.05 = 5%).
func (e *Exchange) SubmitTrailingStopPercentage(side types.Side, qty types.Quantity, pct decimal.Decimal) StopSubmitResult {
	cfg := stop.TrailConfig{Percentage: &pct}
	e.events = append(e.events, NewSubmitTrailingStopEvent(side, qty, cfg, stop.TrailPercentage))
	return e.admitTrailingStop(side, qty, cfg)
}

// SubmitTrailingStopAtr admits a trailing stop whose trigger trails
// the watermark by a multiple of the running ATR.
func (e *Exchange) SubmitTrailingStopAtr(side types.Side, qty types.Quantity, multiple decimal.Decimal, period int) StopSubmitResult {
	cfg := stop.TrailConfig{AtrMultiple: &multiple, AtrPeriod: period}
	e.events = append(e.events, NewSubmitTrailingStopEvent(side, qty, cfg, stop.TrailAtr))
	return e.admitTrailingStop(side, qty, cfg)
}

func (e *Exchange) admitStop(side types.Side, stopPrice types.Price, limitPrice *types.Price, qty types.Quantity, tif types.TimeInForce) StopSubmitResult {
	order := e.newStopOrder(side, stopPrice, limitPrice, qty, tif)
	return e.admit(order)
}

func (e *Exchange) admitTrailingStop(side types.Side, qty types.Quantity, cfg stop.TrailConfig) StopSubmitResult {
	entry := e.lastTradePrice
	if !e.hasLastTradePrice {
		entry = 0
	}
	// A sell trailing stop protects a long (watermark rises); a buy
	// trailing stop protects a short (watermark falls). The tracker's
	// Side is the position direction being protected, which is this
	// stop order's opposite.
	tracker := stop.NewTracker(entry, side.Opposite())
	level, _, ok := tracker.EffectiveStopLevel(cfg)
	var stopPrice types.Price
	if ok {
		stopPrice = level
	} else {
		stopPrice = entry
	}

	order := e.newStopOrder(side, stopPrice, nil, qty, types.IOC)
	e.trailing[order.ID] = &trailingStop{cfg: cfg, tracker: tracker}
	return e.admit(order)
}

func (e *Exchange) newStopOrder(side types.Side, stopPrice types.Price, limitPrice *types.Price, qty types.Quantity, tif types.TimeInForce) *stop.Order {
	id := e.book.NextOrderID()
	ts := e.book.NextTimestamp()
	return &stop.Order{
		ID:          id,
		Side:        side,
		StopPrice:   stopPrice,
		LimitPrice:  limitPrice,
		Quantity:    qty,
		TimeInForce: tif,
		Timestamp:   ts,
		Status:      stop.Pending,
	}
}

// admit inserts order into the stop book and fires it immediately if
// its trigger is already satisfied by the current last trade price.
func (e *Exchange) admit(order *stop.Order) StopSubmitResult {
	e.stops.Insert(order)

	if e.hasLastTradePrice && stopTriggeredBy(order, e.lastTradePrice) {
		triggered := e.stops.CollectTriggered(e.lastTradePrice)
		for _, so := range triggered {
			delete(e.trailing, so.ID)
			e.fireStop(so)
		}
	}

	return StopSubmitResult{OrderID: order.ID, Status: order.Status}
}

func stopTriggeredBy(order *stop.Order, tradePrice types.Price) bool {
	if order.Side == types.Buy {
		return order.StopPrice <= tradePrice
	}
	return order.StopPrice >= tradePrice
}
