package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/nanobook/internal/stop"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

func TestSubmitStopMarketPending(t *testing.T) {
	ex := NewExchange()

	result := ex.SubmitStopMarket(types.Sell, 99_00, 50)

	assert.Equal(t, 1, ex.PendingStopCount())
	so, ok := ex.GetStopOrder(result.OrderID)
	require.True(t, ok)
	assert.Equal(t, types.Sell, so.Side)
}

func TestStopMarketFiresOnTrade(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 20, types.GTC)

	// Sell stop triggers once the trade price falls to or through 99_00.
	ex.SubmitStopMarket(types.Sell, 99_00, 50)
	assert.Equal(t, 1, ex.PendingStopCount())

	ex.SubmitLimit(types.Sell, 100_00, 20, types.GTC) // trades at 100, doesn't trigger
	assert.Equal(t, 1, ex.PendingStopCount())

	ex.SubmitLimit(types.Buy, 99_00, 30, types.GTC)
	ex.SubmitLimit(types.Sell, 99_00, 30, types.GTC) // trades at 99, triggers the stop

	assert.Equal(t, 0, ex.PendingStopCount())
}

func TestStopLimitBecomesLimitOrderAtStoredPrice(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)

	ex.SubmitStopLimit(types.Buy, 100_00, 100_50, 40, types.GTC)
	assert.Equal(t, 1, ex.PendingStopCount())

	// Trade at 100_00 triggers the buy stop (trigger <= trade price).
	ex.SubmitLimit(types.Buy, 100_00, 60, types.GTC)

	assert.Equal(t, 0, ex.PendingStopCount())
	// The stop-limit buy of 40 at 100_50 crosses the remaining 40 ask
	// at 100_00 and fills completely, leaving the ask side empty.
	ask, ok := ex.BestAsk()
	assert.False(t, ok)
	_ = ask
}

func TestStopCascadeDrainsMultipleLevels(t *testing.T) {
	ex := NewExchange()

	// Descending resting bids, each one tick below the one a triggered
	// sell stop's market order would hit next.
	ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)
	ex.SubmitLimit(types.Buy, 99_00, 100, types.GTC)
	ex.SubmitLimit(types.Buy, 98_00, 100, types.GTC)

	// Sell stops at descending triggers (N=2), set to fire in sequence
	// as each market sell trades through the next resting bid.
	ex.SubmitStopMarket(types.Sell, 99_00, 100)
	ex.SubmitStopMarket(types.Sell, 98_00, 100)
	assert.Equal(t, 2, ex.PendingStopCount())

	// A single aggressive sell sweeps both the 100_00 and 99_00 levels;
	// its last trade prints at 99_00, which triggers the first stop.
	// That stop's market sell trades through the 98_00 bid (the third
	// trade), which in turn triggers the second stop. The second
	// stop's market sell finds the book empty and cancels, producing
	// no further trade — exactly N+1 = 3 trades for the N=2 cascade.
	ex.SubmitLimit(types.Sell, 99_00, 200, types.GTC)

	assert.Equal(t, 0, ex.PendingStopCount())

	trades := ex.Trades()
	require.Len(t, trades, 3)
	assert.Equal(t, types.Price(100_00), trades[0].Price)
	assert.Equal(t, types.Price(99_00), trades[1].Price)
	assert.Equal(t, types.Price(98_00), trades[2].Price)

	_, hasBid := ex.BestBid()
	assert.False(t, hasBid)
}

func TestCancelPendingStop(t *testing.T) {
	ex := NewExchange()
	result := ex.SubmitStopMarket(types.Sell, 99_00, 50)

	assert.Equal(t, 1, ex.PendingStopCount())

	cancel := ex.Cancel(result.OrderID)
	assert.True(t, cancel.Success)
	assert.Equal(t, types.Quantity(50), cancel.CancelledQuantity)
	assert.Equal(t, 0, ex.PendingStopCount())

	so, ok := ex.GetStopOrder(result.OrderID)
	require.True(t, ok)
	assert.Equal(t, stop.Cancelled, so.Status)
}

func TestTrailingStopFixedTracksWatermark(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC) // trade at 100_00

	result := ex.SubmitTrailingStopFixed(types.Sell, 50, 5_00)
	so, ok := ex.GetStopOrder(result.OrderID)
	require.True(t, ok)
	assert.Equal(t, types.Price(95_00), so.StopPrice)

	// Price rises; watermark follows, dragging the stop up.
	ex.SubmitLimit(types.Buy, 110_00, 20, types.GTC)
	ex.SubmitLimit(types.Sell, 110_00, 20, types.GTC)

	so, _ = ex.GetStopOrder(result.OrderID)
	assert.Equal(t, types.Price(105_00), so.StopPrice)
}

func TestTrailingStopPercentageFiresOnPullback(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC) // trade at 100_00

	pct := decimal.NewFromFloat(0.10)
	result := ex.SubmitTrailingStopPercentage(types.Sell, 50, pct)
	_, ok := ex.GetStopOrder(result.OrderID)
	require.True(t, ok)
	assert.Equal(t, 1, ex.PendingStopCount())

	// Watermark rises to 120, trailing stop now at 108.
	ex.SubmitLimit(types.Buy, 120_00, 20, types.GTC)
	ex.SubmitLimit(types.Sell, 120_00, 20, types.GTC)

	so, _ := ex.GetStopOrder(result.OrderID)
	assert.Equal(t, types.Price(108_00), so.StopPrice)

	// A pullback through 108 fires the trailing stop.
	ex.SubmitLimit(types.Buy, 108_00, 10, types.GTC)
	ex.SubmitLimit(types.Sell, 108_00, 10, types.GTC)

	assert.Equal(t, 0, ex.PendingStopCount())
}
