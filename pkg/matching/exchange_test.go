package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

func TestSubmitLimitNoMatch(t *testing.T) {
	ex := NewExchange()

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	assert.Equal(t, types.OrderId(1), result.OrderID)
	assert.Equal(t, types.New, result.Status)
	assert.Empty(t, result.Trades)
	assert.Equal(t, types.Quantity(0), result.FilledQuantity)
	assert.Equal(t, types.Quantity(100), result.RestingQuantity)
	assert.Equal(t, types.Quantity(0), result.CancelledQuantity)

	bid, ok := ex.BestBid()
	require.True(t, ok)
	assert.Equal(t, types.Price(100_00), bid)
}

func TestSubmitLimitFullFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	assert.Equal(t, types.Filled, result.Status)
	assert.Len(t, result.Trades, 1)
	assert.Equal(t, types.Quantity(100), result.FilledQuantity)
	assert.Equal(t, types.Quantity(0), result.RestingQuantity)
	assert.Equal(t, types.Quantity(0), result.CancelledQuantity)

	_, hasBid := ex.BestBid()
	_, hasAsk := ex.BestAsk()
	assert.False(t, hasBid)
	assert.False(t, hasAsk)
}

func TestSubmitLimitPartialFillGTC(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 30, types.GTC)

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	assert.Equal(t, types.PartiallyFilled, result.Status)
	assert.Equal(t, types.Quantity(30), result.FilledQuantity)
	assert.Equal(t, types.Quantity(70), result.RestingQuantity)
	assert.Equal(t, types.Quantity(0), result.CancelledQuantity)

	bid, ok := ex.BestBid()
	require.True(t, ok)
	assert.Equal(t, types.Price(100_00), bid)
}

func TestSubmitIOCFullFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.IOC)

	assert.Equal(t, types.Filled, result.Status)
	assert.Equal(t, types.Quantity(100), result.FilledQuantity)
	assert.Equal(t, types.Quantity(0), result.RestingQuantity)
}

func TestSubmitIOCPartialFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 30, types.GTC)

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.IOC)

	assert.Equal(t, types.PartiallyFilled, result.Status)
	assert.Equal(t, types.Quantity(30), result.FilledQuantity)
	assert.Equal(t, types.Quantity(0), result.RestingQuantity)
	assert.Equal(t, types.Quantity(70), result.CancelledQuantity)

	_, hasBid := ex.BestBid()
	assert.False(t, hasBid)
}

func TestSubmitIOCNoFill(t *testing.T) {
	ex := NewExchange()

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.IOC)

	assert.Equal(t, types.Cancelled, result.Status)
	assert.Equal(t, types.Quantity(0), result.FilledQuantity)
	assert.Equal(t, types.Quantity(100), result.CancelledQuantity)
	_, hasBid := ex.BestBid()
	assert.False(t, hasBid)
}

func TestSubmitFOKFullFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.FOK)

	assert.Equal(t, types.Filled, result.Status)
	assert.Equal(t, types.Quantity(100), result.FilledQuantity)
	assert.Len(t, result.Trades, 1)
}

func TestSubmitFOKRejectedInsufficientLiquidity(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 50, types.GTC)

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.FOK)

	assert.Equal(t, types.Cancelled, result.Status)
	assert.Equal(t, types.Quantity(0), result.FilledQuantity)
	assert.Equal(t, types.Quantity(100), result.CancelledQuantity)
	assert.Empty(t, result.Trades)

	ask, ok := ex.BestAsk()
	require.True(t, ok)
	assert.Equal(t, types.Price(100_00), ask)
}

func TestSubmitFOKRejectedNoLiquidity(t *testing.T) {
	ex := NewExchange()

	result := ex.SubmitLimit(types.Buy, 100_00, 100, types.FOK)

	assert.Equal(t, types.Cancelled, result.Status)
	assert.Empty(t, result.Trades)
}

func TestSubmitMarketFullFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)

	result := ex.SubmitMarket(types.Buy, 100)

	assert.Equal(t, types.Filled, result.Status)
	assert.Equal(t, types.Quantity(100), result.FilledQuantity)
}

func TestSubmitMarketPartialFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 50, types.GTC)

	result := ex.SubmitMarket(types.Buy, 100)

	assert.Equal(t, types.PartiallyFilled, result.Status)
	assert.Equal(t, types.Quantity(50), result.FilledQuantity)
	assert.Equal(t, types.Quantity(50), result.CancelledQuantity)
}

func TestSubmitMarketNoLiquidity(t *testing.T) {
	ex := NewExchange()

	result := ex.SubmitMarket(types.Buy, 100)

	assert.Equal(t, types.Cancelled, result.Status)
	assert.Equal(t, types.Quantity(0), result.FilledQuantity)
}

func TestCancelOrder(t *testing.T) {
	ex := NewExchange()
	submit := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	result := ex.Cancel(submit.OrderID)

	assert.True(t, result.Success)
	assert.Equal(t, types.Quantity(100), result.CancelledQuantity)
	_, hasBid := ex.BestBid()
	assert.False(t, hasBid)
}

func TestCancelNonexistent(t *testing.T) {
	ex := NewExchange()

	result := ex.Cancel(999)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, CancelOrderNotFound, *result.Error)
}

func TestCancelAlreadyFilled(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)
	buy := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	result := ex.Cancel(buy.OrderID)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, CancelOrderNotActive, *result.Error)
}

func TestModifyOrder(t *testing.T) {
	ex := NewExchange()
	submit := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	result := ex.Modify(submit.OrderID, 99_00, 150)

	require.True(t, result.Success)
	assert.Equal(t, submit.OrderID, result.OldOrderID)
	require.NotNil(t, result.NewOrderID)
	assert.NotEqual(t, submit.OrderID, *result.NewOrderID)
	assert.Equal(t, types.Quantity(100), result.CancelledQuantity)

	bid, ok := ex.BestBid()
	require.True(t, ok)
	assert.Equal(t, types.Price(99_00), bid)

	newOrder, ok := ex.GetOrder(*result.NewOrderID)
	require.True(t, ok)
	assert.Equal(t, types.Quantity(150), newOrder.RemainingQuantity)
}

func TestModifyWithImmediateFill(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 50, types.GTC)
	submit := ex.SubmitLimit(types.Buy, 99_00, 100, types.GTC)

	result := ex.Modify(submit.OrderID, 100_00, 100)

	require.True(t, result.Success)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, types.Quantity(50), result.Trades[0].Quantity)
}

func TestModifyNonexistent(t *testing.T) {
	ex := NewExchange()

	result := ex.Modify(999, 100_00, 100)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, ModifyOrderNotFound, *result.Error)
}

func TestModifyZeroQuantity(t *testing.T) {
	ex := NewExchange()
	submit := ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	result := ex.Modify(submit.OrderID, 100_00, 0)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, ModifyInvalidQuantity, *result.Error)
}

func TestTradesAreRecorded(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Sell, 100_00, 100, types.GTC)
	ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)

	require.Len(t, ex.Trades(), 1)
	assert.Equal(t, types.Quantity(100), ex.Trades()[0].Quantity)
}

func TestDepthSnapshot(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)
	ex.SubmitLimit(types.Buy, 99_00, 200, types.GTC)
	ex.SubmitLimit(types.Sell, 101_00, 150, types.GTC)

	snap := ex.Depth(10)

	assert.Len(t, snap.Bids, 2)
	assert.Len(t, snap.Asks, 1)

	bid, ok := snap.BestBid()
	require.True(t, ok)
	assert.Equal(t, types.Price(100_00), bid)

	ask, ok := snap.BestAsk()
	require.True(t, ok)
	assert.Equal(t, types.Price(101_00), ask)
}
