package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

func TestSnapshotDerivedFields(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 100, types.GTC)
	ex.SubmitLimit(types.Sell, 101_00, 50, types.GTC)

	snap := ex.Depth(10)

	spread, ok := snap.Spread()
	require.True(t, ok)
	assert.Equal(t, int64(100), spread)

	mid, ok := snap.MidPrice()
	require.True(t, ok)
	assert.Equal(t, 100_50.0, mid)

	assert.Equal(t, types.Quantity(100), snap.TotalBidQuantity())
	assert.Equal(t, types.Quantity(50), snap.TotalAskQuantity())
}

func TestSnapshotWeightedMidBiasesTowardThinnerSide(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 300, types.GTC)
	ex.SubmitLimit(types.Sell, 101_00, 100, types.GTC)

	snap := ex.Depth(10)

	weighted, ok := snap.WeightedMidPrice()
	require.True(t, ok)
	mid, _ := snap.MidPrice()
	// Heavier bid size weights the mid toward the ask.
	assert.Greater(t, weighted, mid)
}

func TestSnapshotImbalance(t *testing.T) {
	ex := NewExchange()
	ex.SubmitLimit(types.Buy, 100_00, 300, types.GTC)
	ex.SubmitLimit(types.Sell, 101_00, 100, types.GTC)

	snap := ex.Depth(10)

	imbalance, ok := snap.Imbalance()
	require.True(t, ok)
	assert.InDelta(t, (300.0-100.0)/(300.0+100.0), imbalance, 0.0001)
}

func TestSnapshotEmptyBookHasNoDerivedFields(t *testing.T) {
	ex := NewExchange()

	snap := ex.Depth(10)

	_, hasBid := snap.BestBid()
	_, hasSpread := snap.Spread()
	_, hasImbalance := snap.Imbalance()
	assert.False(t, hasBid)
	assert.False(t, hasSpread)
	assert.False(t, hasImbalance)
}

func TestFullBookReturnsEveryLevel(t *testing.T) {
	ex := NewExchange()
	for i := int64(0); i < 5; i++ {
		ex.SubmitLimit(types.Buy, types.Price(100_00-i*100), 10, types.GTC)
	}

	snap := ex.FullBook()

	assert.Len(t, snap.Bids, 5)
}
