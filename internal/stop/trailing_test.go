package stop

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

func price(p int64) *types.Price {
	v := types.Price(p)
	return &v
}

func pct(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestTrailingFixedOffsetFromWatermark(t *testing.T) {
	tracker := NewTracker(100_00, types.Buy)
	tracker.Update(110_00, 14) // watermark rises to 110

	cfg := TrailConfig{FixedOffset: price(10_00)}
	level, reason, ok := tracker.EffectiveStopLevel(cfg)

	require.True(t, ok)
	assert.Equal(t, TrailFixed, reason)
	assert.Equal(t, types.Price(100_00), level)
	assert.True(t, tracker.Breached(95_00, level))
}

func TestTrailingPercentageFollowsWatermark(t *testing.T) {
	tracker := NewTracker(100_00, types.Buy)
	tracker.Update(110_00, 14)

	cfg := TrailConfig{Percentage: pct(0.10)}
	level, reason, ok := tracker.EffectiveStopLevel(cfg)

	require.True(t, ok)
	assert.Equal(t, TrailPercentage, reason)
	assert.Equal(t, types.Price(99_00), level)
	assert.True(t, tracker.Breached(95_00, level))
}

func TestTrailingWatermarkNeverMovesAdversely(t *testing.T) {
	tracker := NewTracker(100_00, types.Buy)
	tracker.Update(110_00, 14)
	tracker.Update(95_00, 14) // price falls, watermark must not follow down

	assert.Equal(t, types.Price(110_00), tracker.ReferencePrice)
}

func TestTrailingTighterStopWinsAmongActiveMethods(t *testing.T) {
	tracker := NewTracker(100_00, types.Buy)
	tracker.Update(110_00, 14) // watermark rises to 110

	cfg := TrailConfig{
		FixedOffset: price(20_00), // 90.00 from watermark
		Percentage:  pct(0.05),    // 104.50 from watermark
	}
	level, reason, ok := tracker.EffectiveStopLevel(cfg)

	require.True(t, ok)
	assert.Equal(t, TrailPercentage, reason)
	assert.Equal(t, types.Price(104_50), level)
	assert.False(t, tracker.Breached(105_00, level))
	assert.True(t, tracker.Breached(103_00, level))
}

func TestTrailingATRUsesRunningMeanAbsoluteChange(t *testing.T) {
	tracker := NewTracker(100_00, types.Buy)
	tracker.Update(102_00, 3) // |delta| = 2_00, watermark -> 102_00
	tracker.Update(99_00, 3)  // |delta| = 3_00
	tracker.Update(101_00, 3) // |delta| = 2_00

	mean, ok := tracker.ATR(3)
	require.True(t, ok)
	assert.InDelta(t, (200.0+300.0+200.0)/3.0, mean, 0.001)

	cfg := TrailConfig{AtrMultiple: pct(1.0), AtrPeriod: 3}
	level, reason, ok := tracker.EffectiveStopLevel(cfg)
	require.True(t, ok)
	assert.Equal(t, TrailAtr, reason)
	// Watermark is the running high (102.00): 10200 - round(700/3) = 9967.
	assert.Equal(t, types.Price(9967), level)
}

func TestTrailingShortSideMirrorsLong(t *testing.T) {
	tracker := NewTracker(100_00, types.Sell)
	tracker.Update(90_00, 14) // watermark should fall for a short

	assert.Equal(t, types.Price(90_00), tracker.ReferencePrice)

	cfg := TrailConfig{Percentage: pct(0.10)}
	level, _, ok := tracker.EffectiveStopLevel(cfg)
	require.True(t, ok)
	assert.Equal(t, types.Price(99_00), level)
	assert.True(t, tracker.Breached(100_00, level))
}

func TestTrailingNoActiveMethodReturnsFalse(t *testing.T) {
	tracker := NewTracker(100_00, types.Buy)
	_, _, ok := tracker.EffectiveStopLevel(TrailConfig{})
	assert.False(t, ok)
}
