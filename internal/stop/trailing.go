package stop

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// TrailMethod names which candidate produced an effective stop level,
// for logging/event purposes.
type TrailMethod string

const (
	TrailFixed      TrailMethod = "fixed"
	TrailPercentage TrailMethod = "trailing"
	TrailAtr        TrailMethod = "atr"
)

// TrailConfig configures a Tracker's stop-level computation. All three
// methods are computed relative to the tracker's watermark, never the
// entry price — a nil field disables that method. When more than one
// method is active, the most protective candidate wins: the highest
// floor for a long, the lowest ceiling for a short.
type TrailConfig struct {
	// FixedOffset is an absolute tick distance from the watermark.
	FixedOffset *types.Price
	// Percentage is a fractional distance from the watermark (0.05 =
	// 5%).
	Percentage *decimal.Decimal
	// AtrMultiple scales the running mean absolute close-to-close
	// change.
	AtrMultiple *decimal.Decimal
	// AtrPeriod bounds how many recent absolute changes feed the mean;
	// it is floored at 1.
	AtrPeriod int
}

func (c TrailConfig) period() int {
	if c.AtrPeriod < 1 {
		return 1
	}
	return c.AtrPeriod
}

// Tracker maintains the watermark and recent-change history a trailing
// stop needs: the entry price (the initial watermark), the best (most
// favorable) price seen since admission, the last observed price, and
// a bounded window of absolute close-to-close changes for the ATR
// method.
//
// Side is the position direction being protected: Buy means a long (a
// sell trailing stop guarding it) — the watermark only rises, and the
// stop trails below it. Sell means a short (a buy trailing stop
// guarding it) — the watermark only falls, and the stop trails above
// it.
type Tracker struct {
	Side           types.Side
	EntryPrice     types.Price
	ReferencePrice types.Price
	LastPrice      types.Price
	absChanges     []int64
}

// NewTracker creates a tracker for a freshly admitted trailing stop,
// with the watermark initialized to entryPrice (the last trade price
// at admission time).
func NewTracker(entryPrice types.Price, side types.Side) *Tracker {
	return &Tracker{
		Side:           side,
		EntryPrice:     entryPrice,
		ReferencePrice: entryPrice,
		LastPrice:      entryPrice,
	}
}

// Update folds in a new observed trade price: it records the absolute
// close-to-close change (bounded to atrPeriod*6 entries, the window
// the ATR method samples from), advances the last-seen price, and
// moves the watermark if price is more favorable than before.
// Non-positive prices are ignored.
func (t *Tracker) Update(price types.Price, atrPeriod int) {
	if price <= 0 {
		return
	}
	delta := int64(price) - int64(t.LastPrice)
	if delta < 0 {
		delta = -delta
	}
	t.absChanges = append(t.absChanges, delta)
	keep := atrPeriod
	if keep < 1 {
		keep = 1
	}
	keep *= 6
	if len(t.absChanges) > keep {
		t.absChanges = t.absChanges[len(t.absChanges)-keep:]
	}

	t.LastPrice = price
	if t.Side == types.Buy {
		if price > t.ReferencePrice {
			t.ReferencePrice = price
		}
	} else {
		if price < t.ReferencePrice {
			t.ReferencePrice = price
		}
	}
}

// ATR returns the mean absolute close-to-close change over the most
// recent min(atrPeriod, len(history)) observations, computed with
// gonum's mean helper. Returns false if no changes have been observed
// yet.
func (t *Tracker) ATR(atrPeriod int) (float64, bool) {
	if len(t.absChanges) == 0 {
		return 0, false
	}
	k := atrPeriod
	if k < 1 {
		k = 1
	}
	if k > len(t.absChanges) {
		k = len(t.absChanges)
	}
	tail := t.absChanges[len(t.absChanges)-k:]
	weighted := make([]float64, len(tail))
	for i, v := range tail {
		weighted[i] = float64(v)
	}
	return stat.Mean(weighted, nil), true
}

// EffectiveStopLevel evaluates every active method in cfg, all
// relative to the current watermark, and returns the single
// most-protective candidate: the highest floor for a long position,
// the lowest ceiling for a short one. Returns false if no method in
// cfg is active.
func (t *Tracker) EffectiveStopLevel(cfg TrailConfig) (types.Price, TrailMethod, bool) {
	type candidate struct {
		level  int64
		method TrailMethod
	}
	var candidates []candidate

	long := t.Side == types.Buy
	ref := decimal.NewFromInt(int64(t.ReferencePrice))

	if cfg.FixedOffset != nil {
		var level int64
		if long {
			level = int64(t.ReferencePrice) - int64(*cfg.FixedOffset)
		} else {
			level = int64(t.ReferencePrice) + int64(*cfg.FixedOffset)
		}
		candidates = append(candidates, candidate{clampPositiveInt(level), TrailFixed})
	}

	if cfg.Percentage != nil {
		var level decimal.Decimal
		if long {
			level = ref.Mul(decimal.NewFromInt(1).Sub(*cfg.Percentage))
		} else {
			level = ref.Mul(decimal.NewFromInt(1).Add(*cfg.Percentage))
		}
		candidates = append(candidates, candidate{clampPositive(level), TrailPercentage})
	}

	if cfg.AtrMultiple != nil {
		if mean, ok := t.ATR(cfg.period()); ok {
			offset := cfg.AtrMultiple.Mul(decimal.NewFromFloat(mean))
			var level decimal.Decimal
			if long {
				level = ref.Sub(offset)
			} else {
				level = ref.Add(offset)
			}
			candidates = append(candidates, candidate{clampPositive(level), TrailAtr})
		}
	}

	if len(candidates) == 0 {
		return 0, "", false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if long && c.level > best.level {
			best = c
		}
		if !long && c.level < best.level {
			best = c
		}
	}
	return types.Price(best.level), best.method, true
}

// Breached reports whether price has crossed through stopLevel for
// this tracker's side.
func (t *Tracker) Breached(price, stopLevel types.Price) bool {
	if t.Side == types.Buy {
		return price <= stopLevel
	}
	return price >= stopLevel
}

func clampPositive(d decimal.Decimal) int64 {
	return clampPositiveInt(d.Round(0).IntPart())
}

func clampPositiveInt(v int64) int64 {
	if v < 1 {
		return 1
	}
	return v
}
