package order_matching

import (
	"sort"

	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// Ladder is one side of the book: an ordered price→Level mapping with
// a cached best price. Bids are kept best-first as highest-to-lowest;
// asks as lowest-to-highest. The underlying storage is a slice of
// prices kept sorted in "match order" (best first) plus a parallel map
// for O(1) level lookup by price; inserts/removes binary-search the
// slice for their position.
type Ladder struct {
	side   types.Side
	prices []types.Price // kept sorted, best price first
	levels map[types.Price]*Level
}

// NewLadder creates an empty ladder for side.
func NewLadder(side types.Side) *Ladder {
	return &Ladder{
		side:   side,
		levels: make(map[types.Price]*Level),
	}
}

// Side returns which side of the book this ladder represents.
func (r *Ladder) Side() types.Side { return r.side }

// IsEmpty reports whether the ladder has no levels.
func (r *Ladder) IsEmpty() bool { return len(r.prices) == 0 }

// LevelCount returns the number of distinct price levels.
func (r *Ladder) LevelCount() int { return len(r.prices) }

// BestPrice returns the cached best price, or false if the ladder is
// empty. For bids this is the highest resting price; for asks, the
// lowest.
func (r *Ladder) BestPrice() (types.Price, bool) {
	if len(r.prices) == 0 {
		return 0, false
	}
	return r.prices[0], true
}

// BestLevel returns the level at the cached best price.
func (r *Ladder) BestLevel() *Level {
	if len(r.prices) == 0 {
		return nil
	}
	return r.levels[r.prices[0]]
}

// GetLevel returns the level at price, or nil.
func (r *Ladder) GetLevel(price types.Price) *Level {
	return r.levels[price]
}

// better reports whether a is a more aggressive (better) price than b
// for this ladder's side: higher for bids, lower for asks.
func (r *Ladder) better(a, b types.Price) bool {
	if r.side == types.Buy {
		return a > b
	}
	return a < b
}

// insertionIndex finds where price belongs in the best-first slice,
// preserving sort order (binary search over the "better than" relation).
func (r *Ladder) insertionIndex(price types.Price) int {
	return sort.Search(len(r.prices), func(i int) bool {
		// first index whose price is NOT better than the new price,
		// i.e. the new price belongs at or before it.
		return !r.better(r.prices[i], price)
	})
}

func (r *Ladder) indexOf(price types.Price) (int, bool) {
	i := r.insertionIndex(price)
	if i < len(r.prices) && r.prices[i] == price {
		return i, true
	}
	return i, false
}

// GetOrCreateLevel returns the level at price, creating and inserting
// it (maintaining sort order and the best-price cache) if absent.
func (r *Ladder) GetOrCreateLevel(price types.Price) *Level {
	i, ok := r.indexOf(price)
	if ok {
		return r.levels[price]
	}
	lvl := NewLevel(price)
	r.levels[price] = lvl
	r.prices = append(r.prices, 0)
	copy(r.prices[i+1:], r.prices[i:])
	r.prices[i] = price
	return lvl
}

// InsertOrder enqueues id/qty at price, creating the level if absent.
func (r *Ladder) InsertOrder(price types.Price, id types.OrderId, qty types.Quantity) {
	r.GetOrCreateLevel(price).PushBack(id, qty)
}

// RemoveOrder removes id from the level at price, dropping the level
// (and recomputing the best-price cache) if it becomes empty. Returns
// false if id was not found there.
func (r *Ladder) RemoveOrder(price types.Price, id types.OrderId, qty types.Quantity) bool {
	lvl := r.levels[price]
	if lvl == nil {
		return false
	}
	if !lvl.Remove(id, qty) {
		return false
	}
	if lvl.IsEmpty() {
		r.RemoveLevel(price)
	}
	return true
}

// RemoveLevel drops the level at price entirely.
func (r *Ladder) RemoveLevel(price types.Price) {
	i, ok := r.indexOf(price)
	if !ok {
		return
	}
	delete(r.levels, price)
	r.prices = append(r.prices[:i], r.prices[i+1:]...)
}

// PopBestLevel removes and returns the current best level, or nil if
// the ladder is empty.
func (r *Ladder) PopBestLevel() *Level {
	if len(r.prices) == 0 {
		return nil
	}
	price := r.prices[0]
	lvl := r.levels[price]
	delete(r.levels, price)
	r.prices = r.prices[1:]
	return lvl
}

// IterBestToWorst calls fn for every level in match order (bids
// descending, asks ascending), stopping early if fn returns false.
func (r *Ladder) IterBestToWorst(fn func(price types.Price, lvl *Level) bool) {
	for _, p := range r.prices {
		if !fn(p, r.levels[p]) {
			return
		}
	}
}

// TotalQuantity sums the cached totals of every level.
func (r *Ladder) TotalQuantity() types.Quantity {
	var total types.Quantity
	for _, p := range r.prices {
		total += r.levels[p].TotalQuantity()
	}
	return total
}

// QuantityAtOrBetter sums the quantity resting at prices at least as
// good as price for a counterparty crossing in: for bids, prices >=
// price; for asks, prices <= price. This is the feasibility check a
// FOK submission on the opposite side uses.
func (r *Ladder) QuantityAtOrBetter(price types.Price) types.Quantity {
	var total types.Quantity
	r.IterBestToWorst(func(p types.Price, lvl *Level) bool {
		qualifies := false
		if r.side == types.Buy {
			qualifies = p >= price
		} else {
			qualifies = p <= price
		}
		if !qualifies {
			return false
		}
		total += lvl.TotalQuantity()
		return true
	})
	return total
}
