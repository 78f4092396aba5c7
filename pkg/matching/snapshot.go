package matching

import (
	order_matching "github.com/abdoElHodaky/nanobook/internal/core/matching"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// LevelSnapshot is a single price level as seen by a BookSnapshot.
type LevelSnapshot struct {
	Price      types.Price
	Quantity   types.Quantity
	OrderCount int
}

// BookSnapshot is a point-in-time view of both sides of a book, best
// price first.
type BookSnapshot struct {
	Bids      []LevelSnapshot
	Asks      []LevelSnapshot
	Timestamp types.Timestamp
}

// BestBid returns the top bid price, if any.
func (s BookSnapshot) BestBid() (types.Price, bool) {
	if len(s.Bids) == 0 {
		return 0, false
	}
	return s.Bids[0].Price, true
}

// BestAsk returns the top ask price, if any.
func (s BookSnapshot) BestAsk() (types.Price, bool) {
	if len(s.Asks) == 0 {
		return 0, false
	}
	return s.Asks[0].Price, true
}

// Spread returns ask - bid, if both sides are present.
func (s BookSnapshot) Spread() (int64, bool) {
	bid, okb := s.BestBid()
	ask, oka := s.BestAsk()
	if !okb || !oka {
		return 0, false
	}
	return int64(ask) - int64(bid), true
}

// MidPrice returns (bid+ask)/2, if both sides are present.
func (s BookSnapshot) MidPrice() (float64, bool) {
	bid, okb := s.BestBid()
	ask, oka := s.BestAsk()
	if !okb || !oka {
		return 0, false
	}
	return (float64(bid) + float64(ask)) / 2.0, true
}

// WeightedMidPrice returns the size-weighted mid across the top level
// on each side: (bid*askQty + ask*bidQty) / (bidQty + askQty). Weighting
// by the opposite side's quantity biases the mid toward the side with
// less resting size, which is closer to where the next trade would
// clear than the unweighted mid.
func (s BookSnapshot) WeightedMidPrice() (float64, bool) {
	if len(s.Bids) == 0 || len(s.Asks) == 0 {
		return 0, false
	}
	bid, ask := s.Bids[0], s.Asks[0]
	totalQty := float64(bid.Quantity) + float64(ask.Quantity)
	if totalQty == 0 {
		return 0, false
	}
	weighted := (float64(bid.Price)*float64(ask.Quantity) + float64(ask.Price)*float64(bid.Quantity)) / totalQty
	return weighted, true
}

// TotalBidQuantity sums quantity across every bid level in the
// snapshot.
func (s BookSnapshot) TotalBidQuantity() types.Quantity {
	var total types.Quantity
	for _, l := range s.Bids {
		total += l.Quantity
	}
	return total
}

// TotalAskQuantity sums quantity across every ask level in the
// snapshot.
func (s BookSnapshot) TotalAskQuantity() types.Quantity {
	var total types.Quantity
	for _, l := range s.Asks {
		total += l.Quantity
	}
	return total
}

// Imbalance returns (bidQty - askQty) / (bidQty + askQty) over the
// snapshot's visible depth, in [-1, 1]. Returns false if both sides are
// empty.
func (s BookSnapshot) Imbalance() (float64, bool) {
	bidQty := float64(s.TotalBidQuantity())
	askQty := float64(s.TotalAskQuantity())
	total := bidQty + askQty
	if total == 0 {
		return 0, false
	}
	return (bidQty - askQty) / total, true
}

func snapshotLadder(ladder *order_matching.Ladder, depth int) []LevelSnapshot {
	var out []LevelSnapshot
	ladder.IterBestToWorst(func(price types.Price, lvl *order_matching.Level) bool {
		if len(out) >= depth {
			return false
		}
		out = append(out, LevelSnapshot{
			Price:      price,
			Quantity:   lvl.TotalQuantity(),
			OrderCount: lvl.OrderCount(),
		})
		return true
	})
	return out
}

// Depth returns a snapshot of the top `levels` price points on each
// side.
func (e *Exchange) Depth(levels int) BookSnapshot {
	return BookSnapshot{
		Bids:      snapshotLadder(e.book.Bids, levels),
		Asks:      snapshotLadder(e.book.Asks, levels),
		Timestamp: e.book.CurrentTimestamp(),
	}
}

// FullBook returns a snapshot of every level on each side.
func (e *Exchange) FullBook() BookSnapshot {
	return e.Depth(int(^uint(0) >> 1))
}
