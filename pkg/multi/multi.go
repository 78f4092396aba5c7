// Package multi holds one matching.Exchange per symbol: the entry
// point for multi-asset simulations where each symbol owns an
// independent book.
package multi

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/abdoElHodaky/nanobook/pkg/matching"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// Exchange is a per-symbol exchange instance.
type Exchange = matching.Exchange

// SymbolPrices is one symbol's best bid/ask, as returned by
// BestPrices.
type SymbolPrices struct {
	Symbol types.Symbol
	Bid    types.Price
	HasBid bool
	Ask    types.Price
	HasAsk bool
}

// MultiExchange owns one exchange per symbol. Symbols are single-owner
// the way any one exchange is (§5): nothing in this package synchronizes
// concurrent access to the same symbol's exchange, only the read-only
// cross-symbol fan-out in BestPrices.
type MultiExchange struct {
	exchanges map[types.Symbol]*Exchange
	opts      []matching.Option
}

// New creates an empty multi-exchange. opts are applied to every
// exchange created by GetOrCreate.
func New(opts ...matching.Option) *MultiExchange {
	return &MultiExchange{
		exchanges: make(map[types.Symbol]*Exchange),
		opts:      opts,
	}
}

// GetOrCreate returns the exchange for symbol, creating it lazily.
func (m *MultiExchange) GetOrCreate(symbol types.Symbol) *Exchange {
	if ex, ok := m.exchanges[symbol]; ok {
		return ex
	}
	ex := matching.NewExchange(m.opts...)
	m.exchanges[symbol] = ex
	return ex
}

// Get returns the exchange for symbol, if it exists.
func (m *MultiExchange) Get(symbol types.Symbol) (*Exchange, bool) {
	ex, ok := m.exchanges[symbol]
	return ex, ok
}

// Symbols returns every symbol with an exchange.
func (m *MultiExchange) Symbols() []types.Symbol {
	out := make([]types.Symbol, 0, len(m.exchanges))
	for sym := range m.exchanges {
		out = append(out, sym)
	}
	return out
}

// Len returns the number of symbols.
func (m *MultiExchange) Len() int { return len(m.exchanges) }

// IsEmpty reports whether no exchanges exist.
func (m *MultiExchange) IsEmpty() bool { return len(m.exchanges) == 0 }

// BestPrices returns the best bid/ask for every symbol, fanning the
// per-symbol best-price reads out across a bounded worker pool. Each
// worker touches exactly one symbol's exchange, read-only, so this
// does not violate the single-owner contract.
func (m *MultiExchange) BestPrices() []SymbolPrices {
	syms := m.Symbols()
	results := make([]SymbolPrices, len(syms))

	pool, err := ants.NewPool(poolSize(len(syms)))
	if err != nil {
		// Fall back to sequential reads; a pool allocation failure
		// should not make BestPrices unusable.
		for i, sym := range syms {
			results[i] = m.bestPricesFor(sym)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, sym := range syms {
		i, sym := i, sym
		wg.Add(1)
		_ = pool.Submit(func() {
			defer wg.Done()
			results[i] = m.bestPricesFor(sym)
		})
	}
	wg.Wait()
	return results
}

func (m *MultiExchange) bestPricesFor(sym types.Symbol) SymbolPrices {
	ex := m.exchanges[sym]
	bid, hasBid := ex.BestBid()
	ask, hasAsk := ex.BestAsk()
	return SymbolPrices{Symbol: sym, Bid: bid, HasBid: hasBid, Ask: ask, HasAsk: hasAsk}
}

func poolSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > 64 {
		return 64
	}
	return n
}
