package engine

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"TokenTicker/internal/model"
	"TokenTicker/internal/store"
)

var (
	// ErrUnknownSymbol means the requested symbol is not simulated.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrNoData means the symbol is known but no point matches the query.
	ErrNoData = errors.New("no price data")
)

// Band bounds the multiplicative jitter of one random-walk step.
type Band struct {
	Min float64
	Max float64
}

// Engine advances simulated token prices and answers read queries over the
// persisted series.
type Engine struct {
	store   store.Store
	symbols []string

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

// New creates an Engine simulating the given symbols. The symbol set is
// fixed for the lifetime of the engine. rng is injectable so tests can pin
// the walk factor.
func New(st store.Store, symbols []string, rng *rand.Rand) *Engine {
	return &Engine{
		store:   st,
		symbols: append([]string(nil), symbols...),
		rng:     rng,
	}
}

func (e *Engine) known(symbol string) bool {
	for _, s := range e.symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

func (e *Engine) factor(band Band) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return band.Min + e.rng.Float64()*(band.Max-band.Min)
}

// UpdateAll advances every known symbol's price by one random-walk step.
// Symbols are processed concurrently and independently: a symbol with no
// prior point is skipped, and a failure on one symbol never blocks the
// others. tsOverride stamps the new points when positive (backfill), else
// wall-clock seconds are used.
func (e *Engine) UpdateAll(band Band, tsOverride int64) {
	var wg sync.WaitGroup
	for _, symbol := range e.symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			if err := e.updateOne(symbol, band, tsOverride); err != nil {
				log.Printf("[ERROR] update %s: %v", symbol, err)
			}
		}(symbol)
	}
	wg.Wait()
}

func (e *Engine) updateOne(symbol string, band Band, tsOverride int64) error {
	last, err := e.store.FindLatest(symbol, 0)
	if err != nil {
		return fmt.Errorf("find latest: %w", err)
	}
	if last == nil {
		// Nothing to walk from. Not an error: the symbol simply has
		// no seeded history yet.
		return nil
	}

	ts := tsOverride
	if ts <= 0 {
		ts = time.Now().Unix()
	}

	next := &model.PricePoint{
		Symbol:    symbol,
		Timestamp: ts,
		Price:     round3(math.Max(last.Price*e.factor(band), 0)),
	}
	if err := e.store.Insert(next); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// LatestPrice returns the symbol's price as of maxTimestamp, or the most
// recent price when maxTimestamp <= 0.
func (e *Engine) LatestPrice(symbol string, maxTimestamp int64) (float64, error) {
	if !e.known(symbol) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	p, err := e.store.FindLatest(symbol, maxTimestamp)
	if err != nil {
		return 0, fmt.Errorf("find latest: %w", err)
	}
	if p == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return p.Price, nil
}

// History returns every recorded point for the symbol, sorted by timestamp
// ascending. The store does not guarantee order, so sorting happens here.
func (e *Engine) History(symbol string) ([]model.PricePoint, error) {
	if !e.known(symbol) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	points, err := e.store.FindAll(symbol)
	if err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
