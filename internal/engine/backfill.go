package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"TokenTicker/internal/model"
)

// Backfill wipes the store and regenerates a full synthetic history: one
// seed point per symbol at start, then one random-walk step per hour up to
// a day past now. Steps run sequentially so the generated series stays in
// chronological order.
func (e *Engine) Backfill(ctx context.Context, start time.Time, seedPrice float64, band Band) error {
	log.Printf("[INFO] backfill starting from %s", start.UTC().Format(time.RFC3339))

	if err := e.store.DeleteAll(); err != nil {
		return fmt.Errorf("wipe store: %w", err)
	}

	for _, symbol := range e.symbols {
		seed := &model.PricePoint{
			Symbol:    symbol,
			Timestamp: start.Unix(),
			Price:     round3(seedPrice),
		}
		if err := e.store.Insert(seed); err != nil {
			return fmt.Errorf("seed %s: %w", symbol, err)
		}
	}

	end := time.Now().Add(24 * time.Hour)
	steps := 0
	for t := start.Add(time.Hour); t.Before(end); t = t.Add(time.Hour) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for _, symbol := range e.symbols {
			if err := e.updateOne(symbol, band, t.Unix()); err != nil {
				return fmt.Errorf("step %s at %d: %w", symbol, t.Unix(), err)
			}
		}
		steps++
	}

	log.Printf("[INFO] backfill done: %d symbols, %d hourly steps", len(e.symbols), steps)
	return nil
}
