package store

import "TokenTicker/internal/model"

// Store persists the append-only price series.
type Store interface {
	// Insert appends one point.
	Insert(p *model.PricePoint) error
	// FindLatest returns the point with the greatest timestamp for the
	// symbol, bounded by maxTimestamp when it is positive, or nil when
	// no point matches.
	FindLatest(symbol string, maxTimestamp int64) (*model.PricePoint, error)
	// FindRange returns all points for the symbol with timestamp in
	// [minTimestamp, maxTimestamp], inclusive on both ends.
	FindRange(symbol string, minTimestamp, maxTimestamp int64) ([]model.PricePoint, error)
	// FindAll returns every point for the symbol. Order is not guaranteed.
	FindAll(symbol string) ([]model.PricePoint, error)
	// DeleteAll wipes the entire series. Only the backfill utility calls this.
	DeleteAll() error
	Close() error
}
