package model

// PricePoint is a single immutable observation of a token's price.
// Points are append-only: the simulator writes one per symbol per tick
// and nothing ever mutates or deletes them afterwards (the backfill
// utility wipes the whole series, never individual points).
type PricePoint struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"` // Unix seconds
	Price     float64 `json:"price"`     // non-negative, 3 decimal places
}
