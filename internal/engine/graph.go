package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// Windows longer than one day are bucketed per day, shorter ones per hour.
const dayThreshold = 86400

const (
	dayKeyLayout  = "2006-01-02"
	hourKeyLayout = "2006-01-02 15:00:00"
)

// GraphPoint is one bucket of a graph response. It serializes as a
// ["2021-01-01", 1.5] tuple.
type GraphPoint struct {
	Key   string
	Value float64
}

func (g GraphPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{g.Key, g.Value})
}

// Graph returns a gap-free chronological price grid between start and end
// (Unix seconds, inclusive). Every bucket in the window appears in the
// output; buckets without data stay at 0, and a bucket covering several
// points keeps the highest price seen. Bucket keys are UTC.
func (e *Engine) Graph(symbol string, start, end int64) ([]GraphPoint, error) {
	if !e.known(symbol) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if start > end {
		return nil, fmt.Errorf("start %d after end %d", start, end)
	}

	layout, step := dayKeyLayout, 24*time.Hour
	if end-start <= dayThreshold {
		layout, step = hourKeyLayout, time.Hour
	}

	var grid []GraphPoint
	index := make(map[string]int)
	endTime := time.Unix(end, 0).UTC()
	for t := time.Unix(start, 0).UTC(); !t.After(endTime); t = t.Add(step) {
		key := t.Format(layout)
		index[key] = len(grid)
		grid = append(grid, GraphPoint{Key: key})
	}

	points, err := e.store.FindRange(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("find range: %w", err)
	}
	for _, p := range points {
		key := time.Unix(p.Timestamp, 0).UTC().Format(layout)
		if i, ok := index[key]; ok && p.Price > grid[i].Value {
			grid[i].Value = p.Price
		}
	}
	return grid, nil
}
