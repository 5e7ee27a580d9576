package store

import (
	"sync"

	"TokenTicker/internal/model"
)

// MemoryStore keeps the price series in process memory. Used when SQLite is
// not configured (or fails to open) and as the store for unit tests.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string][]model.PricePoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string][]model.PricePoint)}
}

func (m *MemoryStore) Insert(p *model.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.points[p.Symbol] = append(m.points[p.Symbol], *p)
	return nil
}

func (m *MemoryStore) FindLatest(symbol string, maxTimestamp int64) (*model.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.PricePoint
	for i := range m.points[symbol] {
		p := m.points[symbol][i]
		if maxTimestamp > 0 && p.Timestamp > maxTimestamp {
			continue
		}
		if latest == nil || p.Timestamp >= latest.Timestamp {
			cp := p
			latest = &cp
		}
	}
	return latest, nil
}

func (m *MemoryStore) FindRange(symbol string, minTimestamp, maxTimestamp int64) ([]model.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.PricePoint
	for _, p := range m.points[symbol] {
		if p.Timestamp >= minTimestamp && p.Timestamp <= maxTimestamp {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) FindAll(symbol string) ([]model.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.PricePoint, len(m.points[symbol]))
	copy(out, m.points[symbol])
	return out, nil
}

func (m *MemoryStore) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.points = make(map[string][]model.PricePoint)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
