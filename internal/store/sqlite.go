package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"TokenTicker/internal/model"
)

// SQLiteStore persists price points to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so HTTP reads are not blocked by the simulator's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_points (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			price     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_symbol_ts ON price_points(symbol, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Insert(p *model.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO price_points (symbol, timestamp, price) VALUES (?,?,?)`,
		p.Symbol, p.Timestamp, p.Price,
	)
	return err
}

func (s *SQLiteStore) FindLatest(symbol string, maxTimestamp int64) (*model.PricePoint, error) {
	query := `SELECT symbol, timestamp, price FROM price_points
		WHERE symbol = ? ORDER BY timestamp DESC LIMIT 1`
	args := []any{symbol}
	if maxTimestamp > 0 {
		query = `SELECT symbol, timestamp, price FROM price_points
			WHERE symbol = ? AND timestamp <= ? ORDER BY timestamp DESC LIMIT 1`
		args = append(args, maxTimestamp)
	}

	p := &model.PricePoint{}
	err := s.db.QueryRow(query, args...).Scan(&p.Symbol, &p.Timestamp, &p.Price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) FindRange(symbol string, minTimestamp, maxTimestamp int64) ([]model.PricePoint, error) {
	rows, err := s.db.Query(`SELECT symbol, timestamp, price FROM price_points
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?`,
		symbol, minTimestamp, maxTimestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	return scanPoints(rows)
}

func (s *SQLiteStore) FindAll(symbol string) ([]model.PricePoint, error) {
	rows, err := s.db.Query(`SELECT symbol, timestamp, price FROM price_points WHERE symbol = ?`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	return scanPoints(rows)
}

func scanPoints(rows *sql.Rows) ([]model.PricePoint, error) {
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Timestamp, &p.Price); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SQLiteStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM price_points`)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
