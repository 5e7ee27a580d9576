package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"TokenTicker/internal/engine"
	"TokenTicker/internal/model"
	"TokenTicker/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	eng := engine.New(st, []string{"QCH", "ST"}, rand.New(rand.NewSource(1)))
	srv := New(eng, ":0", "TEST", func(ctx context.Context) error { return nil })
	return srv, st
}

func doRequest(srv *Server, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	srv.http.Handler.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, st store.Store, symbol string, ts int64, price float64) {
	t.Helper()
	if err := st.Insert(&model.PricePoint{Symbol: symbol, Timestamp: ts, Price: price}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestGetPrice(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, "ST", 100, 1234)
	seed(t, st, "ST", 200, 1250.5)

	w := doRequest(srv, http.MethodGet, "/price?symbol=ST")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Price != 1250.5 {
		t.Errorf("expected latest price 1250.5, got %v", resp.Price)
	}
}

func TestGetPrice_WithTimestampBound(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, "ST", 100, 1234)
	seed(t, st, "ST", 200, 1250.5)

	w := doRequest(srv, http.MethodGet, "/price?symbol=ST&timestamp=150")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Price != 1234 {
		t.Errorf("expected bounded price 1234, got %v", resp.Price)
	}
}

func TestGetPrice_NotFound(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, "ST", 100, 1234)

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"missing symbol param", "/price", http.StatusNotFound},
		{"unknown symbol", "/price?symbol=DOGE", http.StatusNotFound},
		{"known symbol without data", "/price?symbol=QCH", http.StatusNotFound},
		{"bound before first point", "/price?symbol=ST&timestamp=50", http.StatusNotFound},
		{"malformed timestamp", "/price?symbol=ST&timestamp=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(srv, http.MethodGet, tt.target); w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetHistory(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, "ST", 200, 2)
	seed(t, st, "ST", 100, 1)

	w := doRequest(srv, http.MethodGet, "/price/history?symbol=ST")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var entries []struct {
		Timestamp int64   `json:"timestamp"`
		Price     float64 `json:"price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp != 100 || entries[1].Timestamp != 200 {
		t.Errorf("expected chronological order, got %+v", entries)
	}
}

func TestGetHistory_UnknownSymbol(t *testing.T) {
	srv, _ := newTestServer(t)

	if w := doRequest(srv, http.MethodGet, "/price/history?symbol=DOGE"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetGraph(t *testing.T) {
	srv, st := newTestServer(t)
	// 2021-06-01 12:00:00 UTC
	seed(t, st, "ST", 1622548800, 5)

	// Three-day window, daily buckets: 2021-06-01 .. 2021-06-03.
	w := doRequest(srv, http.MethodGet, "/price/graph?symbol=ST&start_date=1622505600&end_date=1622678400")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var buckets [][2]any
	if err := json.Unmarshal(w.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	if buckets[0][0] != "2021-06-01" || buckets[0][1].(float64) != 5 {
		t.Errorf("unexpected first bucket: %v", buckets[0])
	}
	if buckets[2][1].(float64) != 0 {
		t.Errorf("expected empty trailing bucket, got %v", buckets[2])
	}
}

func TestGetGraph_BadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"missing bounds", "/price/graph?symbol=ST", http.StatusBadRequest},
		{"malformed start", "/price/graph?symbol=ST&start_date=x&end_date=100", http.StatusBadRequest},
		{"inverted bounds", "/price/graph?symbol=ST&start_date=100&end_date=50", http.StatusBadRequest},
		{"unknown symbol", "/price/graph?symbol=DOGE&start_date=0&end_date=100", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(srv, http.MethodGet, tt.target); w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestPostBackfill(t *testing.T) {
	srv, _ := newTestServer(t)

	if w := doRequest(srv, http.MethodPost, "/admin/backfill"); w.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	if w := doRequest(srv, http.MethodGet, "/health"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
