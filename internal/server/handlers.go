package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"TokenTicker/internal/engine"
)

type priceResponse struct {
	Price float64 `json:"price"`
}

type historyEntry struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// getPrice handles GET /price?symbol=ST&timestamp=1622505600.
// timestamp is optional and bounds the lookup; without it the most recent
// point wins.
func (s *Server) getPrice(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "symbol not found"})
		return
	}

	var maxTimestamp int64
	if v := c.Query("timestamp"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp must be an integer"})
			return
		}
		maxTimestamp = ts
	}

	price, err := s.engine.LatestPrice(symbol, maxTimestamp)
	if err != nil {
		s.writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, priceResponse{Price: price})
}

// getHistory handles GET /price/history?symbol=ST.
func (s *Server) getHistory(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "symbol not found"})
		return
	}

	points, err := s.engine.History(symbol)
	if err != nil {
		s.writeQueryError(c, err)
		return
	}

	entries := make([]historyEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, historyEntry{Timestamp: p.Timestamp, Price: p.Price})
	}
	c.JSON(http.StatusOK, entries)
}

// getGraph handles GET /price/graph?symbol=ST&start_date=...&end_date=...
// where both bounds are Unix seconds.
func (s *Server) getGraph(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "symbol not found"})
		return
	}

	start, err := strconv.ParseInt(c.Query("start_date"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be an integer"})
		return
	}
	end, err := strconv.ParseInt(c.Query("end_date"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be an integer"})
		return
	}
	if start > end {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must not be after end_date"})
		return
	}

	graph, err := s.engine.Graph(symbol, start, end)
	if err != nil {
		s.writeQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

// postBackfill handles POST /admin/backfill. The regeneration runs in the
// background; a second trigger while one is running is refused.
func (s *Server) postBackfill(c *gin.Context) {
	select {
	case s.running <- struct{}{}:
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "backfill already running"})
		return
	}

	go func() {
		defer func() { <-s.running }()
		if err := s.backfill(context.Background()); err != nil {
			log.Printf("[ERROR] backfill: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "backfill started"})
}

func (s *Server) writeQueryError(c *gin.Context, err error) {
	if errors.Is(err, engine.ErrUnknownSymbol) || errors.Is(err, engine.ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[ERROR] query: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
