package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"TokenTicker/internal/engine"
)

// Server exposes the price engine over HTTP.
type Server struct {
	engine *engine.Engine
	http   *http.Server

	backfill backfillFunc
	running  chan struct{} // capacity 1, holds the backfill slot
}

// backfillFunc regenerates the synthetic history; wired from main so the
// server does not need the backfill configuration.
type backfillFunc func(ctx context.Context) error

// New builds the router and wraps it in an http.Server listening on addr.
// DEV mode enables permissive CORS for local frontends.
func New(eng *engine.Engine, addr, mode string, backfill func(ctx context.Context) error) *Server {
	if mode != "DEV" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:   eng,
		backfill: backfill,
		running:  make(chan struct{}, 1),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if mode == "DEV" {
		r.Use(cors.Default())
	}

	r.GET("/price", s.getPrice)
	r.GET("/price/history", s.getHistory)
	r.GET("/price/graph", s.getGraph)
	r.POST("/admin/backfill", s.postBackfill)
	r.GET("/health", s.getHealth)
	r.GET("/docs", s.getDocs)

	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}
