package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"TokenTicker/internal/config"
	"TokenTicker/internal/engine"
	"TokenTicker/internal/scheduler"
	"TokenTicker/internal/server"
	"TokenTicker/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TokenTicker starting...")

	// .env is optional; real env vars always win.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using in-memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init engine
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	eng := engine.New(st, cfg.Simulator.Symbols, rng)
	log.Printf("[INFO] simulating symbols: %v", cfg.Simulator.Symbols)

	backfillStart, _ := cfg.BackfillStart()
	backfill := func(ctx context.Context) error {
		return eng.Backfill(ctx, backfillStart, cfg.Backfill.SeedPrice, engine.Band{
			Min: cfg.Backfill.MinRange,
			Max: cfg.Backfill.MaxRange,
		})
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.New(eng)
	liveBand := engine.Band{Min: cfg.Simulator.MinRange, Max: cfg.Simulator.MaxRange}
	if err := sched.Register(cfg.Simulator.Cron, liveBand); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP server
	srv := server.New(eng, ":"+cfg.Server.Port, cfg.Server.Mode, backfill)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Optional: regenerate history on start
	if os.Getenv("BACKFILL_ON_START") == "true" {
		log.Println("[INFO] BACKFILL_ON_START enabled, regenerating history")
		go func() {
			if err := backfill(ctx); err != nil {
				log.Printf("[ERROR] backfill on start: %v", err)
			}
		}()
	}

	log.Println("[INFO] TokenTicker is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] TokenTicker stopped")
}
