package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"` // DEV enables permissive CORS
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Simulator struct {
		Symbols  []string `yaml:"symbols"`
		Cron     string   `yaml:"cron"`
		MinRange float64  `yaml:"min_range"`
		MaxRange float64  `yaml:"max_range"`
	} `yaml:"simulator"`
	Backfill struct {
		StartDate string  `yaml:"start_date"` // YYYY-MM-DD, UTC
		SeedPrice float64 `yaml:"seed_price"`
		MinRange  float64 `yaml:"min_range"`
		MaxRange  float64 `yaml:"max_range"`
	} `yaml:"backfill"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Simulator.Symbols = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Simulator.Symbols = append(cfg.Simulator.Symbols, s)
			}
		}
	}
	if v := os.Getenv("PRICE_CRON"); v != "" {
		cfg.Simulator.Cron = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/token_prices.db"
	}
	if len(cfg.Simulator.Symbols) == 0 {
		cfg.Simulator.Symbols = []string{"QCH", "ST"}
	}
	if cfg.Simulator.Cron == "" {
		cfg.Simulator.Cron = "*/10 * * * * *"
	}
	if cfg.Simulator.MinRange == 0 {
		cfg.Simulator.MinRange = 0.999
	}
	if cfg.Simulator.MaxRange == 0 {
		cfg.Simulator.MaxRange = 1.002
	}
	if cfg.Backfill.StartDate == "" {
		cfg.Backfill.StartDate = "2021-06-01"
	}
	if cfg.Backfill.SeedPrice == 0 {
		cfg.Backfill.SeedPrice = 1000
	}
	if cfg.Backfill.MinRange == 0 {
		cfg.Backfill.MinRange = 0.95
	}
	if cfg.Backfill.MaxRange == 0 {
		cfg.Backfill.MaxRange = 1.07
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if len(c.Simulator.Symbols) == 0 {
		return fmt.Errorf("simulator.symbols must not be empty")
	}
	if c.Simulator.MinRange <= 0 || c.Simulator.MinRange > c.Simulator.MaxRange {
		return fmt.Errorf("simulator range [%v, %v] is invalid", c.Simulator.MinRange, c.Simulator.MaxRange)
	}
	if c.Backfill.MinRange <= 0 || c.Backfill.MinRange > c.Backfill.MaxRange {
		return fmt.Errorf("backfill range [%v, %v] is invalid", c.Backfill.MinRange, c.Backfill.MaxRange)
	}
	if _, err := c.BackfillStart(); err != nil {
		return fmt.Errorf("backfill.start_date: %w", err)
	}
	return nil
}

// BackfillStart parses the configured backfill start date in UTC.
func (c *Config) BackfillStart() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", c.Backfill.StartDate, time.UTC)
}
