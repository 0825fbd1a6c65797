// Package config holds every tunable of the finder. A YAML file supplies
// overrides on top of the defaults, and the environment wins over both.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// Primary board/listing database.
	DBPath string `yaml:"db_path" env:"DB_PATH"`

	// HTTP page cache database, kept separate so it can be wiped freely.
	CacheDBPath string `yaml:"cache_db_path" env:"CACHE_DB_PATH"`

	// Delay between requests to the same site.
	ScrapeDelayMs int `yaml:"scrape_delay_ms" env:"SCRAPE_DELAY_MS"`

	// Conversion rate applied to Korean retailer prices.
	KRWToUSDRate float64 `yaml:"krw_to_usd_rate" env:"KRW_TO_USD_RATE"`

	// Scrapers running at once.
	MaxConcurrentRetailers int `yaml:"max_concurrent_retailers" env:"MAX_CONCURRENT_RETAILERS"`

	Fetch   FetchConfig   `yaml:"fetch"`
	Logging LoggingConfig `yaml:"logging"`
}

// FetchConfig tunes the two HTTP paths. Browser pages get a longer leash
// because rendering is part of the wait.
type FetchConfig struct {
	PlainTimeout   string `yaml:"plain_timeout"`
	BrowserTimeout string `yaml:"browser_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DBPath:                 "data/snowboard-finder.db",
		CacheDBPath:            "data/http-cache.db",
		ScrapeDelayMs:          1000,
		KRWToUSDRate:           0.00074,
		MaxConcurrentRetailers: 3,
		Fetch: FetchConfig{
			PlainTimeout:   "15s",
			BrowserTimeout: "45s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file. A missing file is not an
// error; defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ScrapeDelayMs < 0 {
		return fmt.Errorf("scrape_delay_ms must be >= 0, got %d", c.ScrapeDelayMs)
	}
	if c.MaxConcurrentRetailers < 1 {
		return fmt.Errorf("max_concurrent_retailers must be >= 1, got %d", c.MaxConcurrentRetailers)
	}
	if c.KRWToUSDRate <= 0 {
		return fmt.Errorf("krw_to_usd_rate must be > 0, got %g", c.KRWToUSDRate)
	}
	return nil
}

// ScrapeDelay returns the inter-request delay as a duration.
func (c *Config) ScrapeDelay() time.Duration {
	return time.Duration(c.ScrapeDelayMs) * time.Millisecond
}

// CurrencyRates returns the conversion table the coalescer prices listings
// with. USD needs no entry.
func (c *Config) CurrencyRates() map[string]float64 {
	return map[string]float64{"KRW": c.KRWToUSDRate}
}

// PlainTimeout returns the plain HTTP timeout as a duration.
func (c *Config) PlainTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.PlainTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// BrowserTimeout returns the browser page timeout as a duration.
func (c *Config) BrowserTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.BrowserTimeout)
	if err != nil {
		return 45 * time.Second
	}
	return d
}
