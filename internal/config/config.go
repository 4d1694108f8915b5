// Package config loads the directory SDK settings from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Store modes accepted by RESTAURANTS_STORE_MODE.
const (
	StoreModeAuto     = "auto"
	StoreModeSQLite   = "sqlite"
	StoreModeMemory   = "memory"
	StoreModeDisabled = "disabled"
)

// DefaultAPIURL is the endpoint served by the development data server.
const DefaultAPIURL = "http://localhost:1337/restaurants"

// Config is the environment-driven configuration of the directory.
type Config struct {
	APIURL       string        `env:"RESTAURANTS_API_URL" envDefault:"http://localhost:1337/restaurants"`
	StoreMode    string        `env:"RESTAURANTS_STORE_MODE" envDefault:"auto"`
	StorePath    string        `env:"RESTAURANTS_STORE_PATH"`
	StoreSeed    string        `env:"RESTAURANTS_STORE_SEED"`
	HTTPTimeout  time.Duration `env:"RESTAURANTS_HTTP_TIMEOUT" envDefault:"10s"`
	FetchRetries int           `env:"RESTAURANTS_FETCH_RETRIES" envDefault:"0"`
	LogLevel     string        `env:"RESTAURANTS_LOG_LEVEL" envDefault:"info"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the supplied variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreMode = strings.ToLower(strings.TrimSpace(cfg.StoreMode))
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	cfg.StorePath = strings.TrimSpace(cfg.StorePath)
	cfg.StoreSeed = strings.TrimSpace(cfg.StoreSeed)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("config: RESTAURANTS_API_URL is required")
	}
	switch c.StoreMode {
	case StoreModeAuto, StoreModeMemory, StoreModeDisabled:
	case StoreModeSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("config: store mode %q requires RESTAURANTS_STORE_PATH", c.StoreMode)
		}
	default:
		return fmt.Errorf("config: unsupported RESTAURANTS_STORE_MODE value %q", c.StoreMode)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: RESTAURANTS_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("config: RESTAURANTS_FETCH_RETRIES must not be negative, got %d", c.FetchRetries)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the zap level named by LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: RESTAURANTS_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
