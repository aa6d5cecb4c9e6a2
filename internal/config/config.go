// Package config loads runtime settings from CARDSIM_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process settings shared by every command.
type Config struct {
	DBPath        string        `env:"CARDSIM_DB_PATH"        envDefault:"cardsim.db"`
	Addr          string        `env:"CARDSIM_ADDR"           envDefault:":8077"`
	LogLevel      string        `env:"CARDSIM_LOG_LEVEL"      envDefault:"info"`
	LogDev        bool          `env:"CARDSIM_LOG_DEV"        envDefault:"false"`
	FlushSize     int           `env:"CARDSIM_FLUSH_SIZE"     envDefault:"50"`
	ScriptTimeout time.Duration `env:"CARDSIM_SCRIPT_TIMEOUT" envDefault:"1s"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.FlushSize <= 0 {
		return Config{}, fmt.Errorf("config: CARDSIM_FLUSH_SIZE must be positive, got %d", cfg.FlushSize)
	}
	if cfg.ScriptTimeout <= 0 {
		return Config{}, fmt.Errorf("config: CARDSIM_SCRIPT_TIMEOUT must be positive, got %s", cfg.ScriptTimeout)
	}
	return cfg, nil
}
