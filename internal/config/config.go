// Package config loads host configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration of the autotimer. Command-line flags
// override values read from the environment.
type Config struct {
	Host         string        `env:"AUTOTIMER_HOST"          envDefault:"127.0.0.1"`
	Port         int           `env:"AUTOTIMER_PORT"          envDefault:"8080"`
	PollInterval time.Duration `env:"AUTOTIMER_POLL_INTERVAL" envDefault:"12ms"`
	DB           string        `env:"AUTOTIMER_DB"            envDefault:"autotimer.db"`
	NonRace      bool          `env:"AUTOTIMER_NON_RACE"`
	Verbosity    int           `env:"AUTOTIMER_VERBOSITY"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values the producer and engine cannot work with.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("config: host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %s", c.PollInterval)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("config: verbosity must not be negative, got %d", c.Verbosity)
	}
	return nil
}
