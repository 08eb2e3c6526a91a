package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings read from the environment at startup.
type Config struct {
	Addr             string        `env:"EPIC_ADDR"               envDefault:":3001"`
	MaxMatches       int           `env:"EPIC_MAX_MATCHES"        envDefault:"100"`
	MatchIdleTimeout time.Duration `env:"EPIC_MATCH_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval    time.Duration `env:"EPIC_SWEEP_INTERVAL"     envDefault:"30s"`

	ConnectRate       int           `env:"EPIC_CONNECT_RATE"        envDefault:"100"`
	ConnectRateWindow time.Duration `env:"EPIC_CONNECT_RATE_WINDOW" envDefault:"1m"`
	MessageRate       float64       `env:"EPIC_MESSAGE_RATE"        envDefault:"20"`
	MessageBurst      int           `env:"EPIC_MESSAGE_BURST"       envDefault:"40"`

	ReadLimit      int64         `env:"EPIC_READ_LIMIT"      envDefault:"4096"`
	PongWait       time.Duration `env:"EPIC_PONG_WAIT"       envDefault:"60s"`
	WriteWait      time.Duration `env:"EPIC_WRITE_WAIT"      envDefault:"10s"`
	AllowedOrigins []string      `env:"EPIC_ALLOWED_ORIGINS" envSeparator:","`

	LogLevel       string `env:"EPIC_LOG_LEVEL"       envDefault:"info"`
	LogDevelopment bool   `env:"EPIC_LOG_DEVELOPMENT" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PingPeriod is how often the server pings a peer. It must stay below
// PongWait so a healthy peer never times out.
func (c Config) PingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

func (c Config) Validate() error {
	var errs []error
	positive := func(name string, ok bool) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("EPIC_ADDR must not be empty"))
	}
	positive("EPIC_MAX_MATCHES", c.MaxMatches > 0)
	positive("EPIC_MATCH_IDLE_TIMEOUT", c.MatchIdleTimeout > 0)
	positive("EPIC_SWEEP_INTERVAL", c.SweepInterval > 0)
	positive("EPIC_CONNECT_RATE", c.ConnectRate > 0)
	positive("EPIC_CONNECT_RATE_WINDOW", c.ConnectRateWindow > 0)
	positive("EPIC_MESSAGE_RATE", c.MessageRate > 0)
	positive("EPIC_MESSAGE_BURST", c.MessageBurst > 0)
	positive("EPIC_READ_LIMIT", c.ReadLimit > 0)
	positive("EPIC_PONG_WAIT", c.PongWait > 0)
	positive("EPIC_WRITE_WAIT", c.WriteWait > 0)
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
