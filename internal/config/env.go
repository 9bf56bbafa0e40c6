package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Env is process configuration read from the environment. Command line flags
// take precedence over it.
type Env struct {
	DataDir  string `env:"ATTRACTORS_DATA_DIR"  envDefault:".attractors"`
	Store    string `env:"ATTRACTORS_STORE"     envDefault:"file"`
	LogLevel string `env:"ATTRACTORS_LOG_LEVEL" envDefault:"info"`
	Workers  int    `env:"ATTRACTORS_WORKERS"   envDefault:"0"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Env{}, err
	}
	return e, nil
}

func (e Env) Validate() error {
	switch e.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", e.Store, StoreFile, StoreSQLite)
	}
	if e.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", e.Workers)
	}
	_, err := ParseLevel(e.LogLevel)
	return err
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}
