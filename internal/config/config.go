// Package config loads process settings from the environment and the
// editorial policy from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the folio binary.
type Config struct {
	DBPath       string `env:"FOLIO_DB"`
	PolicyFile   string `env:"FOLIO_POLICY_FILE"`
	LogLevel     string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"FOLIO_LOG_FORMAT" envDefault:"text"`
	HTTPAddr     string `env:"FOLIO_HTTP_ADDR" envDefault:":8080"`
	AcceptTarget string `env:"FOLIO_ACCEPT_TARGET"`
	OTelEndpoint string `env:"FOLIO_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"FOLIO_OTEL_ENABLED" envDefault:"false"`
	// Actor is the default acting user for CLI commands.
	Actor        string `env:"FOLIO_ACTOR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file from the working directory, then the
// environment. Variables already set win over the file.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is fine.
func LoadFrom(dotenv string) (Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", dotenv, err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".folio", "folio.db")
	}
	return cfg, nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
}
