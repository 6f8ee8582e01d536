// Package config loads runtime settings from the environment.
//
// Outside production a .env file in the working directory is loaded first;
// variables already present in the environment take precedence over it.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvGoEnv      = "GO_ENV"
	EnvAddr       = "HXTODO_ADDR"
	EnvBackendURL = "HXTODO_BACKEND_URL"
	EnvSecret     = "HXTODO_SECRET"
	EnvSensitive  = "HXTODO_SENSITIVE"
	EnvLive       = "HXTODO_LIVE"
	EnvLogLevel   = "HXTODO_LOG_LEVEL"
	EnvLogFormat  = "HXTODO_LOG_FORMAT"
	EnvBackendDB  = "TODO_BACKEND_DB"
	EnvBackendAdr = "TODO_BACKEND_ADDR"
)

// Config holds the settings of both binaries.
type Config struct {
	Env string

	// Addr is the listen address of the app.
	Addr string
	// BackendURL is the REST backend root the app talks to.
	BackendURL string
	// Secret keys the action payload encoder. Generated when empty outside
	// production.
	Secret []byte
	// SecretGenerated is set when Secret was generated for this process.
	// Tokens on pages served before a restart will then fail to decode.
	SecretGenerated bool
	// Sensitive encrypts action payloads instead of signing them.
	Sensitive bool
	// Live enables the websocket push of list updates.
	Live bool

	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	// BackendAddr and BackendDB configure the development backend.
	BackendAddr string
	BackendDB   string
}

// LoadENV loads .env unless GO_ENV names a non-development environment.
// A missing .env file is not an error.
func LoadENV() error {
	goEnv := os.Getenv(EnvGoEnv)
	if goEnv != "" && goEnv != "development" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Get reads the configuration from the environment, applying defaults.
func Get() (*Config, error) {
	cfg := &Config{
		Env:         getenv(EnvGoEnv, "development"),
		Addr:        getenv(EnvAddr, ":8080"),
		BackendURL:  getenv(EnvBackendURL, "http://localhost:3000"),
		Secret:      []byte(os.Getenv(EnvSecret)),
		LogFormat:   strings.ToLower(getenv(EnvLogFormat, "text")),
		BackendAddr: getenv(EnvBackendAdr, ":3000"),
		BackendDB:   getenv(EnvBackendDB, "todos.sqlite3"),
		Live:        true,
	}

	var err error
	if v := os.Getenv(EnvSensitive); v != "" {
		if cfg.Sensitive, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvSensitive, err)
		}
	}
	if v := os.Getenv(EnvLive); v != "" {
		if cfg.Live, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLive, err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%s: unknown format %q", EnvLogFormat, cfg.LogFormat)
	}

	if len(cfg.Secret) == 0 {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("%s must be set in production", EnvSecret)
		}
		cfg.SecretGenerated = true
		cfg.Secret = make([]byte, 32)
		if _, err := rand.Read(cfg.Secret); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with GO_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Logger builds the process logger described by the config.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
