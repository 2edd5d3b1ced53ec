// Package config resolves run settings from defaults, the environment (with
// an optional .env file) and command-line overrides, in that order.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvWorkers   = "UNITYMAP_WORKERS"
	EnvLogLevel  = "UNITYMAP_LOG_LEVEL"
	EnvLogFormat = "UNITYMAP_LOG_FORMAT"
	EnvIndent    = "UNITYMAP_INDENT"
)

// Config holds everything a run needs.
type Config struct {
	ProjectDir string
	OutputDir  string
	Workers    int
	LogLevel   string // debug | info | warn | error
	LogFormat  string // text | json
	Indent     string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ProjectDir: ".",
		OutputDir:  ".",
		Workers:    runtime.GOMAXPROCS(0),
		LogLevel:   "info",
		LogFormat:  "text",
		Indent:     "--",
	}
}

// FromEnv returns Default overridden by UNITYMAP_* variables. A .env file in
// the working directory is loaded first when present; variables that are
// already set win over it.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if raw := strings.TrimSpace(os.Getenv(EnvWorkers)); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvWorkers, raw, err)
		}
		cfg.Workers = workers
	}
	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		cfg.LogLevel = strings.ToLower(raw)
	}
	if raw := strings.TrimSpace(os.Getenv(EnvLogFormat)); raw != "" {
		cfg.LogFormat = strings.ToLower(raw)
	}
	if raw := os.Getenv(EnvIndent); raw != "" {
		cfg.Indent = raw
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings a run cannot use.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q (supported: debug, info, warn, error)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (supported: text, json)", c.LogFormat)
	}
	if c.Indent == "" {
		return fmt.Errorf("indent must not be empty")
	}
	return nil
}
