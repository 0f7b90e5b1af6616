// Package config loads the settings of the command line tool.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/npillmayer/schuko/tracing"

	"github.com/kookyleo/paranoid-space/width"
)

// Cfg holds the settings read from .env and the environment. Command line
// flags override them.
type Cfg struct {
	EastAsian string // PARANOID_EAST_ASIAN: narrow, wide or auto
	LogLevel  string // PARANOID_LOG_LEVEL: error, info or debug
	Color     string // PARANOID_COLOR: auto, always or never
	Jobs      int    // PARANOID_JOBS: number of files processed concurrently
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	cfg := &Cfg{
		EastAsian: envOr("PARANOID_EAST_ASIAN", "narrow"),
		LogLevel:  envOr("PARANOID_LOG_LEVEL", "error"),
		Color:     envOr("PARANOID_COLOR", "auto"),
		Jobs:      runtime.NumCPU(),
	}
	if raw := strings.TrimSpace(os.Getenv("PARANOID_JOBS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("PARANOID_JOBS must be a positive number, is %q", raw)
		}
		cfg.Jobs = n
	}
	return cfg, cfg.Validate()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return strings.ToLower(v)
	}
	return def
}

// Validate checks the values of cfg.
func (cfg *Cfg) Validate() error {
	if _, err := cfg.WidthContext(); err != nil {
		return err
	}
	if _, err := cfg.TraceLevel(); err != nil {
		return err
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, is %q", cfg.Color)
	}
	if cfg.Jobs < 1 {
		return fmt.Errorf("jobs must be positive, is %d", cfg.Jobs)
	}
	return nil
}

// WidthContext returns the width context selected by EastAsian. auto derives
// it from the user's locale.
func (cfg *Cfg) WidthContext() (*width.Context, error) {
	switch cfg.EastAsian {
	case "narrow", "":
		return width.LatinContext, nil
	case "wide":
		return width.EastAsianContext, nil
	case "auto":
		return width.ContextFromEnvironment(), nil
	}
	return nil, fmt.Errorf("east-asian must be narrow, wide or auto, is %q", cfg.EastAsian)
}

// TraceLevel returns the trace level selected by LogLevel.
func (cfg *Cfg) TraceLevel() (tracing.TraceLevel, error) {
	switch cfg.LogLevel {
	case "debug", "d":
		return tracing.LevelDebug, nil
	case "info", "i":
		return tracing.LevelInfo, nil
	case "error", "e", "":
		return tracing.LevelError, nil
	}
	return tracing.LevelError, fmt.Errorf("log level must be error, info or debug, is %q", cfg.LogLevel)
}
