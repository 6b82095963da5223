// Package config resolves runtime settings from an optional YAML file and
// PLANLINE_* environment variables, in that order.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/planline/internal/evm"
	"github.com/alexanderramin/planline/internal/rollup"
	"gopkg.in/yaml.v3"
)

type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// Config holds every setting the CLI wires into services.
type Config struct {
	DBPath         string    `yaml:"db"`
	LogLevel       string    `yaml:"log_level"`
	LogFormat      LogFormat `yaml:"log_format"`
	LogUseCases    bool      `yaml:"log_usecases"`
	MaxWeeks       int       `yaml:"max_weeks"`
	RollupMaxDepth int       `yaml:"rollup_max_depth"`
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// under the user's home directory.
func DefaultConfig() Config {
	dbPath := "planline.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".planline", "planline.db")
	}
	return Config{
		DBPath:         dbPath,
		LogLevel:       "warn",
		LogFormat:      LogText,
		LogUseCases:    false,
		MaxWeeks:       evm.MaxWeeks,
		RollupMaxDepth: rollup.DefaultMaxDepth,
	}
}

// LoadConfig overlays PLANLINE_CONFIG (if set) and then environment variables
// on the defaults. Unparsable env values are ignored; a broken config file is
// an error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("PLANLINE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("PLANLINE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PLANLINE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLANLINE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = LogFormat(strings.ToLower(v))
	}
	if v := os.Getenv("PLANLINE_LOG_USECASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
	if v := os.Getenv("PLANLINE_MAX_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWeeks = n
		}
	}
	if v := os.Getenv("PLANLINE_ROLLUP_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RollupMaxDepth = n
		}
	}

	cfg.clamp()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// clamp keeps the bucket cap within 1..evm.MaxWeeks; configuration may lower
// the cap but never raise it.
func (c *Config) clamp() {
	if c.MaxWeeks <= 0 || c.MaxWeeks > evm.MaxWeeks {
		c.MaxWeeks = evm.MaxWeeks
	}
	if c.RollupMaxDepth <= 0 {
		c.RollupMaxDepth = rollup.DefaultMaxDepth
	}
	if c.LogFormat != LogJSON {
		c.LogFormat = LogText
	}
}

// Level maps LogLevel onto slog; unknown names fall back to warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
