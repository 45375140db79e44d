// Package config manages the xlbudget command line configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/javajack/xlbudget"
)

// Config represents the application configuration.
type Config struct {
	Marker        string        `yaml:"marker"`
	MarkerExpr    string        `yaml:"marker_expr,omitempty"`
	ScanDirection string        `yaml:"scan_direction"`
	Workers       int           `yaml:"workers"`
	Sheets        []string      `yaml:"sheets,omitempty"`
	Journal       JournalConfig `yaml:"journal"`
	Log           LogConfig     `yaml:"log"`
}

// JournalConfig controls the processing history database.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // defaults to journal.db next to the config file
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ScanDirection: "below",
		Journal: JournalConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := xlbudget.ParseScanDirection(c.ScanDirection); err != nil {
		return fmt.Errorf("scan_direction: %w", err)
	}
	if c.MarkerExpr != "" {
		if _, err := xlbudget.CompileMarkerExpr(c.MarkerExpr); err != nil {
			return fmt.Errorf("marker_expr: %w", err)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must not be negative, got %d", c.Workers)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// Options converts the configuration into processing options.
func (c *Config) Options() ([]xlbudget.Option, error) {
	dir, err := xlbudget.ParseScanDirection(c.ScanDirection)
	if err != nil {
		return nil, err
	}
	opts := []xlbudget.Option{xlbudget.WithScanDirection(dir)}
	if c.Marker != "" {
		opts = append(opts, xlbudget.WithMarker(c.Marker))
	}
	if c.MarkerExpr != "" {
		opts = append(opts, xlbudget.WithMarkerExpr(c.MarkerExpr))
	}
	if c.Workers > 0 {
		opts = append(opts, xlbudget.WithWorkers(c.Workers))
	}
	if len(c.Sheets) > 0 {
		opts = append(opts, xlbudget.WithSheets(c.Sheets...))
	}
	return opts, nil
}

// SlogLevel parses Level. The empty string means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return lvl, nil
}
