package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "below", cfg.ScanDirection)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad direction", func(c *Config) { c.ScanDirection = "sideways" }, "scan_direction"},
		{"bad marker expr", func(c *Config) { c.MarkerExpr = "text contains" }, "marker_expr"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Marker = "jumlah"
	cfg.Workers = 2
	cfg.Sheets = []string{"Sheet1"}

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	cfg.ScanDirection = "nowhere"
	_, err = cfg.Options()
	assert.Error(t, err)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	lvl, err := LogConfig{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = LogConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoader_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.ScanDirection = "above"
	cfg.Marker = "Jumlah"
	require.NoError(t, loader.Save(cfg))
	assert.True(t, loader.Exists())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "above", loaded.ScanDirection)
	assert.Equal(t, "Jumlah", loaded.Marker)
}

func TestLoader_LoadNonExistent(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "missing", "config.yaml"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("marker: total\n"), 0644))

	cfg, err := NewLoaderWithPath(configPath).Load()
	require.NoError(t, err)
	assert.Equal(t, "total", cfg.Marker)
	assert.Equal(t, "below", cfg.ScanDirection)
	assert.True(t, cfg.Journal.Enabled)
}

func TestLoader_LoadInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("scan_direction: left\n"), 0644))

	_, err := NewLoaderWithPath(configPath).Load()
	assert.ErrorContains(t, err, "scan_direction")

	require.NoError(t, os.WriteFile(configPath, []byte("marker: [unterminated\n"), 0644))
	_, err = NewLoaderWithPath(configPath).Load()
	assert.ErrorContains(t, err, "failed to parse")
}

func TestLoader_ExpandEnvVars(t *testing.T) {
	t.Setenv("XLB_TEST_MARKER", "Sub Total")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("marker: ${XLB_TEST_MARKER}\n"), 0644))

	loader := NewLoaderWithPath(configPath)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "Sub Total", cfg.Marker)

	raw, err := loader.LoadRaw()
	require.NoError(t, err)
	assert.Equal(t, "${XLB_TEST_MARKER}", raw.Marker)
}

func TestLoader_Init(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "nested", "config.yaml"))
	require.NoError(t, loader.Init())
	assert.Error(t, loader.Init())
}

func TestLoader_JournalPath(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoaderWithPath(filepath.Join(dir, "config.yaml"))

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(dir, JournalFileName), loader.JournalPath(cfg))

	cfg.Journal.Path = "/tmp/other.db"
	assert.Equal(t, "/tmp/other.db", loader.JournalPath(cfg))
}

func TestNewLoader_EnvOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfigPath, p)

	loader, err := NewLoader()
	require.NoError(t, err)
	assert.Equal(t, p, loader.ConfigPath())
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"invalid", false},
	}
	for _, tc := range tests {
		t.Setenv("XLB_TEST_BOOL", tc.value)
		assert.Equal(t, tc.expected, GetEnvBool("XLB_TEST_BOOL"), "value %q", tc.value)
	}
}
