package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = ".xlbudget"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
	// JournalFileName is the default journal database file name.
	JournalFileName = "journal.db"
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "XLBUDGET_CONFIG"
)

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Loader handles configuration loading and saving.
type Loader struct {
	configDir  string
	configPath string
}

// NewLoader creates a loader for $XLBUDGET_CONFIG, or ~/.xlbudget/config.yaml.
func NewLoader() (*Loader, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return NewLoaderWithPath(p), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewLoaderWithPath(filepath.Join(homeDir, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath creates a loader with a custom config path.
func NewLoaderWithPath(configPath string) *Loader {
	return &Loader{
		configDir:  filepath.Dir(configPath),
		configPath: configPath,
	}
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// JournalPath returns the journal database path for cfg.
func (l *Loader) JournalPath(cfg *Config) string {
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path
	}
	return filepath.Join(l.configDir, JournalFileName)
}

// Load reads the configuration file, expands ${VAR} references and validates
// the result. A missing file yields DefaultConfig.
func (l *Loader) Load() (*Config, error) {
	data, err := l.read()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return DefaultConfig(), nil
	}
	cfg, err := parse([]byte(expandEnvVars(string(data))))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", l.configPath, err)
	}
	return cfg, nil
}

// LoadRaw reads the configuration without expanding environment variables.
func (l *Loader) LoadRaw() (*Config, error) {
	data, err := l.read()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return DefaultConfig(), nil
	}
	return parse(data)
}

func (l *Loader) read() ([]byte, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// parse decodes data over the defaults so omitted keys keep their default.
func parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the file.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.configPath)
	return err == nil
}

// Init creates a default configuration file.
func (l *Loader) Init() error {
	if l.Exists() {
		return fmt.Errorf("config file already exists: %s", l.configPath)
	}
	return l.Save(DefaultConfig())
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values. Unset
// variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// GetEnvBool returns true if the environment variable is set to "true", "1" or "yes".
func GetEnvBool(key string) bool {
	value := strings.ToLower(os.Getenv(key))
	return value == "true" || value == "1" || value == "yes"
}
