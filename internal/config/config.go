package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration shared by the sweep picker binary
// and the chronicler history recorder.
type Config struct {
	Picker     PickerConfig     `yaml:"picker"`
	Chronicler ChroniclerConfig `yaml:"chronicler"`
	Log        LogConfig        `yaml:"log"`
}

// PickerConfig holds the picker's presentation and matching defaults, the
// values a CLI flag on cmd/sweep overrides.
type PickerConfig struct {
	Theme     string            `yaml:"theme"`      // comma-separated fg/bg/accent attribute list
	Height    int               `yaml:"height"`     // rows requested from the terminal, 0 = fullscreen
	Prompt    string            `yaml:"prompt"`     // default prompt text
	Scorer    string            `yaml:"scorer"`     // fuzzy, substr, or keep_order
	KeepOrder bool              `yaml:"keep_order"` // preserve haystack insertion order by default
	Border    bool              `yaml:"border"`
	AltScreen bool              `yaml:"altscreen"`
	Preview   bool              `yaml:"preview"`
	Bindings  map[string]string `yaml:"bindings"` // chord sequence -> action tag, layered over the built-in table
}

// ChroniclerConfig holds history-recorder settings.
type ChroniclerConfig struct {
	DBPath          string `yaml:"db_path"` // overrides the default ~/.local/share/sweep/chronicler/history.db
	CmdPickerTitle  string `yaml:"cmd_picker_title"`
	PathPickerTitle string `yaml:"path_picker_title"`
}

// LogConfig controls where diagnostic logging is written.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // overrides the default cache-dir log path
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			Theme:     "",
			Height:    0,
			Prompt:    "",
			Scorer:    "fuzzy",
			KeepOrder: false,
			Border:    false,
			AltScreen: false,
			Preview:   false,
			Bindings:  map[string]string{},
		},
		Chronicler: ChroniclerConfig{
			DBPath:          "",
			CmdPickerTitle:  "CMD",
			PathPickerTitle: "PATH",
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load reads configuration from the default path, per DefaultPaths.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file. A missing file
// is not an error: it yields the defaults. Environment overrides are
// applied after the file is parsed, and the result is validated.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile writes the configuration to the given path, creating its
// parent directory as needed.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks invariants and returns an error for the first invalid
// value; it does not modify the configuration.
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	if !isValidScorer(c.Picker.Scorer) {
		return fmt.Errorf("picker.scorer must be fuzzy, substr, or keep_order (got: %s)", c.Picker.Scorer)
	}
	if c.Picker.Height < 0 {
		return errors.New("picker.height must be >= 0")
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidScorer(name string) bool {
	switch name {
	case "fuzzy", "substr", "keep_order":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies the SWEEP_-prefixed and CHRONICLER_DB
// environment variable overrides, evaluated after the config file and
// before validation.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SWEEP_LOG_LEVEL"); v != "" && isValidLogLevel(v) {
		c.Log.Level = v
	}
	if v := os.Getenv("SWEEP_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("SWEEP_THEME"); v != "" {
		c.Picker.Theme = v
	}
	if v := os.Getenv("SWEEP_SCORER"); v != "" && isValidScorer(v) {
		c.Picker.Scorer = v
	}
	if v := os.Getenv("CHRONICLER_DB"); v != "" {
		c.Chronicler.DBPath = v
	}
}

// ResolvedDBPath returns the chronicler database path, falling back to the
// XDG default when unset.
func (c *ChroniclerConfig) ResolvedDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return DefaultPaths().ChroniclerDB()
}

// ResolvedLogFile returns the picker's log path, falling back to the XDG
// default when unset.
func (c *LogConfig) ResolvedLogFile() string {
	if c.File != "" {
		return c.File
	}
	return DefaultPaths().LogFile()
}
