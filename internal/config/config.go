package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Session defaults
	Session SessionConfig `toml:"session"`

	// Safety limits
	Limits LimitsConfig `toml:"limits"`

	// Card data source
	Data DataConfig `toml:"data"`

	// Report output
	Output OutputConfig `toml:"output"`

	// Results database
	Storage StorageConfig `toml:"storage"`

	// Watch mode
	Watch WatchConfig `toml:"watch"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// SessionConfig contains default session parameters. CLI flags override
// every field here.
type SessionConfig struct {
	Matches         int    `toml:"matches"`          // Number of matches per session
	BaseSeed        int64  `toml:"base_seed"`        // Session base seed (0 = random)
	DifficultyP1    string `toml:"difficulty_p1"`    // Oracle profile for player 1
	DifficultyP2    string `toml:"difficulty_p2"`    // Oracle profile for player 2
	AllCombinations bool   `toml:"all_combinations"` // Run every champion pairing
}

// LimitsConfig contains the per-match safety bounds. All limits are
// counters, never wall-clock durations.
type LimitsConfig struct {
	MaxRounds          int `toml:"max_rounds"`           // Round cap before HP tiebreak
	MaxActionsPerTurn  int `toml:"max_actions_per_turn"` // Action cap within one turn
	MaxConsecutivePass int `toml:"max_consecutive_pass"` // Full-turn passes before stalemate
	MaxIterations      int `toml:"max_iterations"`       // Hard ceiling on executor iterations
	MaxResponsePasses  int `toml:"max_response_passes"`  // Priority passes per response window
}

// DataConfig contains card/champion data source settings.
type DataConfig struct {
	Path string `toml:"path"` // Path to a card set file (empty = built-in set)
}

// OutputConfig contains report output settings.
type OutputConfig struct {
	Dir      string `toml:"dir"`       // Output directory for reports
	JSONOnly bool   `toml:"json_only"` // Suppress the human-readable summary
	Charts   bool   `toml:"charts"`    // Render HTML charts alongside reports
}

// StorageConfig contains results database settings.
type StorageConfig struct {
	DBPath   string `toml:"db_path"`  // Database path (empty = default location)
	Disabled bool   `toml:"disabled"` // Skip persistence entirely
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	Debounce string `toml:"debounce"` // Quiet period after a data file change (e.g., "500ms")
}

// AppConfig contains general application settings.
type AppConfig struct {
	Verbose     bool   `toml:"verbose"`      // Enable verbose logging
	PacingDelay string `toml:"pacing_delay"` // Cosmetic delay between matches ("0s" in batch runs)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			Matches:         50,
			BaseSeed:        0,
			DifficultyP1:    "medium",
			DifficultyP2:    "medium",
			AllCombinations: false,
		},
		Limits: LimitsConfig{
			MaxRounds:          30,
			MaxActionsPerTurn:  20,
			MaxConsecutivePass: 6,
			MaxIterations:      5000,
			MaxResponsePasses:  8,
		},
		Data: DataConfig{
			Path: "",
		},
		Output: OutputConfig{
			Dir:      "reports",
			JSONOnly: false,
			Charts:   false,
		},
		Storage: StorageConfig{
			DBPath:   "",
			Disabled: false,
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		App: AppConfig{
			Verbose:     false,
			PacingDelay: "0s",
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".warbound-gauntlet")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default location. Returns default
// config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path. Returns default
// config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Parse TOML
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	// Marshal to TOML
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Session.Matches < 1 {
		return fmt.Errorf("matches must be at least 1, got %d", c.Session.Matches)
	}

	if c.Session.DifficultyP1 == "" || c.Session.DifficultyP2 == "" {
		return fmt.Errorf("difficulty profiles cannot be empty")
	}

	// Every limit is a counter; zero or negative would disable the bound
	if c.Limits.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be at least 1, got %d", c.Limits.MaxRounds)
	}
	if c.Limits.MaxActionsPerTurn < 1 {
		return fmt.Errorf("max actions per turn must be at least 1, got %d", c.Limits.MaxActionsPerTurn)
	}
	if c.Limits.MaxConsecutivePass < 2 {
		return fmt.Errorf("max consecutive passes must be at least 2, got %d", c.Limits.MaxConsecutivePass)
	}
	if c.Limits.MaxIterations < c.Limits.MaxRounds {
		return fmt.Errorf("max iterations (%d) cannot be lower than max rounds (%d)",
			c.Limits.MaxIterations, c.Limits.MaxRounds)
	}
	if c.Limits.MaxResponsePasses < 1 {
		return fmt.Errorf("max response passes must be at least 1, got %d", c.Limits.MaxResponsePasses)
	}

	// Validate watch debounce
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	}

	// Validate pacing delay
	if _, err := time.ParseDuration(c.App.PacingDelay); err != nil {
		return fmt.Errorf("invalid pacing delay %q: %w", c.App.PacingDelay, err)
	}

	return nil
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Watch.Debounce)
}

// GetPacingDelay returns the pacing delay as a duration.
func (c *Config) GetPacingDelay() (time.Duration, error) {
	return time.ParseDuration(c.App.PacingDelay)
}
