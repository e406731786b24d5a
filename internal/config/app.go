// Package config loads the application preferences file and the external
// scoring configuration with validated fallback defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/klondike-engine/internal/storage/models"
)

// AppConfig represents the application configuration.
type AppConfig struct {
	// Data directory configuration
	Data DataConfig `toml:"data"`

	// Game defaults applied to new profiles
	Game GameConfig `toml:"game"`

	// Announce (screen reader) configuration
	Announce AnnounceConfig `toml:"announce"`
}

// DataConfig contains persistence paths.
type DataConfig struct {
	Dir           string `toml:"dir"`            // Root data directory; empty = ~/.klondike-engine
	ScoringConfig string `toml:"scoring_config"` // Path to scoring_config.json; empty = config/scoring_config.json
	ArchiveDB     string `toml:"archive_db"`     // Path to the session archive database; empty = <dir>/sessions.db
	ArchiveOff    bool   `toml:"archive_off"`    // Disable the session archive
}

// GameConfig contains default game settings for new profiles.
type GameConfig struct {
	DeckVariant string `toml:"deck_variant"` // "french" or "neapolitan"
	DrawCount   int    `toml:"draw_count"`   // Cards per stock draw (1 or 3)
	Difficulty  int    `toml:"difficulty"`   // Difficulty level 1-5
	TimerLimit  int    `toml:"timer_limit"`  // Timer limit in seconds (0 = off)
	TimerMode   string `toml:"timer_mode"`   // "strict" or "permissive"
}

// AnnounceConfig contains announce hook settings.
type AnnounceConfig struct {
	Verbose bool `toml:"verbose"` // Announce every card movement
}

// DefaultAppConfig returns the default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Data: DataConfig{
			Dir:           "",
			ScoringConfig: filepath.Join("config", "scoring_config.json"),
			ArchiveDB:     "",
			ArchiveOff:    false,
		},
		Game: GameConfig{
			DeckVariant: "french",
			DrawCount:   1,
			Difficulty:  1,
			TimerLimit:  0,
			TimerMode:   string(models.TimerPermissive),
		},
		Announce: AnnounceConfig{
			Verbose: false,
		},
	}
}

// appConfigPath returns the path to the configuration file.
func appConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".klondike-engine")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// LoadApp loads the configuration from disk. Returns default config if the
// file doesn't exist.
func LoadApp() (*AppConfig, error) {
	path, err := appConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultAppConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *AppConfig) Save() error {
	path, err := appConfigPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *AppConfig) Validate() error {
	if c.Game.DeckVariant != "french" && c.Game.DeckVariant != "neapolitan" {
		return fmt.Errorf("invalid deck variant %q", c.Game.DeckVariant)
	}

	if c.Game.DrawCount != 1 && c.Game.DrawCount != 3 {
		return fmt.Errorf("draw count must be 1 or 3: %d", c.Game.DrawCount)
	}

	if c.Game.Difficulty < 1 || c.Game.Difficulty > 5 {
		return fmt.Errorf("difficulty must be between 1 and 5: %d", c.Game.Difficulty)
	}

	if c.Game.TimerLimit < 0 {
		return fmt.Errorf("timer limit cannot be negative: %d", c.Game.TimerLimit)
	}

	mode := models.TimerMode(c.Game.TimerMode)
	if mode != models.TimerStrict && mode != models.TimerPermissive {
		return fmt.Errorf("invalid timer mode %q", c.Game.TimerMode)
	}

	return nil
}

// DataDir returns the resolved data directory, creating it if needed.
func (c *AppConfig) DataDir() (string, error) {
	dir := c.Data.Dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".klondike-engine")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}
