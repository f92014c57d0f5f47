// Package config loads and persists the client configuration as TOML under
// the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the client configuration.
type Config struct {
	// Server connection settings
	Server ServerConfig `toml:"server"`

	// Player identity settings
	Player PlayerConfig `toml:"player"`

	// Debug API settings
	Debug DebugConfig `toml:"debug"`

	// Animation settings
	Animation AnimationConfig `toml:"animation"`
}

// ServerConfig contains game-server connection settings.
type ServerConfig struct {
	URL string `toml:"url"` // ws:// or wss:// endpoint
}

// PlayerConfig contains identity settings.
type PlayerConfig struct {
	Username string `toml:"username"` // Display name sent on connect
}

// DebugConfig contains the local debug API settings.
type DebugConfig struct {
	Enabled bool `toml:"enabled"` // Serve the localhost status API
	Port    int  `toml:"port"`    // Status API port
}

// AnimationConfig contains animation tuning.
type AnimationConfig struct {
	Enabled      bool   `toml:"enabled"`       // Animate card movements
	TickInterval string `toml:"tick_interval"` // Render tick period (e.g. "16ms")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "ws://localhost:8080/ws",
		},
		Player: PlayerConfig{
			Username: "guest",
		},
		Debug: DebugConfig{
			Enabled: false,
			Port:    9190,
		},
		Animation: AnimationConfig{
			Enabled:      true,
			TickInterval: "16ms",
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".card-game-web")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Path returns the configuration file location, creating the parent
// directory if needed.
func Path() (string, error) {
	return configPath()
}

// Load loads the configuration from disk. Returns default config if the file
// doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
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
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.Player.Username == "" {
		return fmt.Errorf("username is required")
	}
	if _, err := time.ParseDuration(c.Animation.TickInterval); err != nil {
		return fmt.Errorf("invalid tick interval %q: %w", c.Animation.TickInterval, err)
	}
	if c.Debug.Enabled && (c.Debug.Port <= 0 || c.Debug.Port > 65535) {
		return fmt.Errorf("invalid debug port: %d", c.Debug.Port)
	}
	return nil
}

// GetTickInterval returns the render tick period as a duration.
func (c *Config) GetTickInterval() (time.Duration, error) {
	return time.ParseDuration(c.Animation.TickInterval)
}
