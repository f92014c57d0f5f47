package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
	if tick, err := cfg.GetTickInterval(); err != nil || tick != 16*time.Millisecond {
		t.Errorf("GetTickInterval() = %v, %v", tick, err)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Player.Username != "guest" {
		t.Errorf("Username = %q, want default guest", cfg.Player.Username)
	}
}

func TestLoadFromRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := []byte(`
[server]
url = "wss://play.example.com/ws"

[player]
username = "ally"

[debug]
enabled = true
port = 9999

[animation]
enabled = false
tick_interval = "33ms"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Server.URL != "wss://play.example.com/ws" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.Player.Username != "ally" {
		t.Errorf("Username = %q", cfg.Player.Username)
	}
	if !cfg.Debug.Enabled || cfg.Debug.Port != 9999 {
		t.Errorf("Debug = %+v", cfg.Debug)
	}
	if cfg.Animation.Enabled || cfg.Animation.TickInterval != "33ms" {
		t.Errorf("Animation = %+v", cfg.Animation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.Server.URL = "" }},
		{"empty username", func(c *Config) { c.Player.Username = "" }},
		{"bad tick interval", func(c *Config) { c.Animation.TickInterval = "fast" }},
		{"bad debug port", func(c *Config) { c.Debug.Enabled = true; c.Debug.Port = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have failed")
			}
		})
	}
}

func TestWatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[player]\nusername = \"before\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	stop, err := Watch(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	defer stop()

	content := []byte(`
[server]
url = "ws://localhost:8080/ws"

[player]
username = "after"

[animation]
tick_interval = "16ms"
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Player.Username != "after" {
			t.Errorf("Username = %q after reload, want after", cfg.Player.Username)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reported the change")
	}
}
