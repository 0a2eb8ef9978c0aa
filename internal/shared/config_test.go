package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./walkon.db" {
			t.Errorf("expected database path ./walkon.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Spotify.ClientID)
		}

		if config.Auth.RequiredTier != "premium" {
			t.Errorf("expected required tier premium, got %s", config.Auth.RequiredTier)
		}

		if config.Auth.RefreshBuffer() != 5*time.Minute {
			t.Errorf("expected 5 minute refresh buffer, got %v", config.Auth.RefreshBuffer())
		}

		if config.Auth.SessionTTL() != 10*time.Minute {
			t.Errorf("expected 10 minute session TTL, got %v", config.Auth.SessionTTL())
		}
	})

	t.Run("ScopeString", func(t *testing.T) {
		sc := SpotifyConfig{Scopes: []string{"user-read-private", "user-read-email"}}
		if sc.ScopeString() != "user-read-private user-read-email" {
			t.Errorf("expected space-joined scopes, got %q", sc.ScopeString())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("SaveConfig RoundTrip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Spotify.ClientID = "abc123"
		config.Auth.RefreshBufferMinutes = 2

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Spotify.ClientID != "abc123" {
			t.Errorf("expected client_id abc123, got %s", loaded.Spotify.ClientID)
		}
		if loaded.Auth.RefreshBufferMinutes != 2 {
			t.Errorf("expected refresh buffer 2, got %d", loaded.Auth.RefreshBufferMinutes)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
