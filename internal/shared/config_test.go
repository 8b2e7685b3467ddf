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

		if config.Database.Path != "./playstats.db" {
			t.Errorf("expected database path ./playstats.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Server.Addr() != "127.0.0.1:5000" {
			t.Errorf("expected addr 127.0.0.1:5000, got %s", config.Server.Addr())
		}

		if config.Server.DefaultPlaylist != "6UeSakyzhiEt4NB3UAd6NQ" {
			t.Errorf("expected Hot 100 default playlist, got %s", config.Server.DefaultPlaylist)
		}

		if config.Loader.BaseURL != "http://127.0.0.1:5000" {
			t.Errorf("expected loader base URL http://127.0.0.1:5000, got %s", config.Loader.BaseURL)
		}

		if config.Loader.Timeout() != 10*time.Second {
			t.Errorf("expected 10s loader timeout, got %v", config.Loader.Timeout())
		}

		if config.Credentials.Spotify.Configured() {
			t.Error("default config should not carry Spotify credentials")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Loader.BaseURL != "http://127.0.0.1:5000" {
			t.Errorf("keys missing from the file should keep defaults, got loader base URL %q", config.Loader.BaseURL)
		}
	})

	t.Run("LoadConfig With Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("expected defaults for a missing file, got %v", err)
		}
		if config.Server.Port != 5000 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Server.Port = 6001
		config.Credentials.Spotify.ClientID = "saved"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Server.Port != 6001 || loaded.Credentials.Spotify.ClientID != "saved" {
			t.Errorf("saved values not persisted: %+v", loaded)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		contents := "SPOTIFY_CLIENT_ID=from_file\nSPOTIFY_CLIENT_SECRET=file_secret\n"
		if err := os.WriteFile(envPath, []byte(contents), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		t.Setenv(EnvSpotifyClientID, "from_env")
		// Registered with t.Setenv so the value loaded from the file is undone on cleanup.
		t.Setenv(EnvSpotifyClientSecret, "")
		os.Unsetenv(EnvSpotifyClientSecret)

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Credentials.Spotify.ClientID != "from_env" {
			t.Errorf("environment should win over .env, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "file_secret" {
			t.Errorf("expected secret from .env, got %q", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("ApplyEnv Missing File", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.ApplyEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
			t.Errorf("a missing .env file should be ignored, got %v", err)
		}
	})
}
