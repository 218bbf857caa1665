package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "sp2yt.db" {
			t.Errorf("expected database path sp2yt.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}

		if config.Resolver.SearchMax != 8 {
			t.Errorf("expected resolver search_max 8, got %d", config.Resolver.SearchMax)
		}

		if config.Resolver.URLsOut != "urls.txt" {
			t.Errorf("expected resolver urls_out urls.txt, got %s", config.Resolver.URLsOut)
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

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[credentials.youtube]
api_key = "test_api_key"
client_id = "yt_client_id"
client_secret = "yt_secret"
redirect_uri = "http://localhost:3000/callback"

[resolver]
search_max = 12
urls_out = "out/urls.txt"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Resolver.SearchMax != 12 {
			t.Errorf("expected resolver search_max 12, got %d", config.Resolver.SearchMax)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("loading a missing config file should fail")
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_client_id"
		config.Credentials.Spotify.AccessToken = "saved_access_token"
		config.Credentials.Spotify.RefreshToken = "saved_refresh_token"
		config.Database.Path = "/saved/path.db"
		config.Resolver.URLsOut = "saved_urls.txt"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved_client_id" {
			t.Errorf("client_id not round-tripped, got %s", loaded.Credentials.Spotify.ClientID)
		}
		if loaded.Credentials.Spotify.AccessToken != "saved_access_token" {
			t.Errorf("access_token not round-tripped, got %s", loaded.Credentials.Spotify.AccessToken)
		}
		if loaded.Database.Path != "/saved/path.db" {
			t.Errorf("database path not round-tripped, got %s", loaded.Database.Path)
		}
		if loaded.Resolver.URLsOut != "saved_urls.txt" {
			t.Errorf("urls_out not round-tripped, got %s", loaded.Resolver.URLsOut)
		}
	})

	t.Run("environment overrides credentials", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "file_client_id"
client_secret = "file_secret"
redirect_uri = "http://localhost:3000/callback"

[credentials.youtube]
api_key = "file_api_key"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("SPOTIFY_CLIENT_ID", "env_client_id")
		t.Setenv("YOUTUBE_API_KEY", "env_api_key")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_client_id" {
			t.Errorf("expected env to override spotify client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.YouTube.APIKey != "env_api_key" {
			t.Errorf("expected env to override youtube api_key, got %s", config.Credentials.YouTube.APIKey)
		}

		// Values without an env counterpart keep the file value.
		if config.Credentials.Spotify.ClientSecret != "file_secret" {
			t.Errorf("client_secret should keep the file value, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:3000/callback" {
			t.Errorf("redirect_uri should keep the file value, got %s", config.Credentials.Spotify.RedirectURI)
		}
	})

	t.Run("empty environment keeps file value", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "file_client_id"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("SPOTIFY_CLIENT_ID", "")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "file_client_id" {
			t.Errorf("empty env var should not clear client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})
}

func TestSpotifyConfigToken(t *testing.T) {
	t.Run("no cached token", func(t *testing.T) {
		var c SpotifyConfig
		if c.Token() != nil {
			t.Error("expected nil token without an access token")
		}
	})

	t.Run("cached token", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		c := SpotifyConfig{AccessToken: "at", RefreshToken: "rt", Expiry: expiry}

		token := c.Token()
		if token == nil {
			t.Fatal("expected a token")
		}
		if token.AccessToken != "at" || token.RefreshToken != "rt" || !token.Expiry.Equal(expiry) {
			t.Errorf("Token() = %+v", token)
		}
	})

	t.Run("update", func(t *testing.T) {
		c := SpotifyConfig{RefreshToken: "old_refresh"}

		if err := c.Update(&oauth2.Token{AccessToken: "new_access"}); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if c.AccessToken != "new_access" {
			t.Errorf("access token not updated, got %s", c.AccessToken)
		}
		if c.RefreshToken != "old_refresh" {
			t.Errorf("empty refresh token should not clear the stored one, got %s", c.RefreshToken)
		}

		if err := c.Update(nil); err == nil {
			t.Error("updating with a nil token should fail")
		}
		if err := c.Update(&oauth2.Token{}); err == nil {
			t.Error("updating with an empty token should fail")
		}
	})
}
