package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./syncra.db" {
			t.Errorf("expected database path ./syncra.db, got %s", config.Database.Path)
		}

		if config.Plex.URL != "http://127.0.0.1:32400" {
			t.Errorf("expected plex url http://127.0.0.1:32400, got %s", config.Plex.URL)
		}

		if config.Matcher.Threshold != 70.0 {
			t.Errorf("expected matcher threshold 70, got %f", config.Matcher.Threshold)
		}

		if config.Matcher.FetchWorkers != 25 {
			t.Errorf("expected 25 fetch workers, got %d", config.Matcher.FetchWorkers)
		}

		if config.Providers.TidalCountryCode != "US" {
			t.Errorf("expected tidal country code US, got %s", config.Providers.TidalCountryCode)
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

		testConfig := `[plex]
url = "https://plex.example.com:32400"
token = "test_token"
section_id = 3

[providers]
tidal_token = "test_tidal"
tidal_country_code = "DE"

[matcher]
threshold = 80.0
fetch_workers = 10
resolve_workers = 4
search_rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Plex.URL != "https://plex.example.com:32400" {
			t.Errorf("expected custom plex url, got %s", config.Plex.URL)
		}

		if config.Plex.SectionID != 3 {
			t.Errorf("expected section id 3, got %d", config.Plex.SectionID)
		}

		if config.Matcher.Threshold != 80.0 {
			t.Errorf("expected threshold 80, got %f", config.Matcher.Threshold)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
