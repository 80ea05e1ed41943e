package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Plex      PlexConfig      `toml:"plex"`
	Providers ProvidersConfig `toml:"providers"`
	Matcher   MatcherConfig   `toml:"matcher"`
	Database  DatabaseConfig  `toml:"database"`
}

// PlexConfig contains the target media-server connection settings.
type PlexConfig struct {
	URL       string `toml:"url"`
	Token     string `toml:"token"`
	SectionID int    `toml:"section_id"`
}

// ProvidersConfig contains streaming-provider settings.
//
// Spotify uses anonymous embed tokens and needs no credentials here.
type ProvidersConfig struct {
	TidalToken       string `toml:"tidal_token"`
	TidalCountryCode string `toml:"tidal_country_code"`
}

// MatcherConfig contains tunables for track resolution.
type MatcherConfig struct {
	// Threshold is the minimum combined score (0-100) for a candidate to
	// count as a match.
	Threshold float64 `toml:"threshold"`
	// FetchWorkers bounds the per-item enrichment pool during provider
	// fetches.
	FetchWorkers int `toml:"fetch_workers"`
	// ResolveWorkers bounds concurrent library searches.
	ResolveWorkers int `toml:"resolve_workers"`
	// SearchRateLimit is the maximum library search requests per second.
	SearchRateLimit float64 `toml:"search_rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidInput)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
