package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Sync        SyncConfig        `toml:"sync"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Tidal   TidalConfig   `toml:"tidal"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// TidalConfig contains Tidal API credentials.
type TidalConfig struct {
	ClientID    string `toml:"client_id"`
	AccessToken string `toml:"access_token"`
	UserID      string `toml:"user_id"`
	CountryCode string `toml:"country_code"`
}

// SyncConfig tunes the reconciliation engine.
type SyncConfig struct {
	Workers          int     `toml:"workers"`            // concurrent track searches
	LikeWorkers      int     `toml:"like_workers"`       // concurrent favorite calls
	SearchLimit      int     `toml:"search_limit"`       // results requested per search
	RetryMaxAttempts int     `toml:"retry_max_attempts"` // attempts per search call
	RetryBaseDelay   float64 `toml:"retry_base_delay"`   // seconds
	RetryMaxDelay    float64 `toml:"retry_max_delay"`    // seconds
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
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays credentials from the environment onto the config,
// loading a .env file first when one exists. Environment values win over
// file values so secrets can stay out of config.toml.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	overrides := map[string]*string{
		"SPOTIFY_CLIENT_ID":     &c.Credentials.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET": &c.Credentials.Spotify.ClientSecret,
		"SPOTIFY_REFRESH_TOKEN": &c.Credentials.Spotify.RefreshToken,
		"TIDAL_CLIENT_ID":       &c.Credentials.Tidal.ClientID,
		"TIDAL_ACCESS_TOKEN":    &c.Credentials.Tidal.AccessToken,
		"TIDAL_USER_ID":         &c.Credentials.Tidal.UserID,
		"TIDAL_COUNTRY_CODE":    &c.Credentials.Tidal.CountryCode,
	}

	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}
