package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Cache    CacheConfig    `toml:"cache"`
	Playback PlaybackConfig `toml:"playback"`
	Catalog  CatalogConfig  `toml:"catalog"`
}

// DatabaseConfig contains settings for the local key-value store.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	Compress     bool   `toml:"compress"`
}

// CacheConfig contains cache sizing and freshness settings.
type CacheConfig struct {
	MaxTotalBytes   int64    `toml:"max_total_bytes"`
	DefaultTTLMins  int      `toml:"default_ttl_minutes"`
	SearchTTLMins   int      `toml:"search_ttl_minutes"`
	SweepMins       int      `toml:"sweep_minutes"`
	ProtectedKeys   []string `toml:"protected_keys"`
}

// PlaybackConfig contains playback session tuning knobs.
type PlaybackConfig struct {
	PollIntervalMS   int     `toml:"poll_interval_ms"`
	RestartThreshold float64 `toml:"restart_threshold_seconds"`
	SaveDebounceMS   int     `toml:"save_debounce_ms"`
	RecentLimit      int     `toml:"recent_limit"`
}

// CatalogConfig contains remote catalog API settings.
type CatalogConfig struct {
	BaseURL     string  `toml:"base_url"`
	AccessToken string  `toml:"access_token"`
	RateLimit   float64 `toml:"rate_limit"`
}

// DefaultTTL returns the default cache TTL as a [time.Duration].
func (c CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLMins) * time.Minute
}

// SearchTTL returns the search-result cache TTL as a [time.Duration].
func (c CacheConfig) SearchTTL() time.Duration {
	return time.Duration(c.SearchTTLMins) * time.Minute
}

// SweepInterval returns how often the housekeeping sweep runs.
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepMins) * time.Minute
}

// PollInterval returns the progress polling interval as a [time.Duration].
func (c PlaybackConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// SaveDebounce returns the snapshot debounce window as a [time.Duration].
func (c PlaybackConfig) SaveDebounce() time.Duration {
	return time.Duration(c.SaveDebounceMS) * time.Millisecond
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

// ResolveConfigPath returns path when a file exists there, otherwise the
// platform config location (which may not exist yet either).
func ResolveConfigPath(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if fallback, err := DefaultConfigPath(); err == nil {
		return fallback
	}
	return path
}

// EnsureDatabasePath fills in the platform default store location when the
// config leaves it empty.
func (c *Config) EnsureDatabasePath() error {
	if c.Database.Path != "" {
		return nil
	}

	path, err := DefaultDatabasePath()
	if err != nil {
		return err
	}
	c.Database.Path = path
	return nil
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
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
