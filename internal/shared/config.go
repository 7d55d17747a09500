package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvAPIURL overrides the configured API base URL when set.
const EnvAPIURL = "CINE_API_URL"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	Player   PlayerConfig   `toml:"player"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Prefix  string `toml:"prefix"`
}

// CatalogConfig contains home feed settings.
//
// Categories preserves declared order; an empty string means the
// uncategorized "all" feed. HistoryLimit bounds the watch-history fetch.
type CatalogConfig struct {
	Categories   []string `toml:"categories"`
	HistoryLimit int      `toml:"history_limit"`
}

// DatabaseConfig contains local SQLite settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PlayerConfig contains external playback engine settings.
type PlayerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// The CINE_API_URL environment variable, when set, overrides the configured
// base URL. The base URL is resolved once here; nothing downstream re-reads
// the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
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

func (c *Config) applyEnv() {
	if url := os.Getenv(EnvAPIURL); url != "" {
		c.API.BaseURL = strings.TrimRight(url, "/")
	}
}

// Endpoint joins the base URL, the versioned prefix, and a path.
func (c *Config) Endpoint(path string) string {
	base := strings.TrimRight(c.API.BaseURL, "/")
	prefix := strings.Trim(c.API.Prefix, "/")
	if prefix == "" {
		return base + path
	}
	return base + "/" + prefix + path
}

// SectionKey maps a configured category to its snapshot key.
//
// The empty category is the uncategorized feed and maps to "all".
func SectionKey(category string) string {
	if category == "" {
		return "all"
	}
	return category
}
