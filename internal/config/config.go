package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the persisted settings for the add-show wizard
type Config struct {
	// Search settings
	IndexerTimeout int    `json:"indexer_timeout"` // seconds
	DefaultIndexer int    `json:"default_indexer"`
	AnonRedirect   string `json:"anon_redirect"`

	// Destination settings
	RootDirs       []string `json:"root_dirs"`
	DefaultRootDir string   `json:"default_root_dir"`

	// Show options
	QualityPresets []string `json:"quality_presets"`
	DefaultQuality string   `json:"default_quality"`
	AnimeDefault   bool     `json:"anime_default"`

	// Remote show server. When ServerURL is set the wizard talks to it
	// instead of querying indexers directly.
	ServerURL    string `json:"server_url"`
	ServerAPIKey string `json:"server_api_key"`

	// Indexer integration settings
	TMDBAPIKey string `json:"tmdb_api_key"`
	EnableTMDB bool   `json:"enable_tmdb"`
	TVDBAPIKey string `json:"tvdb_api_key"`
	EnableTVDB bool   `json:"enable_tvdb"`
	OMDBAPIKey string `json:"omdb_api_key"`
	EnableOMDB bool   `json:"enable_omdb"`
	CacheHours int    `json:"cache_hours"`

	// Logging
	EnableLogging    bool   `json:"enable_logging"`
	LogRetentionDays int    `json:"log_retention_days"`
	LogLevel         string `json:"log_level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		IndexerTimeout:   20,
		DefaultIndexer:   0,
		AnonRedirect:     "",
		RootDirs:         []string{},
		DefaultRootDir:   "",
		QualityPresets:   []string{"Any", "SD", "HD", "HD720p", "HD1080p", "UHD"},
		DefaultQuality:   "HD",
		AnimeDefault:     false,
		EnableTMDB:       false,
		EnableTVDB:       false,
		EnableOMDB:       false,
		CacheHours:       6,
		EnableLogging:    true,
		LogRetentionDays: 30,
		LogLevel:         "info",
	}
}

// Dir returns the directory holding the config file and logs
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".show-onboard"), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.IndexerTimeout <= 0 {
		cfg.IndexerTimeout = defaults.IndexerTimeout
	}
	if cfg.RootDirs == nil {
		cfg.RootDirs = defaults.RootDirs
	}
	if len(cfg.QualityPresets) == 0 {
		cfg.QualityPresets = defaults.QualityPresets
	}
	if cfg.DefaultQuality == "" {
		cfg.DefaultQuality = defaults.DefaultQuality
	}
	if cfg.CacheHours <= 0 {
		cfg.CacheHours = defaults.CacheHours
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	return &cfg, nil
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Timeout returns the per-search timeout
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.IndexerTimeout) * time.Second
}

// CacheTTL returns how long indexer responses are cached
func (cfg *Config) CacheTTL() time.Duration {
	return time.Duration(cfg.CacheHours) * time.Hour
}

// RootDirIndex returns the index of DefaultRootDir in RootDirs, or -1 when
// it is unset or not listed
func (cfg *Config) RootDirIndex() int {
	if cfg.DefaultRootDir == "" {
		return -1
	}
	return cfg.IndexOfRootDir(cfg.DefaultRootDir)
}

// IndexOfRootDir returns the index of dir in RootDirs, ignoring trailing
// separators, or -1 when it is not listed
func (cfg *Config) IndexOfRootDir(dir string) int {
	want := strings.TrimRight(dir, `/\`)
	for i, candidate := range cfg.RootDirs {
		if candidate == dir || strings.TrimRight(candidate, `/\`) == want {
			return i
		}
	}
	return -1
}

// Validate reports settings the wizard cannot run with
func (cfg *Config) Validate() error {
	if cfg.DefaultIndexer < 0 {
		return fmt.Errorf("default_indexer must not be negative, got %d", cfg.DefaultIndexer)
	}
	if cfg.DefaultRootDir != "" && cfg.RootDirIndex() < 0 {
		return fmt.Errorf("default_root_dir %q is not one of root_dirs", cfg.DefaultRootDir)
	}
	if cfg.ServerURL == "" && !cfg.EnableTMDB && !cfg.EnableTVDB && !cfg.EnableOMDB {
		return fmt.Errorf("no indexer configured: set server_url or enable tmdb, tvdb or omdb")
	}
	return nil
}
