// Package config manages Lensa configuration and the .lensa directory
// structure. It handles loading, saving, and initializing the guide
// workspace configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/lensa-guide/lensa/internal/matching"
	"github.com/lensa-guide/lensa/internal/models"
)

const (
	LensaDir     = ".lensa"
	ConfigFile   = "config"
	DatabaseFile = "lensa.db"
	LockFile     = "build.lock"
	ImagesDir    = "images"
	AudioDir     = "audio"
)

// Config represents the Lensa workspace configuration
type Config struct {
	MetBaseURL          string  `toml:"met_base_url"`
	FeatureKind         string  `toml:"feature_kind"`
	MaxFeatures         int     `toml:"max_features"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	RatioTest           float64 `toml:"ratio_test"`
	MinGoodMatches      int     `toml:"min_good_matches"`
	LogLevel            string  `toml:"log_level"`

	path string // path to .lensa directory
}

// defaults fills in zero-valued fields after load or init.
func (c *Config) defaults() {
	if c.FeatureKind == "" {
		c.FeatureKind = models.DefaultFeatureKind
	}
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = 2000
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = matching.DefaultConfidenceThreshold
	}
	if c.RatioTest == 0 {
		c.RatioTest = matching.DefaultRatioThreshold
	}
	if c.MinGoodMatches == 0 {
		c.MinGoodMatches = matching.DefaultMinGoodMatches
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// FindLensaRoot finds the .lensa directory by walking up from the current
// directory
func FindLensaRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		lensaPath := filepath.Join(dir, LensaDir)
		if info, err := os.Stat(lensaPath); err == nil && info.IsDir() {
			return lensaPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a lensa workspace (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration from the .lensa directory
func Load() (*Config, error) {
	lensaPath, err := FindLensaRoot()
	if err != nil {
		return nil, err
	}
	return LoadFrom(lensaPath)
}

// LoadFrom loads the configuration from an explicit .lensa directory
func LoadFrom(lensaPath string) (*Config, error) {
	configPath := filepath.Join(lensaPath, ConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.path = lensaPath
	cfg.defaults()
	return &cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// LensaPath returns the path to the .lensa directory
func (c *Config) LensaPath() string {
	return c.path
}

// DatabasePath returns the path to the SQLite database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// LockPath returns the path to the ingestion lock file
func (c *Config) LockPath() string {
	return filepath.Join(c.path, LockFile)
}

// ImagesPath returns the path to the reference images directory
func (c *Config) ImagesPath() string {
	return filepath.Join(c.path, ImagesDir)
}

// AudioPath returns the path to the narration audio directory
func (c *Config) AudioPath() string {
	return filepath.Join(c.path, AudioDir)
}

// RecognitionOptions returns the configured acceptance gates and ratio test.
func (c *Config) RecognitionOptions() matching.Options {
	return matching.Options{
		ConfidenceThreshold: c.ConfidenceThreshold,
		RatioThreshold:      c.RatioTest,
		MinGoodMatches:      c.MinGoodMatches,
		FeatureKind:         c.FeatureKind,
	}
}

// Initialize creates a new .lensa directory with initial configuration
func Initialize(metBaseURL string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return InitializeAt(cwd, metBaseURL)
}

// InitializeAt creates a new .lensa directory under root
func InitializeAt(root, metBaseURL string) (*Config, error) {
	lensaPath := filepath.Join(root, LensaDir)

	// Check if already initialized
	if _, err := os.Stat(lensaPath); err == nil {
		return nil, fmt.Errorf("lensa workspace already exists")
	}

	for _, dir := range []string{lensaPath, filepath.Join(lensaPath, ImagesDir), filepath.Join(lensaPath, AudioDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	cfg := &Config{
		MetBaseURL: metBaseURL,
		path:       lensaPath,
	}
	cfg.defaults()

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(lensaPath)
		return nil, err
	}

	return cfg, nil
}
