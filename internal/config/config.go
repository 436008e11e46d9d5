// Package config provides unified configuration for the neurotab tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neurotab/neurotab/internal/sidecar"
)

// Config holds the unified configuration for the neurotab tools.
type Config struct {
	// DataDir is the base directory for the catalog and fetch cache
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Catalog configuration
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Search configuration
	Search SearchConfig `json:"search" yaml:"search"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Convert configuration
	Convert ConvertConfig `json:"convert" yaml:"convert"`
}

// CatalogConfig holds dataset catalog configuration.
type CatalogConfig struct {
	// Path is the catalog database file
	Path string `json:"path" yaml:"path"`
}

// SearchConfig holds sidecar inheritance search configuration.
type SearchConfig struct {
	// Depth is the number of ancestor directory levels to search
	Depth int `json:"depth" yaml:"depth"`
}

// StorageConfig holds dataset storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type"`

	// Path is the local storage path (for local type)
	Path string `json:"path" yaml:"path"`

	// CacheDir is where fetched objects are staged
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// ConvertConfig holds SNIRF conversion configuration.
type ConvertConfig struct {
	// WriteSidecar controls whether conversion writes the sidecar file
	WriteSidecar bool `json:"write_sidecar" yaml:"write_sidecar"`

	// SortByOnset controls whether converted events are sorted by onset
	SortByOnset bool `json:"sort_by_onset" yaml:"sort_by_onset"`
}

// DefaultConfig returns the default configuration for local use.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/neurotab",
		Search: SearchConfig{
			Depth: sidecar.DefaultSearchDepth,
		},
		Storage: StorageConfig{
			Type: "local",
		},
		Convert: ConvertConfig{
			WriteSidecar: true,
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/neurotab"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = filepath.Join(c.DataDir, "catalog.db")
	}
	if c.Storage.CacheDir == "" {
		c.Storage.CacheDir = filepath.Join(c.DataDir, "cache")
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.DataDir, "storage")
	}
	if c.Search.Depth <= 0 {
		c.Search.Depth = sidecar.DefaultSearchDepth
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	if c.Search.Depth < 1 || c.Search.Depth > 16 {
		return fmt.Errorf("search.depth must be between 1 and 16, got %d", c.Search.Depth)
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the NEUROTAB_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("NEUROTAB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("NEUROTAB_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("NEUROTAB_SEARCH_DEPTH"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Search.Depth)
	}
	if v := os.Getenv("NEUROTAB_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("NEUROTAB_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("NEUROTAB_STORAGE_CACHE_DIR"); v != "" {
		cfg.Storage.CacheDir = v
	}
	if v := os.Getenv("NEUROTAB_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("NEUROTAB_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("NEUROTAB_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.Storage.CacheDir,
		filepath.Dir(c.Catalog.Path),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
