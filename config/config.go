// Package config manages reactvid configuration.
//
// Values are resolved in order: defaults, then the TOML config file, then
// REACTVID_* environment variables. Command-line flags are applied on top by
// the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	// Namespace prefixes every persistence key ("<namespace>_<videoId>").
	Namespace string `toml:"namespace"`
	DataDir   string `toml:"data_dir"`
	OutputDir string `toml:"output_dir"`
	SortOrder string `toml:"sort_order"`
	Verbose   bool   `toml:"verbose"`

	Storage StorageConfig `toml:"storage"`
	Mpv     MpvConfig     `toml:"mpv"`
}

// StorageConfig selects the key-value backend used to persist annotations.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// MpvConfig configures the mpv player adapter.
type MpvConfig struct {
	Socket string `toml:"socket"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	dataDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "reactvid-cli")
	}
	return &Config{
		Namespace: "reactvid",
		DataDir:   dataDir,
		OutputDir: ".",
		SortOrder: "desc",
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			RedisAddr: "localhost:6379",
		},
		Mpv: MpvConfig{
			Socket: "/tmp/reactvid-mpv.sock",
		},
	}
}

// DefaultPath returns ~/.config/reactvid/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reactvid", "config.toml"), nil
}

// Load reads configuration from path (or DefaultPath when empty).
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("REACTVID_NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv("REACTVID_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("REACTVID_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("REACTVID_SORT_ORDER"); v != "" {
		c.SortOrder = v
	}
	if v := os.Getenv("REACTVID_VERBOSE"); v != "" {
		c.Verbose = v == "true" || v == "1"
	}
	if v := os.Getenv("REACTVID_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("REACTVID_REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
	}
	if v := os.Getenv("REACTVID_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.RedisDB = n
		}
	}
	if v := os.Getenv("REACTVID_MPV_SOCKET"); v != "" {
		c.Mpv.Socket = v
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if c.SortOrder != "asc" && c.SortOrder != "desc" {
		return fmt.Errorf("sort_order must be asc or desc, got %q", c.SortOrder)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir must be set for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr must be set for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// Save writes the configuration to path as TOML, creating the directory
// with 0700 permissions.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
