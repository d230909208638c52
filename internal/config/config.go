// Package config loads the server configuration from YAML.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	defaultListen     = ":8080"
	defaultDataDir    = "./data"
	defaultStaticDir  = "./static"
	defaultSessionTTL = 12 * time.Hour
	defaultSchedule   = "@daily"
	defaultKeep       = 14
	defaultHistory    = 10
)

// StorageConfig selects where the two documents live.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// History is the number of revisions the sqlite backend keeps per document.
	History *int `yaml:"history,omitempty"`
}

// ICSConfig controls the calendar feed.
type ICSConfig struct {
	// Domain is the UID suffix. Empty means the request host.
	Domain string `yaml:"domain"`
}

// AuthConfig controls admin sessions.
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// BackupConfig controls scheduled snapshots.
type BackupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	Dir      string `yaml:"dir"`
	Keep     int    `yaml:"keep"`
}

// Config is the top-level server configuration.
type Config struct {
	Listen    string        `yaml:"listen"`
	DataDir   string        `yaml:"data_dir"`
	StaticDir string        `yaml:"static_dir"`
	Storage   StorageConfig `yaml:"storage"`
	ICS       ICSConfig     `yaml:"ics"`
	Auth      AuthConfig    `yaml:"auth"`
	Backup    BackupConfig  `yaml:"backup"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero values with defaults and clamps the rest.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	if c.StaticDir == "" {
		c.StaticDir = defaultStaticDir
	}

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		c.Storage.Backend = BackendFile
	}
	if c.Storage.History == nil || *c.Storage.History < 0 {
		n := defaultHistory
		c.Storage.History = &n
	}

	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = defaultSessionTTL
	}

	if c.Backup.Schedule == "" {
		c.Backup.Schedule = defaultSchedule
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = filepath.Join(c.DataDir, "backups")
	}
	if c.Backup.Keep <= 0 {
		c.Backup.Keep = defaultKeep
	}
}

// HistoryLimit returns the normalized revision count.
func (c *Config) HistoryLimit() int {
	if c.Storage.History == nil {
		return defaultHistory
	}
	return *c.Storage.History
}

// Load reads the YAML file at path. A missing file yields defaults and is
// created. An empty session secret is generated and written back so that
// sessions survive restarts.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	cfg.Normalize()

	if cfg.Auth.SessionSecret == "" || data == nil {
		if cfg.Auth.SessionSecret == "" {
			secret, err := GenerateSecret()
			if err != nil {
				return nil, err
			}
			cfg.Auth.SessionSecret = secret
		}
		if err := Save(path, cfg); err != nil {
			return cfg, fmt.Errorf("writing config: %w", err)
		}
	}
	return cfg, nil
}

// GenerateSecret returns 32 random bytes, hex encoded.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Save writes cfg to path through a temp file and rename. The file holds
// the session secret, so it is created 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".weekwise-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
