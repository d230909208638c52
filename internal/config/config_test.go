package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "weekwise.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.DataDir != "./data" || cfg.Storage.Backend != BackendFile {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Auth.SessionTTL)
	}
	if cfg.Backup.Dir != filepath.Join("data", "backups") || cfg.Backup.Keep != 14 || cfg.Backup.Schedule != "@daily" {
		t.Errorf("backup defaults = %+v", cfg.Backup)
	}
	if cfg.HistoryLimit() != 10 {
		t.Errorf("HistoryLimit() = %d", cfg.HistoryLimit())
	}
	if len(cfg.Auth.SessionSecret) != 64 {
		t.Errorf("SessionSecret = %q, want 64 hex characters", cfg.Auth.SessionSecret)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	if again.Auth.SessionSecret != cfg.Auth.SessionSecret {
		t.Error("session secret should survive a reload")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekwise.yaml")
	yaml := `listen: "127.0.0.1:9000"
data_dir: /srv/weekwise
storage:
  backend: sqlite
  history: 0
ics:
  domain: plan.example.org
auth:
  session_secret: fixed
  session_ttl: 30m
backup:
  enabled: true
  schedule: "0 3 * * *"
  keep: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:9000" || cfg.DataDir != "/srv/weekwise" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.HistoryLimit() != 0 {
		t.Errorf("storage = %s, history %d", cfg.Storage.Backend, cfg.HistoryLimit())
	}
	if cfg.ICS.Domain != "plan.example.org" {
		t.Errorf("ICS.Domain = %q", cfg.ICS.Domain)
	}
	if cfg.Auth.SessionSecret != "fixed" || cfg.Auth.SessionTTL != 30*time.Minute {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if !cfg.Backup.Enabled || cfg.Backup.Schedule != "0 3 * * *" || cfg.Backup.Keep != 3 {
		t.Errorf("backup = %+v", cfg.Backup)
	}
	if cfg.Backup.Dir != "/srv/weekwise/backups" {
		t.Errorf("Backup.Dir = %q", cfg.Backup.Dir)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekwise.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestNormalize(t *testing.T) {
	history := -4
	cfg := &Config{
		Storage: StorageConfig{Backend: "mongodb", History: &history},
		Auth:    AuthConfig{SessionTTL: -time.Second},
		Backup:  BackupConfig{Keep: -1},
	}
	cfg.Normalize()

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.HistoryLimit() != 10 {
		t.Errorf("HistoryLimit() = %d", cfg.HistoryLimit())
	}
	if cfg.Auth.SessionTTL != 12*time.Hour || cfg.Backup.Keep != 14 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekwise.yaml")
	cfg := DefaultConfig()
	cfg.Auth.SessionSecret = "s3cret"
	cfg.Auth.SessionTTL = 90 * time.Minute
	cfg.Backup.Enabled = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Auth.SessionSecret != "s3cret" || loaded.Auth.SessionTTL != 90*time.Minute || !loaded.Backup.Enabled {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := Save("", cfg); err == nil {
		t.Error("Save() with empty path should fail")
	}
	if err := Save(path, nil); err == nil {
		t.Error("Save() with nil config should fail")
	}
}
