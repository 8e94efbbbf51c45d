package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if filepath.Base(cfg.Store.Path) != "myseum.db" {
		t.Errorf("Path = %q, want .../myseum.db", cfg.Store.Path)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[grid]
unit_inches = 1.5
default_width = 80

[store]
backend = "file"
path = "/tmp/walls"
flush_delay = "250ms"

[server]
addr = ":9000"
read_timeout = "30s"
no_auth = true

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Grid.UnitInches != 1.5 || cfg.Grid.DefaultWidth != 80 {
		t.Errorf("Grid = %+v", cfg.Grid)
	}
	if cfg.Grid.DefaultHeight != 40 {
		t.Errorf("DefaultHeight = %d, want default 40", cfg.Grid.DefaultHeight)
	}
	if cfg.Store.Backend != "file" || cfg.Store.Path != "/tmp/walls" {
		t.Errorf("Store = %+v", cfg.Store.Config)
	}
	if cfg.Store.FlushDelay != 250*time.Millisecond {
		t.Errorf("FlushDelay = %v, want 250ms", cfg.Store.FlushDelay)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout != 30*time.Second || !cfg.Server.NoAuth {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if lvl, _ := cfg.LogLevel(); lvl != log.DebugLevel {
		t.Errorf("LogLevel = %v, want debug", lvl)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code apperrors.Code
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "nope.toml"), apperrors.ErrCodeNotFound},
		{"bad toml", writeConfig(t, "[grid\nunit_inches = "), apperrors.ErrCodeInvalidFormat},
		{"bad unit", writeConfig(t, "[grid]\nunit_inches = -1"), apperrors.ErrCodeInvalidInput},
		{"unknown backend", writeConfig(t, "[store]\nbackend = \"postgres\""), apperrors.ErrCodeInvalidInput},
		{"redis without url", writeConfig(t, "[store]\nbackend = \"redis\""), apperrors.ErrCodeInvalidInput},
		{"bad level", writeConfig(t, "[log]\nlevel = \"loud\""), apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("code = %q, want %q (%v)", apperrors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MYSEUM_STORE":     "redis",
		"MYSEUM_REDIS_URL": "redis://cache:6379/2",
		"MYSEUM_ADDR":      ":7000",
		"MYSEUM_LOG_LEVEL": "",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Store.Backend != "redis" || cfg.Store.RedisURL != "redis://cache:6379/2" {
		t.Errorf("Store = %+v", cfg.Store.Config)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("empty env value changed Level to %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[store]\nbackend = \"memory\"")
	t.Setenv("MYSEUM_STORE", "file")
	t.Setenv("MYSEUM_STORE_PATH", "~/walls")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if cfg.Store.Backend != "file" || cfg.Store.Path != filepath.Join(home, "walls") {
		t.Errorf("Store = %+v", cfg.Store.Config)
	}
}
