package backend

import (
	"context"
	"path/filepath"
	"testing"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/store/storetest"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Backend: "memory"}, false},
		{"case insensitive", Config{Backend: "SQLite", Path: "x.db"}, false},
		{"file needs path", Config{Backend: "file"}, true},
		{"sqlite needs path", Config{Backend: "sqlite"}, true},
		{"redis needs url", Config{Backend: "redis"}, true},
		{"mongo needs uri", Config{Backend: "mongo"}, true},
		{"redis", Config{Backend: "redis", RedisURL: "redis://localhost:6379/0"}, false},
		{"unknown", Config{Backend: "postgres"}, true},
		{"empty", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want INVALID_INPUT", apperrors.GetCode(err))
			}
		})
	}
}

func TestOpenLocalBackends(t *testing.T) {
	dir := t.TempDir()
	tests := []Config{
		{Backend: "memory"},
		{Backend: "file", Path: filepath.Join(dir, "walls")},
		{Backend: "sqlite", Path: filepath.Join(dir, "myseum.db")},
	}
	for _, cfg := range tests {
		t.Run(cfg.Backend, func(t *testing.T) {
			s, err := Open(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			defer s.Close()
			if s.Backend() != cfg.Backend {
				t.Errorf("Backend() = %q, want %q", s.Backend(), cfg.Backend)
			}
			storetest.Run(t, s)
		})
	}
}
