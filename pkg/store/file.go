package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/wall"
)

// FileStore is a file-based wall store for CLI use.
// Each wall is stored as an indented JSON document named <id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir, creating it if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "file store needs a directory")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "create wall dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) wallPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (*wall.Wall, error) {
	if err := apperrors.ValidateID("wall", id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.wallPath(id), id)
}

func (s *FileStore) read(path, id string) (*wall.Wall, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound(id)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "read wall file")
	}
	var w wall.Wall
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "parse wall %s", id)
	}
	return &w, nil
}

// Save writes the wall to a temporary file and renames it into place, so a
// crash never leaves a truncated document.
func (s *FileStore) Save(_ context.Context, w *wall.Wall) error {
	if err := CheckSave(w); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Touch()
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "marshal wall")
	}
	tmp, err := os.CreateTemp(s.baseDir, ".wall-*")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write wall file")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write wall file")
	}
	if err := os.Rename(tmp.Name(), s.wallPath(w.ID)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "replace wall file")
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := apperrors.ValidateID("wall", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.wallPath(id)); err != nil {
		if os.IsNotExist(err) {
			return NotFound(id)
		}
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "remove wall file")
	}
	return nil
}

// List reads every wall document. Unreadable files are skipped.
func (s *FileStore) List(_ context.Context, ownerID string) ([]wall.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "read wall dir")
	}
	out := []wall.Summary{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		w, err := s.read(filepath.Join(s.baseDir, entry.Name()), entry.Name())
		if err != nil {
			continue
		}
		if ownerID == "" || w.OwnerID == ownerID {
			out = append(out, w.Summary())
		}
	}
	SortSummaries(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for wall files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
