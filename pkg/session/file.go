package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

// FileStore keeps one JSON file per session token, named <token>.json.
// It suits a single serve process or a laptop running the CLI.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based session store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "session store needs a directory")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "create session dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(token string) string {
	return filepath.Join(s.baseDir, token+".json")
}

// Get returns the session for token, removing its file once expired.
func (s *FileStore) Get(_ context.Context, token string) (*Session, error) {
	// Tokens come straight from request headers.
	if apperrors.ValidateID("session", token) != nil {
		return nil, nil
	}
	path := s.sessionPath(token)

	s.mu.RLock()
	sess, err := readSession(path)
	s.mu.RUnlock()
	if sess == nil || err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		s.mu.Lock()
		os.Remove(path)
		s.mu.Unlock()
		return nil, nil
	}
	return sess, nil
}

// Set writes sess through a temp file so readers never see a partial token.
func (s *FileStore) Set(_ context.Context, sess *Session) error {
	if err := apperrors.ValidateID("session", sess.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "marshal session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.baseDir, ".session-*")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write session file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write session file")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write session file")
	}
	if err := os.Rename(tmp.Name(), s.sessionPath(sess.ID)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write session file")
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, token string) error {
	if apperrors.ValidateID("session", token) != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(token)); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "remove session file")
	}
	return nil
}

// Cleanup removes expired session files. Unreadable files are left alone.
func (s *FileStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := filepath.Glob(filepath.Join(s.baseDir, "*.json"))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "list session dir")
	}
	for _, path := range names {
		if sess, err := readSession(path); err == nil && sess != nil && sess.IsExpired() {
			os.Remove(path)
		}
	}
	return nil
}

// readSession decodes the session file at path. A missing file yields nil, nil.
func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "read session file")
	}
	sess := new(Session)
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "parse session")
	}
	return sess, nil
}

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
