// Package session provides the session context that gates wall access.
//
// A [Session] identifies the user behind a request. The HTTP API resolves
// bearer tokens to sessions through a [Store]; the CLI acts as a fixed
// local user from [Local].
//
// Sessions carry no credentials of their own: the session ID is the bearer
// token and is generated from a cryptographically secure source.
//
// # Access rules
//
//   - Anyone may view a public wall; only the owner may view a private one.
//   - Only the owner may change a wall.
//
// [RequireView] reports a private wall as not found so that its existence
// is not revealed. [RequireEdit] reports FORBIDDEN for walls the caller can
// see but not change.
//
// # Usage
//
//	sess, err := session.New("alice", session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, token)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // unknown or expired token
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/wall"
)

// LocalUser is the owner of walls created through the CLI.
const LocalUser = "local"

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores user session data.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New creates a session for userID that expires after ttl.
func New(userID string, ttl time.Duration) (*Session, error) {
	if err := apperrors.ValidateID("user", userID); err != nil {
		return nil, err
	}
	id, err := GenerateID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "generate session id")
	}
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Local returns the session the CLI acts under. It never expires in
// practice.
func Local() *Session {
	now := time.Now()
	return &Session{
		ID:        "local-session",
		UserID:    LocalUser,
		ExpiresAt: now.Add(365 * 24 * time.Hour),
		CreatedAt: now,
	}
}

// CanView reports whether sess may read w. A nil session sees only public
// walls.
func CanView(sess *Session, w *wall.Wall) bool {
	return w.Public || CanEdit(sess, w)
}

// CanEdit reports whether sess may change w.
func CanEdit(sess *Session, w *wall.Wall) bool {
	return sess != nil && sess.UserID != "" && sess.UserID == w.OwnerID
}

// RequireView returns WALL_NOT_FOUND unless sess may read w.
func RequireView(sess *Session, w *wall.Wall) error {
	if !CanView(sess, w) {
		return apperrors.New(apperrors.ErrCodeWallNotFound, "wall %q not found", w.ID)
	}
	return nil
}

// RequireEdit returns an error unless sess may change w.
func RequireEdit(sess *Session, w *wall.Wall) error {
	if err := RequireView(sess, w); err != nil {
		return err
	}
	if !CanEdit(sess, w) {
		return apperrors.New(apperrors.ErrCodeForbidden, "wall %q belongs to another user", w.ID)
	}
	return nil
}
