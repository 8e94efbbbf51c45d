// Package sqlite stores walls in a SQLite database.
//
// Each wall is one row in walls. Its items are rows in items, keyed by
// wall and ordinal so that item order survives a round trip. Artwork
// payloads are kept as JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/wall"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// Store is a SQLite-backed [store.Store].
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "create database dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "open sqlite")
	}
	// Every connection to :memory: is a separate database.
	if path == Memory {
		db.SetMaxOpenConns(1)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "init schema")
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS walls (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			public INTEGER NOT NULL DEFAULT 0,
			unit REAL NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			version INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_walls_owner ON walls(owner_id, updated_at);

		CREATE TABLE IF NOT EXISTS items (
			wall_id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			id TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			w INTEGER NOT NULL,
			h INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (wall_id, ord)
		);
	`)
	return err
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// WithTx executes fn within a transaction.
// It handles Begin, Rollback on error, and Commit on success.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, id string) (*wall.Wall, error) {
	var (
		w                wall.Wall
		public           int
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, public, unit, width, height, version, created_at, updated_at
		FROM walls WHERE id = ?`, id,
	).Scan(&w.ID, &w.OwnerID, &w.Name, &public, &w.Unit, &w.Width, &w.Height, &w.Version, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(id)
	}
	if err != nil {
		return nil, wrap(err, "get wall")
	}
	w.Public = public != 0
	w.CreatedAt = time.Unix(0, created).UTC()
	w.UpdatedAt = time.Unix(0, updated).UTC()

	items, err := s.items(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Items = items
	return &w, nil
}

func (s *Store) items(ctx context.Context, wallID string) ([]wall.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, x, y, w, h, payload FROM items WHERE wall_id = ? ORDER BY ord`, wallID)
	if err != nil {
		return nil, wrap(err, "query items")
	}
	defer rows.Close()

	items := []wall.Item{}
	for rows.Next() {
		var (
			it      wall.Item
			payload string
		)
		if err := rows.Scan(&it.ID, &it.Position.X, &it.Position.Y, &it.Size.Width, &it.Size.Height, &payload); err != nil {
			return nil, wrap(err, "scan item")
		}
		if err := json.Unmarshal([]byte(payload), &it.Payload); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "decode payload of item %s", it.ID)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "read items")
	}
	return items, nil
}

// Save upserts the wall row and replaces its items in one transaction.
func (s *Store) Save(ctx context.Context, w *wall.Wall) error {
	if err := store.CheckSave(w); err != nil {
		return err
	}
	next := w.Clone()
	next.Touch()

	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO walls (id, owner_id, name, public, unit, width, height, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				owner_id = excluded.owner_id,
				name = excluded.name,
				public = excluded.public,
				unit = excluded.unit,
				width = excluded.width,
				height = excluded.height,
				version = excluded.version,
				updated_at = excluded.updated_at`,
			next.ID, next.OwnerID, next.Name, boolInt(next.Public), next.Unit, next.Width, next.Height,
			next.Version, next.CreatedAt.UnixNano(), next.UpdatedAt.UnixNano())
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE wall_id = ?`, next.ID); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO items (wall_id, ord, id, x, y, w, h, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, it := range next.Items {
			payload, err := json.Marshal(it.Payload)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, next.ID, i, it.ID, it.Position.X, it.Position.Y,
				it.Size.Width, it.Size.Height, string(payload)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrap(err, "save wall %s", w.ID)
	}

	w.Version = next.Version
	w.UpdatedAt = next.UpdatedAt
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	var n int64
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM walls WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ = res.RowsAffected(); n == 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM items WHERE wall_id = ?`, id)
		return err
	})
	if err != nil {
		return wrap(err, "delete wall")
	}
	if n == 0 {
		return store.NotFound(id)
	}
	return nil
}

func (s *Store) List(ctx context.Context, ownerID string) ([]wall.Summary, error) {
	query := `
		SELECT w.id, w.owner_id, w.name, w.public, w.width, w.height, w.updated_at,
			(SELECT COUNT(*) FROM items i WHERE i.wall_id = w.id)
		FROM walls w`
	var args []any
	if ownerID != "" {
		query += ` WHERE w.owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY w.updated_at DESC, w.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(err, "list walls")
	}
	defer rows.Close()

	out := []wall.Summary{}
	for rows.Next() {
		var (
			sum     wall.Summary
			public  int
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.OwnerID, &sum.Name, &public, &sum.Width, &sum.Height, &updated, &sum.ItemCount); err != nil {
			return nil, wrap(err, "scan wall")
		}
		sum.Public = public != 0
		sum.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "list walls")
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// wrap converts a database error to a storage error. Lock contention is
// marked retryable.
func wrap(err error, format string, args ...any) error {
	e := apperrors.Wrap(apperrors.ErrCodeStorage, err, format, args...)
	if isBusy(err) {
		return store.Retryable(e)
	}
	return e
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ store.Store = (*Store)(nil)
