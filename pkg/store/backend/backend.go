// Package backend opens the configured [store.Store].
package backend

import (
	"context"
	"slices"
	"strings"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/store/mongo"
	"github.com/matzehuels/myseum/pkg/store/redis"
	"github.com/matzehuels/myseum/pkg/store/sqlite"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend string `toml:"backend"`
	// Path is the wall directory for the file backend and the database file
	// for sqlite.
	Path          string `toml:"path"`
	RedisURL      string `toml:"redis_url"`
	RedisPrefix   string `toml:"redis_prefix"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Validate checks that the backend is known and has what it needs.
func (c Config) Validate() error {
	name := strings.ToLower(c.Backend)
	if !slices.Contains(store.Backends, name) {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"unknown store backend %q (want one of %s)", c.Backend, strings.Join(store.Backends, ", "))
	}
	switch name {
	case store.BackendFile, store.BackendSQLite:
		if c.Path == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "%s store needs a path", name)
		}
	case store.BackendRedis:
		if c.RedisURL == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "redis store needs redis_url")
		}
	case store.BackendMongo:
		if c.MongoURI == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "mongo store needs mongo_uri")
		}
	}
	return nil
}

// Open connects to the configured backend. The result reports load and
// save latency through the registered observability hooks.
func Open(ctx context.Context, cfg Config) (*store.Instrumented, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name := strings.ToLower(cfg.Backend)

	var (
		s   store.Store
		err error
	)
	switch name {
	case store.BackendMemory:
		s = store.NewMemoryStore()
	case store.BackendFile:
		s, err = store.NewFileStore(cfg.Path)
	case store.BackendSQLite:
		s, err = sqlite.Open(cfg.Path)
	case store.BackendRedis:
		s, err = redis.Open(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case store.BackendMongo:
		s, err = mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	if err != nil {
		return nil, err
	}
	return store.Instrument(s, name), nil
}
