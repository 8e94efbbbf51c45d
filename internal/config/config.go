// Package config loads myseum settings from a TOML file and the
// environment.
//
// The default file is myseum/config.toml under the XDG config directories.
// A missing default file is not an error; every setting has a default.
// Environment variables override the file:
//
//	MYSEUM_STORE        store backend (memory, file, sqlite, redis, mongo)
//	MYSEUM_STORE_PATH   file directory or sqlite database
//	MYSEUM_REDIS_URL    redis://host:port/db
//	MYSEUM_MONGO_URI    mongodb://host:port
//	MYSEUM_ADDR         HTTP listen address
//	MYSEUM_LOG_LEVEL    debug, info, warn or error
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/store/backend"
	"github.com/matzehuels/myseum/pkg/wall"
)

const appName = "myseum"

// Config is the complete myseum configuration.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// GridConfig holds defaults for new walls.
type GridConfig struct {
	UnitInches    float64 `toml:"unit_inches"`
	DefaultWidth  int     `toml:"default_width"`
	DefaultHeight int     `toml:"default_height"`
}

// StoreConfig selects the wall store.
type StoreConfig struct {
	backend.Config
	// FlushDelay enables asynchronous saves with this debounce window.
	// Zero saves synchronously.
	FlushDelay time.Duration `toml:"flush_delay"`
}

// ServerConfig configures `myseum serve`.
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	ReadTimeout time.Duration `toml:"read_timeout"`
	NoAuth      bool          `toml:"no_auth"`
	// Sessions is the directory of the file session store.
	Sessions string `toml:"sessions"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			UnitInches:    wall.DefaultUnit,
			DefaultWidth:  60,
			DefaultHeight: 40,
		},
		Store: StoreConfig{
			Config: backend.Config{
				Backend:       store.BackendSQLite,
				Path:          dataPath("myseum.db"),
				RedisPrefix:   "myseum:",
				MongoDatabase: "myseum",
			},
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			ReadTimeout: 15 * time.Second,
			Sessions:    dataPath("sessions"),
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load reads the config at path, or the default file when path is empty,
// then applies environment overrides. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if found, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml")); err == nil {
			path = found
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "config file %s", path)
			}
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("MYSEUM_STORE", &c.Store.Backend)
	set("MYSEUM_STORE_PATH", &c.Store.Path)
	set("MYSEUM_REDIS_URL", &c.Store.RedisURL)
	set("MYSEUM_MONGO_URI", &c.Store.MongoURI)
	set("MYSEUM_ADDR", &c.Server.Addr)
	set("MYSEUM_LOG_LEVEL", &c.Log.Level)
}

// Validate checks the config for settings that can never work.
func (c *Config) Validate() error {
	if c.Grid.UnitInches <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "grid.unit_inches must be positive")
	}
	if c.Grid.DefaultWidth <= 0 || c.Grid.DefaultHeight <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "grid default size must be positive")
	}
	if c.Store.FlushDelay < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "store.flush_delay must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	c.Store.Path = expandPath(c.Store.Path)
	c.Server.Sessions = expandPath(c.Server.Sessions)
	return c.Store.Validate()
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return log.InfoLevel, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "log.level")
	}
	return lvl, nil
}

func dataPath(name string) string {
	return filepath.Join(xdg.DataHome, appName, name)
}

func expandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
