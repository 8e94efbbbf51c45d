// Package cli implements the myseum command-line interface.
//
// # Commands
//
//   - wall: create, list, show, share, fit, delete, import and export walls
//   - item: hang, move, resize and remove artworks
//   - edit: arrange a wall interactively in the terminal
//   - serve: run the HTTP API
//   - session: issue API tokens
//
// Commands act as the local user against the store selected in the config
// file (see internal/config). All commands accept --config and --verbose.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/myseum/internal/config"
	"github.com/matzehuels/myseum/pkg/buildinfo"
	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/session"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/store/backend"
)

const appName = "myseum"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// errOut receives progress output such as the connect spinner.
	errOut io.Writer

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), errOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Myseum arranges artworks on gallery walls",
		Long:              `Myseum lays out framed artworks on grid-based gallery walls, checks every move and resize for overlaps, and shares finished walls over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.wallCommand())
	root.AddCommand(c.itemCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, _ := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// openService opens the configured store and returns a gallery service over
// it. The returned close function flushes pending saves and closes the
// store.
func (c *CLI) openService(ctx context.Context) (*gallery.Service, func(), error) {
	logger := loggerFromContext(ctx)

	var spin *connectSpinner
	if remote(c.cfg.Store.Backend) {
		spin = startSpinner(ctx, c.errOut, "Connecting to "+c.cfg.Store.Backend)
	}
	st, err := backend.Open(ctx, c.cfg.Store.Config)
	if spin != nil {
		interrupted := spin.interrupted()
		spin.stop()
		if err != nil && interrupted {
			return nil, nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("store opened", "backend", st.Backend())

	var flusher *store.Flusher
	if c.cfg.Store.FlushDelay > 0 {
		flusher = store.NewFlusher(st, store.FlusherOptions{
			Delay:  c.cfg.Store.FlushDelay,
			Logger: logger,
		})
	}
	svc := gallery.NewService(st, flusher, logger)
	closeFn := func() {
		svc.Close()
		if err := st.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}
	return svc, closeFn, nil
}

// sessions opens the file session store used by the API.
func (c *CLI) sessions() (*session.FileStore, error) {
	return session.NewFileStore(c.cfg.Server.Sessions)
}

func remote(backendName string) bool {
	name := strings.ToLower(backendName)
	return name == store.BackendRedis || name == store.BackendMongo
}

// local is the session every CLI command acts under.
func local() *session.Session { return session.Local() }

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout
