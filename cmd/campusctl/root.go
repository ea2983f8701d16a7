package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/campus-connect/internal/config"
	"github.com/sakif/campus-connect/internal/logger"
	"github.com/sakif/campus-connect/internal/repository"
	"github.com/sakif/campus-connect/internal/store"
	"github.com/sakif/campus-connect/internal/store/backend"
)

// opener returns the store a command works on. Tests swap it for a memory
// store.
type opener func(ctx context.Context, cfg *config.Config) (store.Store, backend.CloseFunc, error)

func defaultOpener(ctx context.Context, cfg *config.Config) (store.Store, backend.CloseFunc, error) {
	return backend.Open(ctx, cfg)
}

// cli carries global flags and the opened store between commands.
type cli struct {
	backendName string
	dbPath      string
	verbose     bool

	open   opener
	logger *slog.Logger
	store  store.Store
	close  backend.CloseFunc
}

// run executes one command line and always releases the store, including
// when the command fails.
func run(open opener, args []string, stdout, stderr io.Writer) error {
	root, c := newRootCmd(open)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := c.teardown(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(open opener) (*cobra.Command, *cli) {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "campusctl",
		Short: "Inspect and maintain a campus-connect store",
		Long: `campusctl works directly on the store the server writes through to.

Settings come from the same environment variables as the server
(STORE_BACKEND, DB_PATH, REDIS_ADDR, MONGO_URI, POSTGRES_DSN, ...).
Flags override them.

Do not run write commands (logout, import) against a store a live server
is using: the server keeps its own copy in memory and will overwrite them.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.backendName, "backend", "", "store backend (overrides STORE_BACKEND)")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "sqlite database path (overrides DB_PATH)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.statsCmd(),
		c.usersCmd(),
		c.postsCmd(),
		c.logoutCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root, c
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if c.backendName != "" {
		cfg.Backend = strings.ToLower(c.backendName)
	}
	if c.dbPath != "" {
		cfg.DBPath = c.dbPath
	}

	level := cfg.Log.Level
	if c.verbose {
		level = "debug"
	}
	c.logger, err = logger.New(cmd.ErrOrStderr(), logger.Options{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	c.store, c.close, err = c.open(ctx, cfg)
	if err != nil {
		return err
	}
	c.logger.Debug("store opened", slog.String("backend", cfg.Backend))
	return nil
}

func (c *cli) teardown() error {
	if c.close == nil {
		return nil
	}
	err := c.close()
	c.close = nil
	return err
}

// repo loads the domain repository over the opened store.
func (c *cli) repo(ctx context.Context) (*repository.Repository, error) {
	r, err := repository.New(ctx, c.store, c.logger)
	if err != nil {
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return r, nil
}
