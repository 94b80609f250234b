package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"smartnotes/internal/app"
	"smartnotes/internal/config"
	"smartnotes/internal/contextutil"
)

type rootOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "notesctl",
		Short: "Maintenance commands for the notes database and search index",
		Long: `notesctl operates directly on the notes database configured through the
environment (DB_PATH, EMBEDDER, VECTOR_BACKEND, ...). Run it while the API
server is stopped or idle; SQLite serialises concurrent writers.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newImportCmd(opts),
		newReindexCmd(opts),
		newSearchCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

// open loads configuration and wires the stack. Logs go to stderr so that
// command output on stdout stays machine-readable.
func (o *rootOptions) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if o.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := contextutil.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)
	return app.New(ctx, cfg)
}
