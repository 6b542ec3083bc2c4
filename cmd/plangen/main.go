// Command plangen generates training and nutrition plans from YAML files without running the web service.
//
// Usage:
//
//	plangen catalog export --sqlite-url ./fitcoach.sqlite3 > catalog.yaml
//	plangen generate --profile profile.yaml --catalog catalog.yaml --seed 42 --format markdown
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/logging"
	"github.com/spf13/cobra"
)

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   false,
		Level:       level,
		ReplaceAttr: nil,
	})))
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var (
		verbose bool
		level   slog.LevelVar
	)
	level.Set(slog.LevelWarn)
	logger := newLogger(stderr, &level)

	root := &cobra.Command{
		Use:           "plangen",
		Short:         "Generate personalized training and nutrition plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.SetErr(stderr)

	root.AddCommand(newGenerateCmd(logger), newCatalogCmd(logger))
	return root
}

func main() {
	ctx := context.Background()
	root := newRootCmd(os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		newLogger(os.Stderr, slog.LevelError).LogAttrs(ctx, slog.LevelError, "plangen failed", errors.SlogError(err))
		os.Exit(1)
	}
}
