// Package dsfixtures implements the dsfixtures command line.
package dsfixtures

import (
	"context"
	"io"
	"os"

	"github.com/arthur-debert/dsfixtures/internal/version"
	"github.com/arthur-debert/dsfixtures/pkg/config"
	"github.com/arthur-debert/dsfixtures/pkg/datastore/backend"
	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/arthur-debert/dsfixtures/pkg/output"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries global flags and the loaded configuration to subcommands.
type app struct {
	verbosity  int
	configFile string
	backend    string
	dbPath     string

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dsfixtures",
		Short: "Inspect and clean the dataset store used by fixture-wrapped tests",
		Long: `dsfixtures manages the dataset store that the fixtures package isolates
tests against. Use it to list what a test run left behind, mark datasets
persistent so isolation purges keep them, or purge the non-persistent ones.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{
				File: a.configFile,
				Overrides: map[string]interface{}{
					"store.backend": a.backend,
					"store.path":    a.dbPath,
				},
			})
			if err != nil {
				return err
			}
			a.cfg = cfg

			logging.SetupLogger(max(a.verbosity, cfg.Log.Verbosity))
			log.Debug().Str("command", cmd.Name()).Str("backend", cfg.Store.Backend).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default $DSFIXTURES_CONFIG or ./dsfixtures.toml)")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "dataset store backend: sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "sqlite database file (default $XDG_DATA_HOME/dsfixtures/datasets.db)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newDatasetsCmd(a))
	rootCmd.AddCommand(newPlatformCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// withStore opens the configured store, runs fn and closes the store.
func (a *app) withStore(ctx context.Context, fn func(store types.Catalog) error) error {
	logger := logging.WithFields(map[string]interface{}{
		"component": "cmd.store",
		"backend":   a.cfg.Store.Backend,
	})
	defer logging.LogOperationStart(logger, "store session")()

	store, err := backend.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to close dataset store")
		}
	}()
	return fn(store)
}

// renderer builds a renderer for w, resolving FormatAuto against it.
func renderer(w io.Writer, format output.Format) *output.Renderer {
	if format == output.FormatAuto {
		if f, ok := w.(*os.File); ok {
			format = output.DetectFormat(f)
		} else {
			format = output.FormatText
		}
	}
	return output.NewRenderer(w, format)
}
