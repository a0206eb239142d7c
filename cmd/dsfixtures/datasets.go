package dsfixtures

import (
	"fmt"

	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/arthur-debert/dsfixtures/pkg/output"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/spf13/cobra"
)

func newDatasetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"ds"},
		Short:   "Manage datasets in the store",
	}

	cmd.AddCommand(newDatasetsListCmd(a))
	cmd.AddCommand(newDatasetsCreateCmd(a))
	cmd.AddCommand(newDatasetsPersistCmd(a))
	cmd.AddCommand(newDatasetsDeleteCmd(a))
	cmd.AddCommand(newDatasetsPurgeCmd(a))
	return cmd
}

func newDatasetsListCmd(a *app) *cobra.Command {
	var (
		formatName    string
		persistent    bool
		nonPersistent bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List datasets",
		Example: `  # Everything, as a table
  dsfixtures datasets list

  # What the next isolation purge would delete, as JSON
  dsfixtures datasets list --non-persistent --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(formatName)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(store types.Catalog) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				switch {
				case persistent:
					list = types.FilterDatasets(list, true)
				case nonPersistent:
					list = types.FilterDatasets(list, false)
				}
				logger := logging.GetLogger("cmd.datasets")
				logger.Debug().Int("count", len(list)).Msg("Listing datasets")
				return renderer(cmd.OutOrStdout(), format).RenderDatasets(list)
			})
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "auto", "output format: auto, table, text, json or yaml")
	cmd.Flags().BoolVar(&persistent, "persistent", false, "only persistent datasets")
	cmd.Flags().BoolVar(&nonPersistent, "non-persistent", false, "only non-persistent datasets")
	cmd.MarkFlagsMutuallyExclusive("persistent", "non-persistent")
	return cmd
}

func newDatasetsCreateCmd(a *app) *cobra.Command {
	var persistent bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a dataset and print its name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store types.Catalog) error {
				ds, err := store.Create(ctx)
				if err != nil {
					return err
				}
				if persistent {
					if err := store.SetPersistent(ctx, ds, true); err != nil {
						return err
					}
				}
				logger := logging.GetLogger("cmd.datasets")
				logger.Info().Str("dataset", ds.Name).Bool("persistent", ds.Persistent).Msg("Created dataset")
				_, err = fmt.Fprintln(cmd.OutOrStdout(), ds.Name)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&persistent, "persistent", "p", false, "mark the new dataset persistent")
	return cmd
}

func newDatasetsPersistCmd(a *app) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "persist NAME",
		Short: "Mark a dataset persistent so isolation purges keep it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store types.Catalog) error {
				ds, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if err := store.SetPersistent(ctx, ds, !off); err != nil {
					return err
				}
				state := "persistent"
				if off {
					state = "non-persistent"
				}
				return renderer(cmd.OutOrStdout(), output.FormatText).
					RenderMessage(fmt.Sprintf("%s is now %s", ds.Name, state))
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "clear the persistent flag instead")
	return cmd
}

func newDatasetsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a dataset and its samples",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store types.Catalog) error {
				ds, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(ctx, ds); err != nil {
					return err
				}
				return renderer(cmd.OutOrStdout(), output.FormatText).
					RenderMessage(fmt.Sprintf("Deleted %s", ds.Name))
			})
		},
	}
}

func newDatasetsPurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every non-persistent dataset",
		Long: `Purge runs the same store-wide cleanup the isolation wrapper performs
before each test: every dataset not marked persistent is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withStore(ctx, func(store types.Catalog) error {
				count, err := store.Purge(ctx)
				if err != nil {
					return err
				}
				logger := logging.GetLogger("cmd.datasets")
				logger.Info().Int("removed", count).Msg("Purged non-persistent datasets")
				return renderer(cmd.OutOrStdout(), output.FormatText).
					RenderMessage(fmt.Sprintf("Removed %d non-persistent datasets", count))
			})
		},
	}
}
