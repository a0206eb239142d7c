package dsfixtures

import (
	"fmt"

	"github.com/arthur-debert/dsfixtures/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "dsfixtures version %s\n", version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}
