package dsfixtures

import (
	"github.com/arthur-debert/dsfixtures/pkg/output"
	"github.com/spf13/cobra"
)

type platformInfo struct {
	Platform string `json:"platform" yaml:"platform"`
	Override bool   `json:"override" yaml:"override"`
	SkipOn   string `json:"skip_on" yaml:"skip_on"`
	Skipped  bool   `json:"skipped" yaml:"skipped"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func newPlatformCmd(a *app) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show the detected platform and whether skip-wrapped tests would run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(formatName)
			if err != nil {
				return err
			}

			suite := a.cfg.Suite(nil)
			name := suite.Probe.Name()
			info := platformInfo{
				Platform: name,
				Override: a.cfg.Platform.Override != "",
				SkipOn:   suite.SkipPlatform,
				Skipped:  suite.WouldSkip(name),
			}
			if info.Skipped {
				info.Reason = suite.SkipReason
			}

			pairs := []output.Pair{
				{Key: "platform", Value: name},
				{Key: "skip on", Value: orNone(info.SkipOn)},
				{Key: "skipped", Value: yesNo(info.Skipped)},
			}
			if info.Skipped {
				pairs = append(pairs, output.Pair{Key: "reason", Value: info.Reason})
			}
			return renderer(cmd.OutOrStdout(), format).RenderSummary(info, pairs...)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "auto", "output format: auto, text, json or yaml")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
