package main

import (
	"context"
	"os"

	"github.com/arthur-debert/dsfixtures/cmd/dsfixtures"
	"github.com/arthur-debert/dsfixtures/pkg/output"
)

func main() {
	rootCmd := dsfixtures.NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		r := output.NewRenderer(os.Stderr, output.DetectFormat(os.Stderr))
		_ = r.RenderError(err)
		os.Exit(1)
	}
}
