package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dsfixtures/cmd/dsfixtures"
	"github.com/arthur-debert/dsfixtures/internal/version"
)

func main() {
	rootCmd := dsfixtures.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DSFIXTURES",
		Section: "1",
		Source:  "dsfixtures " + version.Version,
		Manual:  "dsfixtures manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
