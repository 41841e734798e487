// Package main is the entry point for the releasetrain CLI.
package main

import (
	"fmt"
	"os"

	"github.com/zjrosen/releasetrain/cmd"
	"github.com/zjrosen/releasetrain/internal/presentation"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	versionString := fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	cmd.SetVersion(versionString)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, presentation.ErrorStyle.Render("Error:"), err)
		os.Exit(cmd.ExitCode(err))
	}
}
