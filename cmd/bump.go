package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/presentation"
	"github.com/zjrosen/releasetrain/internal/version"
)

var (
	bumpDryRun     bool
	bumpOldVersion string
	bumpCrates     []string
	bumpSkipReadme bool
	bumpJSON       bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump <version>",
	Short: "Move every package to a new version",
	Long: `Rewrite the version of every workspace package, the version requirements
between workspace packages, and the version references in the configured
documentation files.

All edits are computed and checked before the first file is written. If any
file cannot be edited, nothing is written.

Examples:
  # Preview the change as a diff
  releasetrain bump 0.5.0 --dry-run

  # Bump a subset that is still on an older version
  releasetrain bump 0.5.1 --crates dear-implot-sys,dear-implot --old-version 0.5.0`,
	Args: exactArgs(1),
	RunE: runBump,
}

func runBump(cmd *cobra.Command, args []string) error {
	if err := version.Validate(args[0]); err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	opts := version.Options{
		Target:   args[0],
		Old:      bumpOldVersion,
		Packages: bumpCrates,
		DryRun:   bumpDryRun,
	}
	if !bumpSkipReadme {
		opts.DocFiles = e.cfg.Bump.DocFiles
	}

	result, err := version.NewStore(e.ws).Bump(opts)
	if err != nil {
		return err
	}
	if !result.DryRun {
		e.metrics.ObserveBump(len(result.Files))
		e.writeMetrics()
	}

	if bumpJSON {
		return presentation.NewFormatter(e.out).FormatBump(presentation.FromBump(result))
	}
	e.printer.Bump(result)
	if !result.DryRun {
		e.printer.NextSteps(e.renderer(), presentation.AfterBump, result.New)
	}
	return nil
}

func init() {
	bumpCmd.Flags().BoolVar(&bumpDryRun, "dry-run", false, "show the diff without writing")
	bumpCmd.Flags().StringVar(&bumpOldVersion, "old-version", "", "expected current version (default: the first package's version)")
	bumpCmd.Flags().StringSliceVar(&bumpCrates, "crates", nil, "only bump these packages (comma separated)")
	bumpCmd.Flags().BoolVar(&bumpSkipReadme, "skip-readme", false, "leave documentation files untouched")
	bumpCmd.Flags().BoolVar(&bumpJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(bumpCmd)
}
