package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/bindings"
	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/presentation"
	"github.com/zjrosen/releasetrain/internal/release"
	"github.com/zjrosen/releasetrain/internal/version"
)

var (
	prepOldVersion string
	prepSkipReadme bool
)

var releasePrepCmd = &cobra.Command{
	Use:   "release-prep <version>",
	Short: "Bump, regenerate bindings, test and check in one go",
	Long: `Prepare a release: bump every package to <version>, regenerate the native
bindings, run the tests and run the pre-publish checks. The flow stops at the
first stage that fails. Files written by earlier stages are kept.

The git check is skipped because the bump itself leaves the tree dirty, and
the tests check is skipped because tests already ran as a stage.

Example:
  releasetrain release-prep 0.5.0`,
	Args: exactArgs(1),
	RunE: runReleasePrep,
}

func runReleasePrep(cmd *cobra.Command, args []string) error {
	if err := version.Validate(args[0]); err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	checks, err := checkOptions(e)
	if err != nil {
		return err
	}
	req := release.PrepRequest{
		Target: args[0],
		Old:    prepOldVersion,
		Bindings: bindings.Request{
			Profile:    e.cfg.Bindings.Profile,
			Submodules: e.cfg.Bindings.Submodules,
		},
		Checks: checks,
	}
	if !prepSkipReadme {
		req.DocFiles = e.cfg.Bump.DocFiles
	}
	if err := req.Bindings.Validate(); err != nil {
		return &UsageError{Err: err}
	}

	provider, flush, err := e.tracer()
	if err != nil {
		return err
	}
	defer flush()

	prep := release.NewPrep(release.PrepConfig{
		Bumper:   version.NewStore(e.ws),
		Bindings: newBindingsRunner(e),
		Tests:    e.cargo,
		Checker:  check.NewValidator(e.ws, e.cargo, e.git),
		Reload:   e.reload,
		Metrics:  e.metrics,
		Tracer:   provider.Tracer(),
	})

	result, err := prep.Run(cmd.Context(), req)
	e.writeMetrics()
	if result.Bump != nil {
		e.printer.Bump(result.Bump)
	}
	e.printer.Prep(result)
	if result.Checks != nil {
		e.printer.Checks(result.Checks)
	}
	if err != nil {
		var stage *release.StageError
		if errors.As(err, &stage) {
			e.printer.Error("release-prep stopped at %s", stage.Stage)
		}
		return err
	}
	e.printer.NextSteps(e.renderer(), presentation.AfterPrep, args[0])
	return nil
}

func init() {
	releasePrepCmd.Flags().StringVar(&prepOldVersion, "old-version", "", "expected current version (default: the first package's version)")
	releasePrepCmd.Flags().BoolVar(&prepSkipReadme, "skip-readme", false, "leave documentation files untouched")
	rootCmd.AddCommand(releasePrepCmd)
}
