package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/presentation"
)

var (
	checkSkip   = newSkipFlags()
	checkExpect string
	checkJSON   bool
)

// newSkipFlags allocates one --skip-<name> target per check. publish and
// check bind the same targets.
func newSkipFlags() map[string]*bool {
	skip := make(map[string]*bool, len(check.Names))
	for _, name := range check.Names {
		skip[name] = new(bool)
	}
	return skip
}

func addSkipFlags(cmd *cobra.Command) {
	for _, name := range check.Names {
		cmd.Flags().BoolVar(checkSkip[name], "skip-"+name, false, "skip the "+name+" check")
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pre-publish validation suite",
	Long: `Run every pre-publish check over the packages of the plan and report each
result. All checks run even after one fails.

Checks:
  versions   every package carries the same version
  artifacts  pregenerated bindings exist for packages that ship them
  git        the working tree has no uncommitted changes
  lockfile   cargo update --dry-run would change nothing
  docs       sys crates build offline, as they do on docs.rs
  tests      cargo test --workspace --lib passes

Exits 1 when any check fails.`,
	Args: noArgs,
	RunE: runCheck,
}

// checkOptions merges the configured skips with the --skip-<name> flags.
func checkOptions(e *env) (check.Options, error) {
	opts := check.OptionsFromConfig(e.cfg.Checks)
	for _, name := range check.Names {
		if *checkSkip[name] {
			if err := opts.SkipCheck(name); err != nil {
				return opts, &UsageError{Err: err}
			}
		}
	}
	return opts, nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	opts, err := checkOptions(e)
	if err != nil {
		return err
	}
	opts.ExpectedVersion = checkExpect

	result := check.NewValidator(e.ws, e.cargo, e.git).Check(cmd.Context(), e.plan.Packages(), opts)
	for _, c := range result.Checks {
		e.metrics.ObserveCheck(c.Name, string(c.Status))
	}
	e.writeMetrics()

	if checkJSON {
		if err := presentation.NewFormatter(e.out).FormatChecks(presentation.FromChecks(result)); err != nil {
			return err
		}
	} else {
		e.printer.Checks(result)
	}
	return result.Err()
}

func init() {
	addSkipFlags(checkCmd)
	checkCmd.Flags().StringVar(&checkExpect, "expect-version", "", "require every package to be at this version")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the results as JSON")
	rootCmd.AddCommand(checkCmd)
}
