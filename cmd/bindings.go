package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/bindings"
)

var (
	bindingsCrates     []string
	bindingsProfile    string
	bindingsSubmodules string
	bindingsDryRun     bool
)

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Regenerate the pregenerated native bindings",
	Long: `Run the configured binding generator (bindings.command) from the workspace
root. releasetrain only invokes the generator; it never generates bindings
itself.

Examples:
  releasetrain bindings --crates all --profile release
  releasetrain bindings --crates dear-implot-sys --submodules update`,
	Args: noArgs,
	RunE: runBindings,
}

// bindingsRequest builds a generator request from flags, falling back to config.
func bindingsRequest(cmd *cobra.Command, e *env) (bindings.Request, error) {
	req := bindings.Request{
		Profile:    e.cfg.Bindings.Profile,
		Submodules: e.cfg.Bindings.Submodules,
		DryRun:     bindingsDryRun,
	}
	if cmd.Flags().Changed("profile") {
		req.Profile = bindingsProfile
	}
	if cmd.Flags().Changed("submodules") {
		req.Submodules = bindingsSubmodules
	}
	if len(bindingsCrates) > 0 && !slices.Equal(bindingsCrates, []string{"all"}) {
		if _, err := e.ws.Lookup(bindingsCrates); err != nil {
			return req, err
		}
		req.Crates = bindingsCrates
	}
	if err := req.Validate(); err != nil {
		return req, &UsageError{Err: err}
	}
	return req, nil
}

func runBindings(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	req, err := bindingsRequest(cmd, e)
	if err != nil {
		return err
	}
	runner := newBindingsRunner(e)
	if err := runner.Run(cmd.Context(), req); err != nil {
		return err
	}
	if req.DryRun {
		e.printer.Success("Binding generator dry run finished")
	} else {
		e.printer.Success("Bindings regenerated")
	}
	return nil
}

// newBindingsRunner builds the generator runner. Tests replace it with a fake.
var newBindingsRunner = func(e *env) bindings.Runner {
	return bindings.NewCommandRunner(e.cfg.Bindings.Command, e.root, rootCmd.ErrOrStderr())
}

func init() {
	bindingsCmd.Flags().StringSliceVar(&bindingsCrates, "crates", nil, "packages to regenerate, or all (default all)")
	bindingsCmd.Flags().StringVar(&bindingsProfile, "profile", bindings.ProfileRelease, "build profile: debug or release")
	bindingsCmd.Flags().StringVar(&bindingsSubmodules, "submodules", bindings.SubmodulesSkip, "submodule handling: auto, update or skip")
	bindingsCmd.Flags().BoolVar(&bindingsDryRun, "dry-run", false, "ask the generator to report without writing")
	rootCmd.AddCommand(bindingsCmd)
}
