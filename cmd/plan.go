package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/presentation"
)

var planJSON bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the publish plan and validate its order",
	Long: `Print the configured publish plan grouped by tier and check that every
package comes after the workspace packages it depends on.

Exits 1 when the order is invalid.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		verr := e.plan.Validate()
		dto := presentation.FromPlan(e.plan, verr)
		if planJSON {
			if err := presentation.NewFormatter(e.out).FormatPlan(dto); err != nil {
				return err
			}
		} else {
			e.printer.Plan(dto)
		}
		return verr
	},
}

var planSetCmd = &cobra.Command{
	Use:   "set <package>...",
	Short: "Replace the publish plan in the config file",
	Long: `Validate a new publish order against the workspace and write it to the
plan section of the config file. Other sections and comments are preserved.

Example:
  releasetrain plan set dear-imgui-sys dear-imgui-rs dear-imgui-wgpu`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		p, err := plan.New(e.ws, args)
		if err != nil {
			return &UsageError{Err: err}
		}
		if err := p.Validate(); err != nil {
			return err
		}
		path := e.configPath()
		if err := config.SavePlan(path, p.Names()); err != nil {
			return err
		}
		e.printer.Success("Saved %d packages to %s", p.Len(), path)
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the plan as JSON")
	planCmd.AddCommand(planSetCmd)
	rootCmd.AddCommand(planCmd)
}
