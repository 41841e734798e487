package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/presentation"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config to .releasetrain/config.yaml",
	Long: `Create .releasetrain/config.yaml in the workspace root with the default
package registry, publish plan and options, each documented inline.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		path := filepath.Join(root, config.DirName, config.FileName)
		if _, err := os.Stat(path); err == nil && !initForce {
			return usageErrorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		p := presentation.NewPrinter(cmd.OutOrStdout())
		p.Success("Wrote %s", path)
		fmt.Fprintln(cmd.OutOrStdout(), "Edit packages and plan to match your workspace, then run `releasetrain plan`.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
