package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/infrastructure/sqlite"
	"github.com/zjrosen/releasetrain/internal/presentation"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent publish runs",
	Long: `List the publish runs recorded in .releasetrain/history.db, newest first.

The history is an audit record only. publish never reads it to decide where
to resume; the registry is the source of truth.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if historyLimit < 0 {
			return usageErrorf("--limit must not be negative")
		}
		if configErr != nil {
			return &UsageError{Err: configErr}
		}
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		c := cfg
		c.Root = root
		out := cmd.OutOrStdout()

		var runs []presentation.RunDTO
		if _, err := os.Stat(c.HistoryPath()); err == nil {
			db, err := sqlite.NewDB(c.HistoryPath())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			recent, err := db.RunRepository().Recent(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			runs = presentation.FromHistoryList(recent)
		}

		if historyJSON {
			if runs == nil {
				runs = []presentation.RunDTO{}
			}
			return presentation.NewFormatter(out).FormatHistory(runs)
		}
		presentation.NewPrinter(out).History(runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the runs as JSON")
	rootCmd.AddCommand(historyCmd)
}
