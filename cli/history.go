// CLAUDE:SUMMARY History command — recent parse runs from the sqlite run log.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent parse runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		if eng.History() == nil {
			return fmt.Errorf("run history not enabled (set history_db in the config file)")
		}
		runs, err := eng.History().Recent(cmd.Context(), flagHistoryLimit)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"count": len(runs), "runs": runs})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum runs to show")
}
