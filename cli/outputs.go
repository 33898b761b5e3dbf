// CLAUDE:SUMMARY Output management commands — list, delete, clear saved outputs; formats info.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Manage saved output files",
}

var outputsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved outputs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		outputs, err := eng.Store().List()
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"count": len(outputs), "outputs": outputs})
	},
}

var outputsDeleteCmd = &cobra.Command{
	Use:   "delete <filename>",
	Short: "Delete one saved output",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		deleted, err := eng.Store().Delete(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("output not found: %s", args[0])
		}
		fmt.Printf("deleted: %s\n", args[0])
		return nil
	},
}

var outputsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved outputs",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		count, err := eng.Store().Clear()
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d output files\n", count)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Show supported input and output formats",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		return printJSON(eng.ParserInfo())
	},
}

func init() {
	outputsCmd.AddCommand(outputsListCmd, outputsDeleteCmd, outputsClearCmd)
	rootCmd.AddCommand(outputsCmd, formatsCmd)
}
