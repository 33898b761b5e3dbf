// CLAUDE:SUMMARY Targeted extraction commands — text, tables, metadata.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Extract only the plain text from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		text, err := eng.ExtractText(args[0])
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables <file>",
	Short: "Extract only the tables from a document, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		tables, err := eng.ExtractTables(args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"table_count": len(tables), "tables": tables})
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata <file>",
	Short: "Extract only the document metadata, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		meta, err := eng.ExtractMetadata(args[0])
		if err != nil {
			return err
		}
		return printJSON(meta)
	},
}

func init() {
	rootCmd.AddCommand(textCmd, tablesCmd, metadataCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
