// CLAUDE:SUMMARY Parse command — full pipeline run with optional vision enrichment and output persistence.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/render"
)

var (
	flagParseFormat string
	flagParseSave   bool
	flagParseName   string
	flagParseEnrich bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a document and print it in the chosen format",
	Long: `Parse runs the full extraction pipeline on one document.

Examples:
  fileparser parse report.pdf
  fileparser parse slides.pptx --format markdown
  fileparser parse data.xlsx --format csv --save
  fileparser parse report.docx --analyze-images --save --name report-v2`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&flagParseFormat, "format", "f", "json", "Output format (json, markdown, csv, txt)")
	parseCmd.Flags().BoolVar(&flagParseSave, "save", false, "Persist the output in the output directory")
	parseCmd.Flags().StringVar(&flagParseName, "name", "", "Custom output filename without extension (with --save)")
	parseCmd.Flags().BoolVar(&flagParseEnrich, "analyze-images", false, "Describe embedded images through AI vision")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(flagParseFormat)
	if err != nil {
		return err
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	doc, err := eng.Parse(cmd.Context(), args[0], flagParseEnrich)
	if err != nil {
		return err
	}

	out, err := render.Render(doc, format)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)

	if flagParseSave {
		path, err := eng.Save(doc, format, flagParseName)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved: %s\n", path)
	}
	return nil
}
