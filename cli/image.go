// CLAUDE:SUMMARY Image command — standalone AI vision analysis of an image file.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var flagImagePrompt string

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Analyze an image file through AI vision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		contentType := "image/png"
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".gif":
			contentType = "image/gif"
		case ".webp":
			contentType = "image/webp"
		}

		res := eng.Vision().AnalyzeImage(cmd.Context(), data, contentType, flagImagePrompt)
		return printJSON(res)
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringVar(&flagImagePrompt, "prompt", "", "Custom analysis prompt")
}
