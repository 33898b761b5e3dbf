// CLAUDE:SUMMARY Cobra root command — shared flags, config loading and engine construction.
// Package cli implements the fileparser command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/engine"
)

var (
	flagConfig    string
	flagOutputDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "fileparser",
	Short: "Extract structured content from office documents",
	Long: `fileparser parses PDF, Word (.docx), Excel (.xlsx) and PowerPoint
(.pptx) files into one normalized document model, optionally enriches
embedded images through AI vision, and renders the result as JSON,
Markdown, CSV or plain text.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "Output directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// Execute runs the root command under ctx.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEngine builds the pipeline engine from the shared flags.
func newEngine() (*engine.Engine, error) {
	cfg, err := engine.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	return engine.New(cfg, slog.Default())
}
