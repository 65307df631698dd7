package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/formworks/sheetmap/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "sheetmap",
	Short: "Map irregular spreadsheet columns onto document template cells",
	Long: `sheetmap ingests spreadsheets with irregular, multi-row, merged-cell
headers and a structured document template, and produces a field mapping:
for each spreadsheet column, which template cell should receive its data.

The pipeline includes:
  - Metadata/header/data-row inference with hierarchical column naming
  - Spatial label/data adjacency matching against the template grid
  - Optional semantic matching via an external reasoning service
  - Consensus merging, finalization, and required-field validation`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.sheetmap/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
