package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/formworks/sheetmap/internal/config"
	"github.com/formworks/sheetmap/internal/header"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <spreadsheet.xlsx>",
	Short: "Show header inference results without mapping",
	Long: `Inspect runs only the header inference stage: metadata rows, header
rows, data start, and the synthesized hierarchical column names. Useful for
checking how a new document family is read before tuning the heuristics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		g, err := loadSheetGrid(args[0], sheetName)
		if err != nil {
			return err
		}

		detector := header.NewDetector(cm.Get().Header.ToOptions(), slog.Default())
		return printResult(detector.Analyze(g))
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "worksheet name (default: first sheet)")
}
