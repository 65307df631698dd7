package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/formworks/sheetmap/internal/config"
	"github.com/formworks/sheetmap/internal/grid"
	"github.com/formworks/sheetmap/internal/header"
	"github.com/formworks/sheetmap/internal/llm"
	"github.com/formworks/sheetmap/internal/mapping"
	"github.com/formworks/sheetmap/internal/pipeline"
	"github.com/formworks/sheetmap/internal/semantic"
	"github.com/formworks/sheetmap/internal/xlsx"
)

var (
	sheetName    string
	templateFile string
)

var mapCmd = &cobra.Command{
	Use:   "map <spreadsheet.xlsx>",
	Short: "Map spreadsheet columns onto template cells",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if templateFile == "" {
			return fmt.Errorf("--template is required")
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		sheetGrid, err := loadSheetGrid(args[0], sheetName)
		if err != nil {
			return err
		}
		tmplData, err := os.ReadFile(templateFile)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		tmplGrid, err := xlsx.ReadTemplate(tmplData, "", nil)
		if err != nil {
			return err
		}

		p := buildPipeline(cfg, slog.Default())
		result, err := p.Run(cmd.Context(), sheetGrid, tmplGrid)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	mapCmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "worksheet name (default: first sheet)")
	mapCmd.Flags().StringVarP(&templateFile, "template", "t", "", "template workbook path")
}

func loadSheetGrid(path, sheet string) (*grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	r, err := xlsx.NewSheetReader(data, sheet)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Grid()
}

// buildPipeline assembles the pipeline from configuration. The semantic
// matchers are attached only when the reasoning service is enabled and has
// a resolvable API key.
func buildPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	detector := header.NewDetector(cfg.Header.ToOptions(), logger)
	spatialOpts := cfg.Spatial.ToOptions()
	spatial := mapping.NewSpatialMatcher(spatialOpts, logger)

	var sources []pipeline.Source
	if apiKey := cfg.ResolveAPIKey(); cfg.LLM.Enabled && apiKey != "" {
		client := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:     apiKey,
			Model:      cfg.LLM.Model,
			BaseURL:    cfg.LLM.BaseURL,
			Timeout:    cfg.LLM.Timeout(),
			MaxRetries: cfg.LLM.MaxRetries,
			RateLimit:  cfg.LLM.RateLimit,
		})
		matcherCfg := semantic.Config{
			Client:       client,
			Timeout:      cfg.LLM.Timeout(),
			MaxBelowRows: spatialOpts.MaxBelowRows,
			Logger:       logger,
		}
		sources = append(sources,
			semantic.NewStructureMatcher(matcherCfg),
			semantic.NewColumnMatcher(matcherCfg),
		)
	} else {
		logger.Info("reasoning service not configured, using rule matcher only")
	}

	return pipeline.New(detector, spatial, sources, spatialOpts, cfg.Checklist, logger)
}

func printResult(v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
}
