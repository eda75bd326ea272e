package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sanonone/fibermap/internal/config"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/zone"
	"github.com/spf13/cobra"
)

var analyzeOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the fiber/zone membership of every model and write it as JSON",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "-", "output file, - for stdout")
}

// loadAndAnalyze is shared by analyze and serve.
func loadAndAnalyze(ctx context.Context, cfg config.Config) (fiber.FiberSet, *zone.Report, error) {
	fs, err := fiber.Load(ctx, fiber.LoaderFor(cfg.FibersPath, cfg.FetchTimeout.Std()), cfg.FibersPath)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Fibers loaded", "source", cfg.FibersPath, "fibers", len(fs), "vertices", fs.VertexCount())

	if len(cfg.Electrodes) == 0 {
		slog.Warn("No electrodes configured, every membership table will be empty")
	}

	report, err := zone.Analyze(ctx, cfg.Layout(), fs, zone.Options{
		Workers: cfg.Workers,
		Policy:  cfg.Policy(),
	})
	if err != nil {
		return nil, nil, err
	}
	for _, m := range report.Models {
		slog.Info("Membership computed",
			"run_id", report.RunID,
			"model", m.Model,
			"zones", len(m.Zones),
			"entries", len(m.Table),
			"touched_fibers", m.Assignment.Count(),
		)
	}
	return fs, report, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, report, err := loadAndAnalyze(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if analyzeOut == "-" {
		return writeReport(cmd.OutOrStdout(), report)
	}

	f, err := os.Create(analyzeOut)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeReport(f, report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

func writeReport(w io.Writer, report *zone.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
