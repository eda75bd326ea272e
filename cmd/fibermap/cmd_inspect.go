package main

import (
	"encoding/json"

	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [fibers.bin|url]",
	Short: "Decode a Fibers.bin resource and print its statistics as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ref := cfg.FibersPath
	if len(args) == 1 {
		ref = args[0]
	}

	fs, err := fiber.Load(cmd.Context(), fiber.LoaderFor(ref, cfg.FetchTimeout.Std()), ref)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(fiber.ComputeStats(fs))
}
