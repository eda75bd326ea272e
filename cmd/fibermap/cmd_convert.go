package main

import (
	"log/slog"

	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/sanonone/fibermap/pkg/trackconv"
	"github.com/spf13/cobra"
)

var (
	convertInclude []string
	convertExclude []string
)

var convertCmd = &cobra.Command{
	Use:   "convert <tracks-dir> <out.bin>",
	Short: "Convert a directory of text tracks into Fibers.bin",
	Long: `Walks the directory in lexical order. Every file is one fiber and every
non-blank line is one "x y z" vertex.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringSliceVar(&convertInclude, "include", nil, "file name glob patterns to include")
	convertCmd.Flags().StringSliceVar(&convertExclude, "exclude", nil, "file name glob patterns to exclude")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	src, dst := args[0], args[1]

	fs, err := trackconv.ReadDir(ctx, src, trackconv.Options{
		IncludePatterns: convertInclude,
		ExcludePatterns: convertExclude,
	})
	if err != nil {
		return err
	}

	if err := fiber.WriteFile(ctx, dst, fs); err != nil {
		return err
	}

	slog.Info("Tracks converted",
		"source", src,
		"output", dst,
		"fibers", len(fs),
		"vertices", fs.VertexCount(),
		"bytes", fiber.EncodedSize(fs),
	)
	return nil
}
