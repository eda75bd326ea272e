package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanonone/fibermap/internal/config"
	"github.com/sanonone/fibermap/internal/server"
	"github.com/sanonone/fibermap/pkg/fiber"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Analyze once and serve fibers, membership and colors over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "http-addr", "", "listen address; overrides the config file")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "re-analyze when the local fibers file changes")
}

func buildDataset(ctx context.Context, cfg config.Config) (*server.Dataset, error) {
	fs, report, err := loadAndAnalyze(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return server.NewDataset(fs, cfg.Layout(), report, cfg.PaletteOrDefault(), cfg.BaseColor)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	data, err := buildDataset(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	srv := server.NewServer(data, cfg.HTTPAddr)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveWatch {
		if fiber.IsRemote(cfg.FibersPath) {
			return fmt.Errorf("--watch needs a local fibers_path, got %s", cfg.FibersPath)
		}
		w := server.NewWatcher(srv, cfg.FibersPath, func(ctx context.Context) (*server.Dataset, error) {
			return buildDataset(ctx, cfg)
		})
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("File watcher stopped", "error", err)
			}
		}()
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-shutdownChan:
	}

	cancel()
	srv.Shutdown()
	return <-errCh
}
