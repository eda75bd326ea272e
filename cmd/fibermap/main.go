// Command fibermap converts tractography tracks to Fibers.bin, reports which
// fibers cross each electrode influence zone and serves the results over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sanonone/fibermap/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "fibermap",
	Short:         "Fiber track codec and electrode zone analysis",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")

	rootCmd.AddCommand(convertCmd, inspectCmd, analyzeCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogger installs the default slog logger. The flag wins over the config.
func setupLogger(flagLevel string) error {
	name := flagLevel
	if name == "" {
		// Config errors surface again in the command itself.
		if cfg, err := config.LoadConfig(configPath); err == nil {
			name = cfg.LogLevel
		}
	}
	level, err := config.ParseLevel(name)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads --config, applying defaults when the flag is empty.
func loadConfig() (config.Config, error) {
	return config.LoadConfig(configPath)
}
