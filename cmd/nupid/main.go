// Command nupid builds, inspects, and applies parameterized PID transforms
// from a stage configuration file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qft-labs/nupid/internal/config"
	"github.com/qft-labs/nupid/internal/logging"
	"github.com/qft-labs/nupid/internal/stage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nupid",
	Short: "Parameterized PID transform builder",
	Long: `nupid turns per-flavor event-rate histograms into track-like and
cascade-like histograms, using energy-dependent probability curves from a
PID parameterization file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "nupid.yaml", "stage configuration file")
}

// setup loads the configuration, initializes logging, and builds the stage.
func setup() (config.Config, *stage.Stage, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logging.Init(logging.ParseLevel(cfg.Logging.Level))
	st, err := stage.FromConfig(cfg, nil, slog.Default())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nupid:", err)
		os.Exit(1)
	}
}
