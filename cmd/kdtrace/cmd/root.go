package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kdsah/raytracer/pkg/config"
	"github.com/kdsah/raytracer/pkg/telemetry"
	"github.com/kdsah/raytracer/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger utils.Logger
	cfg    *config.Config

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "kdtrace",
	Short: "Build and exercise a parallel SAH kd-tree",
	Long: `kdtrace is a small CLI around this module's spatial acceleration
structure: a parallel, Surface-Area-Heuristic kd-tree builder and
traverser over geometric primitives.

It builds a synthetic scene, prints build diagnostics, and fires sample
rays against the resulting tree.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		shutdown, err := telemetry.Init(context.Background())
		if err != nil {
			logger.Warn("telemetry initialization failed: %v", err)
			shutdown = func(context.Context) error { return nil }
		}
		telemetryShutdown = shutdown

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			return telemetryShutdown(context.Background())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (optional; defaults are used otherwise)")

	binName := BinName()
	rootCmd.Example = `  # Build a synthetic scene of 5000 random spheres and triangles and fire 8 sample rays
  ` + binName + ` build -n 5000 -r 8

  # Build with a fixed worker count and random seed
  ` + binName + ` build -n 20000 -w 4 --seed 7`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
