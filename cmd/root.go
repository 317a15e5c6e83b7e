// =============================================================================
// EDIFACT ORDERS Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (edifact-orders)
//   ├── generateCmd (edifact-orders generate)
//   ├── validateCmd (edifact-orders validate)
//   └── versionCmd  (edifact-orders version)
//
// The root command owns the global flags and the shared setup: loading
// config.yaml and building the logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "edifact-orders",
	Short: "Generate UN/EDIFACT ORDERS D.96A messages from order documents",
	Long: `edifact-orders turns purchase-order documents (YAML, JSON or Excel, with
optional CSV item lists) into UN/EDIFACT ORDERS D.96A message text.

Key Features:
  - Strict validation with typed, per-field error reporting
  - Exact decimal arithmetic for line, tax and order totals
  - Configurable EDIFACT service characters and rounding
  - Concurrent batch processing with archival and summary reports

Example Usage:
  edifact-orders generate                       # Convert every document in input_dir
  edifact-orders generate --file order.yaml --stdout
  edifact-orders validate --file order.xlsx     # Check a document without generating`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file; defaults apply when it does not exist",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads config.yaml (or defaults) and builds the logger.
func loadConfig() (*config.MainConfig, *slog.Logger, error) {
	mainConfig, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	level := mainConfig.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.NewLogger(level, mainConfig.LogFormat)
	logger.Debug("configuration loaded",
		"config", cfgFile,
		"input_dir", mainConfig.InputDir,
		"output_dir", mainConfig.OutputDir,
		"dialect", mainConfig.Edifact.MessageType+":"+mainConfig.Edifact.Version+":"+mainConfig.Edifact.Release,
	)

	return mainConfig, logger, nil
}
