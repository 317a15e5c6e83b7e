// =============================================================================
// EDIFACT ORDERS Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which loads and validates order
// documents without generating or writing anything.
//
// COMMAND USAGE:
//   edifact-orders validate [--file path]
//
// OUTPUT:
//   One line per document: "ok" or the first validation error.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/edifact-orders/internal/converter"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/ginjaninja78/edifact-orders/pkg/utils"
	"github.com/spf13/cobra"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate order documents without generating messages",
	Long: `The validate command loads each order document and runs the same checks
as generate: required fields, items, dates, codes and numeric values.
Nothing is written or archived.`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFile, "file", "", "Validate a single order document")
}

func runValidate() error {
	mainConfig, logger, err := loadConfig()
	if err != nil {
		return err
	}

	files := utils.NewFileManager(mainConfig.InputDir, mainConfig.OutputDir, mainConfig.InputArchiveDir, mainConfig.OutputArchiveDir)

	var inputFiles []string
	if validateFile != "" {
		inputFiles = []string{validateFile}
	} else {
		inputFiles, err = files.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	failed := 0
	for _, file := range inputFiles {
		result := converter.New(file, mainConfig, logger).Check()
		name := filepath.Base(file)
		if result.Success {
			fmt.Fprintf(os.Stdout, "%s: ok (%d items, %d skipped)\n",
				name, result.Stats.Items, result.Stats.SkippedItems+result.Stats.SkippedParties)
			continue
		}
		failed++
		fmt.Fprintf(os.Stdout, "%s: %s: %v\n", name, types.ErrorKind(result.Error), result.Error)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) invalid", failed, len(inputFiles))
	}
	return nil
}
