// =============================================================================
// EDIFACT ORDERS Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the tool.
//
// COMMAND USAGE:
//   edifact-orders generate [flags]
//
// FLAGS:
//   --file     : Convert a single document instead of scanning input_dir
//   --dry-run  : Generate and validate without writing or archiving
//   --stdout   : Print messages instead of writing .edi files
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover order documents in the input directory
//   3. Convert each document (concurrently, at most max_concurrency at once)
//   4. Collect results, write the error log and the processing summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/converter"
	"github.com/ginjaninja78/edifact-orders/internal/ediwriter"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/ginjaninja78/edifact-orders/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	filePath string
	dryRun   bool
	toStdout bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate ORDERS messages from order documents",
	Long: `The generate command converts order documents into EDIFACT ORDERS messages.

Without --file it scans input_dir for *.yaml, *.yml, *.json and *.xlsx files
and converts them concurrently. Each document is processed independently.

On success:
  - The message is written to output_dir, named by output_name_format
  - The document is moved to input_archive_dir (when archive is enabled)

On error:
  - The document stays in input_dir
  - An error log is created in output_dir
  - Remaining documents are processed unless continue_on_error is false`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&filePath, "file", "", "Convert a single order document")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate without writing output or archiving")
	generateCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print messages to stdout instead of writing files")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runGenerate() error {
	startTime := time.Now()

	mainConfig, logger, err := loadConfig()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	files := utils.NewFileManager(
		mainConfig.InputDir,
		mainConfig.OutputDir,
		mainConfig.InputArchiveDir,
		mainConfig.OutputArchiveDir,
	)

	inputFiles, err := inputDocuments(files)
	if err != nil {
		return err
	}
	if len(inputFiles) == 0 {
		logger.Info("no order documents found", "input_dir", mainConfig.InputDir)
		return nil
	}

	if !dryRun && !toStdout {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	logger.Info("processing order documents", "count", len(inputFiles), "concurrency", mainConfig.MaxConcurrency)

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	var stdout converter.Sink
	if toStdout {
		stdout = &lockedSink{sink: utils.WriterSink{W: os.Stdout}}
	}

	results := convertAll(inputFiles, mainConfig, logger, stdout)

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	summary := utils.ProcessingSummary{StartTime: startTime, TotalFiles: len(inputFiles)}
	var errorEntries []utils.ErrorLogEntry

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		summary.SkippedEntities += result.Stats.SkippedParties + result.Stats.SkippedItems

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalMessages++
			summary.TotalSegments += result.Stats.Segments
			summary.TotalItems += result.Stats.Items
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.FilePath,
				OutputFile:  result.OutputFile,
				MessageRef:  result.Message.MessageRef,
				Segments:    result.Stats.Segments,
				Items:       result.Stats.Items,
				ProcessTime: result.Stats.ProcessingTime,
			})
			if !toStdout {
				fmt.Fprintf(os.Stderr, "  ✓ %s -> %s\n", name, displayOutput(result))
			}
			continue
		}

		if result.Error == nil {
			// Skipped after an earlier failure with continue_on_error off.
			continue
		}
		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
			ErrorType:    types.ErrorKind(result.Error),
		})
		errorEntries = append(errorEntries, utils.NewErrorLogEntry(name, result.Error))
		fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", name, result.Error)
	}
	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 4: REPORTS
	// =========================================================================

	if !dryRun && !toStdout {
		if path, err := utils.WriteErrorLog(errorEntries, mainConfig.OutputDir); err != nil {
			logger.Warn("failed to write error log", "error", err)
		} else if path != "" {
			logger.Info("error log written", "path", path)
		}
		if path, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir); err != nil {
			logger.Warn("failed to write summary", "error", err)
		} else {
			logger.Info("summary written", "path", path)
		}
	}

	logger.Info("processing complete",
		"total", summary.TotalFiles,
		"successful", summary.SuccessfulFiles,
		"failed", summary.FailedFiles,
		"elapsed", summary.EndTime.Sub(startTime).String(),
	)

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d document(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// convertAll runs one Converter per document with at most MaxConcurrency in
// flight. Results keep the order of inputFiles. When continue_on_error is
// off, documents not yet started after a failure are left untouched.
func convertAll(inputFiles []string, mainConfig *config.MainConfig, logger *slog.Logger, sink converter.Sink) []converter.Result {
	results := make([]converter.Result, len(inputFiles))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed bool
	)
	slots := make(chan struct{}, mainConfig.MaxConcurrency)

	for i, file := range inputFiles {
		slots <- struct{}{}

		mu.Lock()
		stop := failed && !mainConfig.ShouldContinueOnError()
		mu.Unlock()
		if stop {
			<-slots
			results[i] = converter.Result{FilePath: file}
			continue
		}

		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer func() { <-slots }()

			conv := converter.New(file, mainConfig, logger).SetDryRun(dryRun)
			if sink != nil {
				conv.SetSink(sink)
			}
			results[i] = conv.Run()

			if !results[i].Success {
				mu.Lock()
				failed = true
				mu.Unlock()
			}
		}(i, file)
	}

	wg.Wait()
	return results
}

func inputDocuments(files *utils.FileManager) ([]string, error) {
	if filePath != "" {
		if !utils.FileExists(filePath) {
			return nil, fmt.Errorf("file not found: %s", filePath)
		}
		return []string{filePath}, nil
	}

	inputFiles, err := files.DiscoverInputFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}
	return inputFiles, nil
}

func displayOutput(result converter.Result) string {
	if result.OutputFile == "" {
		return fmt.Sprintf("%s (dry run, %d segments)", result.Message.MessageRef, result.Stats.Segments)
	}
	return result.OutputFile
}

// lockedSink serializes writes from concurrent converters.
type lockedSink struct {
	mu   sync.Mutex
	sink converter.Sink
}

func (s *lockedSink) WriteMessage(msg *ediwriter.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.WriteMessage(msg)
}
