// =============================================================================
// EDIFACT ORDERS Generator - Converter Module
// =============================================================================
//
// This module runs the batch pipeline for a single order document, from
// loading the file to writing and archiving the generated message.
//
// CONVERSION PIPELINE:
//   1. Load the order document (YAML, JSON or XLSX; CSV item files are
//      pulled in by the document loader)
//   2. Choose the output file name
//   3. Validate, build and serialize the message (Generate)
//   4. Write the message through the sink
//   5. Archive the processed files
//
// CONCURRENCY:
//   Each document is processed by its own Converter. A Converter holds no
//   shared mutable state, so the batch command runs several at once.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/ediwriter"
	"github.com/ginjaninja78/edifact-orders/internal/logging"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/ginjaninja78/edifact-orders/internal/validation"
	"github.com/ginjaninja78/edifact-orders/internal/xlsxparser"
	"github.com/ginjaninja78/edifact-orders/internal/yamlparser"
	"github.com/ginjaninja78/edifact-orders/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single document.
type Result struct {
	// FilePath is the path to the order document that was processed.
	FilePath string

	// OutputFile is the path to the generated .edi file. It is empty for dry
	// runs, custom sinks and failures before the write.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed. Typed generation
	// errors stay reachable through errors.Is and errors.As.
	Error error

	// Message is the generated message. It is also set when only the write
	// failed.
	Message *ediwriter.Message

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Items is the number of item lines in the message.
	Items int

	// Segments is the count declared in UNT.
	Segments int

	// SkippedParties and SkippedItems count entities left out for missing
	// fields.
	SkippedParties int
	SkippedItems   int

	// ProcessingTime is the time taken to process the document.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single order document.
type Converter struct {
	inputPath  string
	mainConfig *config.MainConfig
	files      *utils.FileManager
	logger     *slog.Logger

	// sink replaces the default FileSink, e.g. for --stdout.
	sink Sink

	// dryRun generates without writing or archiving anything.
	dryRun bool
}

// New creates a Converter for the document at inputPath. A nil logger
// discards log output.
func New(inputPath string, mainConfig *config.MainConfig, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	files := utils.NewFileManager(
		mainConfig.InputDir,
		mainConfig.OutputDir,
		mainConfig.InputArchiveDir,
		mainConfig.OutputArchiveDir,
	)
	files.ArchiveOnSuccess = mainConfig.ShouldArchive()

	return &Converter{
		inputPath:  inputPath,
		mainConfig: mainConfig,
		files:      files,
		logger:     logger.With("file", filepath.Base(inputPath)),
	}
}

// SetDryRun makes Run generate without writing or archiving.
func (c *Converter) SetDryRun(dryRun bool) *Converter {
	c.dryRun = dryRun
	return c
}

// SetSink sends the message to sink instead of a file in the output
// directory. Nothing is archived when a custom sink is set.
func (c *Converter) SetSink(sink Sink) *Converter {
	c.sink = sink
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the document.
func (c *Converter) Run() (result Result) {
	startTime := time.Now()
	result = Result{FilePath: c.inputPath}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	c.logger.Info("processing order document")

	// =========================================================================
	// STEP 1: LOAD DOCUMENT
	// =========================================================================

	raw, err := LoadDocument(c.inputPath, c.mainConfig.CSVSettings)
	if err != nil {
		result.Error = fmt.Errorf("failed to load document: %w", err)
		return result
	}

	// =========================================================================
	// STEP 2: OUTPUT TARGET
	// =========================================================================

	opts := []Option{WithHook(chainHooks(logging.NewHook(c.logger), c.statsHook(&result.Stats)))}

	switch {
	case c.dryRun:
	case c.sink != nil:
		opts = append(opts, WithSink(c.sink))
	default:
		if err := os.MkdirAll(c.mainConfig.OutputDir, 0755); err != nil {
			result.Error = &types.IOError{Path: c.mainConfig.OutputDir, Err: err}
			return result
		}
		name := utils.GenerateOutputFileName(c.mainConfig.OutputNameFormat, map[string]string{
			"ref":      strings.TrimSpace(raw.MessageRef),
			"order":    strings.TrimSpace(raw.OrderNumber),
			"original": utils.BaseName(c.inputPath),
		})
		result.OutputFile = filepath.Join(c.mainConfig.OutputDir, name)
		opts = append(opts, WithSink(utils.FileSink{Path: result.OutputFile}))
	}

	// =========================================================================
	// STEP 3: GENERATE AND WRITE
	// =========================================================================

	msg, err := Generate(raw, c.mainConfig.Edifact, opts...)
	result.Message = msg
	if msg != nil {
		result.Stats.Segments = msg.SegmentCount
	}
	if err != nil {
		var ioErr *types.IOError
		if errors.As(err, &ioErr) && result.OutputFile != "" {
			// A partially written file must not be picked up downstream.
			os.Remove(result.OutputFile)
		}
		result.OutputFile = ""
		result.Error = err
		return result
	}

	c.logger.Info("message generated",
		"message_ref", msg.MessageRef,
		"segments", msg.SegmentCount,
		"total", msg.Totals.GrandTotal.String(),
		"output", result.OutputFile,
	)

	// =========================================================================
	// STEP 4: ARCHIVE
	// =========================================================================

	if result.OutputFile != "" {
		c.archive(result.OutputFile)
	}

	result.Success = true
	return result
}

// Check loads and validates the document without generating a message.
func (c *Converter) Check() (result Result) {
	startTime := time.Now()
	result = Result{FilePath: c.inputPath}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	raw, err := LoadDocument(c.inputPath, c.mainConfig.CSVSettings)
	if err != nil {
		result.Error = fmt.Errorf("failed to load document: %w", err)
		return result
	}

	if err := c.mainConfig.Edifact.Validate(); err != nil {
		result.Error = err
		return result
	}

	hook := chainHooks(logging.NewHook(c.logger), c.statsHook(&result.Stats))
	if _, err := validation.NewValidator(c.mainConfig.Edifact, hook).Validate(raw); err != nil {
		result.Error = err
		return result
	}

	result.Success = true
	return result
}

// archive moves the input and copies the output. Failures are logged and do
// not fail the document; the message has already been written.
func (c *Converter) archive(outputFile string) {
	if !c.files.ArchiveOnSuccess {
		return
	}
	if path, err := c.files.ArchiveInputFile(c.inputPath); err != nil {
		c.logger.Warn("failed to archive input", "error", err)
	} else {
		c.logger.Debug("archived input", "path", path)
	}
	if path, err := c.files.ArchiveOutputFile(outputFile); err != nil {
		c.logger.Warn("failed to archive output", "error", err)
	} else {
		c.logger.Debug("archived output", "path", path)
	}
}

func (c *Converter) statsHook(stats *ProcessingStats) Hook {
	return func(e Event) {
		switch e.Kind {
		case types.EventPartySkipped:
			stats.SkippedParties++
		case types.EventItemSkipped:
			stats.SkippedItems++
		case types.EventValidated:
			stats.Items = e.Count
		}
	}
}

func chainHooks(hooks ...Hook) Hook {
	return func(e Event) {
		for _, h := range hooks {
			h.Emit(e)
		}
	}
}

// =============================================================================
// DOCUMENT LOADING
// =============================================================================

// LoadDocument reads an order document, choosing the parser by extension.
func LoadDocument(path string, csvSettings config.CSVSettings) (*types.RawOrder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return yamlparser.New(csvSettings).ParseFile(path)
	case ".xlsx":
		return xlsxparser.Parse(path)
	default:
		return nil, fmt.Errorf("unsupported document type %q", filepath.Ext(path))
	}
}
