// =============================================================================
// EDIFACT ORDERS Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing configuration. It holds
// two layers:
//   1. MainConfig (config.yaml): directories, logging, naming, concurrency
//   2. EdifactConfig (the "edifact" block): the syntax dialect used for one
//      generation call (delimiters, message identifier, rounding)
//
// The EDIFACT layer defaults to the ORDERS D.96A / UN dialect and is passed
// by value into the generator, so it cannot change during a generation call.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for order documents.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where generated .edi files are placed.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives order documents after successful generation.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every generated message.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the slog handler: "text", "json" or "console".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat defines the format for output file names.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {ref}       - Message reference of the order
	//   {order}     - Order number
	//   {original}  - Input file name without extension
	// Default: "{ref}_{timestamp}_{uuid}.edi"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of documents converted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps the batch going after a failed document.
	// Default: true (applied when the key is absent)
	ContinueOnError *bool `yaml:"continue_on_error"`

	// Archive moves processed inputs to InputArchiveDir and copies outputs to
	// OutputArchiveDir.
	// Default: true (applied when the key is absent)
	Archive *bool `yaml:"archive"`

	// CSVSettings controls how items_file CSV files are read.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Edifact is the generation dialect.
	Edifact EdifactConfig `yaml:"edifact"`
}

// CSVSettings contains settings for parsing item CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows. Multi-row headers are merged
	// column by column with a space.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-based row number where item lines begin.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// DefaultCSVSettings returns comma-separated files with one header row.
func DefaultCSVSettings() CSVSettings {
	return CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2}
}

// ShouldContinueOnError reports the effective continue_on_error setting.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// ShouldArchive reports the effective archive setting.
func (c *MainConfig) ShouldArchive() bool {
	return c.Archive == nil || *c.Archive
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// Environment variables in the file body (${VAR}) are expanded before
// parsing. EDI_LOG_LEVEL, EDI_OUTPUT_DIR and EDI_MAX_CONCURRENCY override the
// file values.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	config := MainConfig{Edifact: DefaultEdifactConfig()}
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&config)
	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads configPath when it exists and falls back to defaults
// (plus environment overrides) when it does not.
func LoadOrDefault(configPath string) (*MainConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := MainConfig{Edifact: DefaultEdifactConfig()}
		applyEnvOverrides(&config)
		applyMainConfigDefaults(&config)
		if err := validateMainConfig(&config); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return &config, nil
	}
	return LoadMainConfig(configPath)
}

func applyEnvOverrides(config *MainConfig) {
	if v := os.Getenv("EDI_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("EDI_OUTPUT_DIR"); v != "" {
		config.OutputDir = v
	}
	if v := os.Getenv("EDI_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxConcurrency = n
		}
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{ref}_{timestamp}_{uuid}.edi"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.HeaderRows <= 0 {
		config.CSVSettings.HeaderRows = 1
	}
	if config.CSVSettings.DataStartRow <= config.CSVSettings.HeaderRows {
		config.CSVSettings.DataStartRow = config.CSVSettings.HeaderRows + 1
	}
	config.Edifact.applyDefaults()
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}
	switch config.LogFormat {
	case "text", "json", "console":
	default:
		return fmt.Errorf("unknown log_format %q", config.LogFormat)
	}
	if err := config.Edifact.Validate(); err != nil {
		return fmt.Errorf("edifact: %w", err)
	}
	return nil
}
