package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/edifact-orders/internal/totals"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	cfg, err := LoadMainConfig(writeConfig(t, "input_dir: ./orders\n"))
	require.NoError(t, err)

	assert.Equal(t, "./orders", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "{ref}_{timestamp}_{uuid}.edi", cfg.OutputNameFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.ShouldContinueOnError())
	assert.True(t, cfg.ShouldArchive())
	assert.Equal(t, DefaultCSVSettings(), cfg.CSVSettings)
	assert.Equal(t, DefaultEdifactConfig(), cfg.Edifact)
	assert.True(t, cfg.Edifact.AllowNegativeAmounts)
}

func TestLoadMainConfig_EdifactOverrides(t *testing.T) {
	cfg, err := LoadMainConfig(writeConfig(t, `
continue_on_error: false
archive: false
edifact:
  release: 01B
  date_format: "203"
  decimal_mark: ","
  decimal_scale: 3
  rounding_mode: half_even
  allow_negative_amounts: false
csv_settings:
  delimiter: ";"
`))
	require.NoError(t, err)

	assert.False(t, cfg.ShouldContinueOnError())
	assert.False(t, cfg.ShouldArchive())

	// Keys not mentioned keep their defaults.
	assert.Equal(t, "ORDERS", cfg.Edifact.MessageType)
	assert.Equal(t, "'", cfg.Edifact.SegmentTerminator)
	assert.Equal(t, "\n", cfg.Edifact.LineBreak)

	assert.Equal(t, "01B", cfg.Edifact.Release)
	assert.Equal(t, "203", cfg.Edifact.DateFormat)
	assert.Equal(t, ",", cfg.Edifact.DecimalMark)
	assert.Equal(t, int32(3), cfg.Edifact.DecimalScale)
	assert.False(t, cfg.Edifact.AllowNegativeAmounts)
	assert.Equal(t, totals.Rounding{Scale: 3, Mode: totals.RoundHalfEven}, cfg.Edifact.Rounding())

	assert.Equal(t, ";", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 2, cfg.CSVSettings.DataStartRow)
}

func TestLoadMainConfig_EmptyLineBreakKept(t *testing.T) {
	cfg, err := LoadMainConfig(writeConfig(t, "edifact:\n  line_break: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Edifact.LineBreak)
}

func TestLoadMainConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("EDI_LOG_LEVEL", "debug")
	t.Setenv("EDI_OUTPUT_DIR", "/tmp/edi-out")
	t.Setenv("EDI_MAX_CONCURRENCY", "9")
	t.Setenv("ORDERS_ROOT", "/data/orders")

	cfg, err := LoadMainConfig(writeConfig(t, "input_dir: ${ORDERS_ROOT}/in\nlog_level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/orders/in", cfg.InputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/edi-out", cfg.OutputDir)
	assert.Equal(t, 9, cfg.MaxConcurrency)
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "log_level: loud\n"},
		{"log format", "log_format: xml\n"},
		{"separator collision", "edifact:\n  component_separator: \"+\"\n"},
		{"rounding mode", "edifact:\n  rounding_mode: ceiling\n"},
		{"not yaml", "input_dir: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMainConfig_MissingFile(t *testing.T) {
	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, DefaultEdifactConfig(), cfg.Edifact)

	cfg, err = LoadOrDefault(writeConfig(t, "output_dir: ./edi\n"))
	require.NoError(t, err)
	assert.Equal(t, "./edi", cfg.OutputDir)
}

func TestEdifactConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(c *EdifactConfig)
		setting string // empty when valid
	}{
		{"default", func(c *EdifactConfig) {}, ""},
		{"multi-character terminator", func(c *EdifactConfig) { c.SegmentTerminator = "'\n" }, "segment_terminator"},
		{"empty release", func(c *EdifactConfig) { c.ReleaseCharacter = "" }, "release_character"},
		{"element equals terminator", func(c *EdifactConfig) { c.ElementSeparator = "'" }, "element_separator"},
		{"decimal mark", func(c *EdifactConfig) { c.DecimalMark = ";" }, "decimal_mark"},
		{"decimal comma", func(c *EdifactConfig) { c.DecimalMark = "," }, ""},
		{"empty message type", func(c *EdifactConfig) { c.MessageType = "" }, "message_type"},
		{"negative scale", func(c *EdifactConfig) { c.DecimalScale = -1 }, "decimal_scale"},
		{"rounding", func(c *EdifactConfig) { c.RoundingMode = "up" }, "rounding_mode"},
		{"lenient unknown date format", func(c *EdifactConfig) { c.DateFormat = "718" }, ""},
		{"strict unknown date format", func(c *EdifactConfig) { c.DateFormat = "718"; c.StrictDateFormat = true }, "date_format"},
		{"repetition not in use", func(c *EdifactConfig) { c.RepetitionSeparator = " " }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultEdifactConfig()
			tt.edit(&c)

			err := c.Validate()
			if tt.setting == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *types.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.setting, cfgErr.Setting)
			assert.ErrorIs(t, err, types.ErrInvalidConfig)
		})
	}
}

func TestEdifactConfig_ServiceStringAdvice(t *testing.T) {
	c := DefaultEdifactConfig()
	assert.Equal(t, "UNA:+.? '", c.ServiceStringAdvice())

	c.DecimalMark = ","
	assert.Equal(t, "UNA:+,? '", c.ServiceStringAdvice())
}
