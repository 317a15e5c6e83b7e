package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/ginjaninja78/edifact-orders/internal/totals"
	"github.com/ginjaninja78/edifact-orders/internal/types"
)

// =============================================================================
// EDIFACT DIALECT
// =============================================================================

// DateFormats maps the supported EDIFACT date/time format codes (DE 2379) to
// Go reference layouts. Codes outside this table cannot be checked.
var DateFormats = map[string]string{
	"102": "20060102",     // CCYYMMDD
	"203": "200601021504", // CCYYMMDDHHMM
}

// EdifactConfig holds the generation parameters for one ORDERS message.
// It is passed by value; a generation call never sees it change.
type EdifactConfig struct {
	// Message identifier written into UNH (S009).
	MessageType       string `yaml:"message_type"`
	Version           string `yaml:"version"`
	Release           string `yaml:"release"`
	ControllingAgency string `yaml:"controlling_agency"`

	// DateFormat is the DE 2379 code written into every DTM segment and used
	// to validate the order's dates.
	DateFormat string `yaml:"date_format"`

	// Service characters. Each must be exactly one character.
	ComponentSeparator  string `yaml:"component_separator"`
	ElementSeparator    string `yaml:"element_separator"`
	DecimalMark         string `yaml:"decimal_mark"`
	ReleaseCharacter    string `yaml:"release_character"`
	RepetitionSeparator string `yaml:"repetition_separator"`
	SegmentTerminator   string `yaml:"segment_terminator"`

	// LineBreak follows every segment terminator in the joined text. It is
	// cosmetic and may be empty.
	LineBreak string `yaml:"line_break"`

	// DecimalScale is the number of fractional digits of emitted amounts.
	DecimalScale int32 `yaml:"decimal_scale"`

	// RoundingMode is one of "half_up", "half_even" or "down".
	RoundingMode string `yaml:"rounding_mode"`

	// StrictDateFormat makes a DateFormat outside DateFormats a config error
	// instead of skipping date validation.
	StrictDateFormat bool `yaml:"strict_date_format"`

	// AllowNegativeAmounts lets negative quantities and prices through
	// validation. On by default; set it to false to reject credit lines.
	AllowNegativeAmounts bool `yaml:"allow_negative_amounts"`
}

// DefaultEdifactConfig returns the ORDERS D.96A / UN dialect with the
// standard UNA service characters.
func DefaultEdifactConfig() EdifactConfig {
	return EdifactConfig{
		MessageType:          "ORDERS",
		Version:              "D",
		Release:              "96A",
		ControllingAgency:    "UN",
		DateFormat:           "102",
		ComponentSeparator:   ":",
		ElementSeparator:     "+",
		DecimalMark:          ".",
		ReleaseCharacter:     "?",
		RepetitionSeparator:  "*",
		SegmentTerminator:    "'",
		LineBreak:            "\n",
		DecimalScale:         2,
		RoundingMode:         string(totals.RoundHalfUp),
		AllowNegativeAmounts: true,
	}
}

// applyDefaults fills service strings that were explicitly blanked.
func (c *EdifactConfig) applyDefaults() {
	def := DefaultEdifactConfig()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&c.MessageType, def.MessageType)
	fill(&c.Version, def.Version)
	fill(&c.Release, def.Release)
	fill(&c.ControllingAgency, def.ControllingAgency)
	fill(&c.DateFormat, def.DateFormat)
	fill(&c.ComponentSeparator, def.ComponentSeparator)
	fill(&c.ElementSeparator, def.ElementSeparator)
	fill(&c.DecimalMark, def.DecimalMark)
	fill(&c.ReleaseCharacter, def.ReleaseCharacter)
	fill(&c.RepetitionSeparator, def.RepetitionSeparator)
	fill(&c.SegmentTerminator, def.SegmentTerminator)
	fill(&c.RoundingMode, def.RoundingMode)
}

// Validate checks that the dialect can produce a parseable message.
func (c EdifactConfig) Validate() error {
	single := map[string]string{
		"component_separator":  c.ComponentSeparator,
		"element_separator":    c.ElementSeparator,
		"decimal_mark":         c.DecimalMark,
		"release_character":    c.ReleaseCharacter,
		"repetition_separator": c.RepetitionSeparator,
		"segment_terminator":   c.SegmentTerminator,
	}
	for name, v := range single {
		if utf8.RuneCountInString(v) != 1 {
			return &types.ConfigError{Setting: name, Reason: fmt.Sprintf("must be exactly one character, got %q", v)}
		}
	}

	delimiters := []struct{ name, value string }{
		{"segment_terminator", c.SegmentTerminator},
		{"element_separator", c.ElementSeparator},
		{"component_separator", c.ComponentSeparator},
		{"release_character", c.ReleaseCharacter},
		{"repetition_separator", c.RepetitionSeparator},
	}
	seen := make(map[string]string, len(delimiters))
	for _, d := range delimiters {
		if other, dup := seen[d.value]; dup {
			return &types.ConfigError{Setting: d.name, Reason: fmt.Sprintf("collides with %s (%q)", other, d.value)}
		}
		seen[d.value] = d.name
	}

	if c.DecimalMark != "." && c.DecimalMark != "," {
		return &types.ConfigError{Setting: "decimal_mark", Reason: "must be \".\" or \",\""}
	}
	if _, clash := seen[c.DecimalMark]; clash {
		return &types.ConfigError{Setting: "decimal_mark", Reason: "collides with a delimiter"}
	}

	for name, v := range map[string]string{
		"message_type":       c.MessageType,
		"version":            c.Version,
		"release":            c.Release,
		"controlling_agency": c.ControllingAgency,
		"date_format":        c.DateFormat,
	} {
		if v == "" {
			return &types.ConfigError{Setting: name, Reason: "must not be empty"}
		}
	}

	if c.DecimalScale < 0 {
		return &types.ConfigError{Setting: "decimal_scale", Reason: "must not be negative"}
	}
	if !totals.RoundingMode(c.RoundingMode).Valid() {
		return &types.ConfigError{Setting: "rounding_mode", Reason: fmt.Sprintf("unknown mode %q", c.RoundingMode)}
	}
	if c.StrictDateFormat && !c.DateFormatSupported() {
		return &types.ConfigError{Setting: "date_format", Reason: fmt.Sprintf("unsupported code %q", c.DateFormat)}
	}

	return nil
}

// DateFormatSupported reports whether dates can be checked under DateFormat.
func (c EdifactConfig) DateFormatSupported() bool {
	_, ok := DateFormats[c.DateFormat]
	return ok
}

// Rounding returns the rounding rule applied to emitted amounts.
func (c EdifactConfig) Rounding() totals.Rounding {
	return totals.Rounding{Scale: c.DecimalScale, Mode: totals.RoundingMode(c.RoundingMode)}
}

// ServiceStringAdvice returns the UNA segment declaring this dialect's
// service characters. The fifth position is reserved and always a space.
func (c EdifactConfig) ServiceStringAdvice() string {
	return "UNA" + c.ComponentSeparator + c.ElementSeparator + c.DecimalMark +
		c.ReleaseCharacter + " " + c.SegmentTerminator
}
