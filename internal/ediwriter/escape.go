package ediwriter

import (
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/edifact-orders/internal/config"
)

// Escaper prefixes service characters in user data with the release
// character. Only the release character, the segment terminator, the element
// and component separators and the repetition separator are touched.
type Escaper struct {
	release string
	special string
}

// NewEscaper builds an Escaper for cfg's service characters. A repetition
// separator of " " means "not in use" and is left alone.
func NewEscaper(cfg config.EdifactConfig) Escaper {
	special := cfg.ReleaseCharacter + cfg.SegmentTerminator + cfg.ElementSeparator + cfg.ComponentSeparator
	if cfg.RepetitionSeparator != " " {
		special += cfg.RepetitionSeparator
	}
	return Escaper{release: cfg.ReleaseCharacter, special: special}
}

// Escape returns s with every service character released.
func (e Escaper) Escape(s string) string {
	if !strings.ContainsAny(s, e.special) {
		return s
	}

	// Bytes are copied as they are; invalid UTF-8 passes through unchanged.
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != utf8.RuneError && strings.ContainsRune(e.special, r) {
			b.WriteString(e.release)
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
