package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&MissingFieldError{Field: "order_number"}, "missing_field"},
		{&EmptyItemsError{Excluded: 2}, "empty_items"},
		{&InvalidDateError{Field: "order_date"}, "invalid_date"},
		{fmt.Errorf("wrapped: %w", &InvalidNumericFieldError{Field: "price"}), "invalid_numeric_field"},
		{&InvalidCodeError{Field: "currency"}, "invalid_code"},
		{&ConfigError{Setting: "decimal_mark"}, "config_error"},
		{&IOError{Err: errors.New("disk full")}, "io_error"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "item 2: invalid quantity \"1.5\": must be a whole number",
		(&InvalidNumericFieldError{Index: 2, Field: "quantity", Value: "1.5", Reason: "must be a whole number"}).Error())
	assert.Equal(t, "invalid tax_rate \"abc\"",
		(&InvalidNumericFieldError{Field: "tax_rate", Value: "abc"}).Error())
	assert.Contains(t, (&EmptyItemsError{Excluded: 3}).Error(), "all 3 supplied items")
	assert.Equal(t, "write message to /out/a.edi: disk full",
		(&IOError{Path: "/out/a.edi", Err: errors.New("disk full")}).Error())
}

func TestIOErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("generate: %w", &IOError{Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestNumeric(t *testing.T) {
	assert.True(t, Numeric("").IsZero())
	assert.True(t, Numeric("  ").IsZero())
	assert.False(t, Numeric("0").IsZero())
	assert.Equal(t, "25.50", Numeric("25.50").String())
}
