package types

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. Each concrete error type below reports
// itself as its sentinel.
var (
	ErrMissingField        = errors.New("missing required field")
	ErrEmptyItems          = errors.New("order contains no items")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidNumericField = errors.New("invalid numeric field")
	ErrInvalidCode         = errors.New("invalid code")
	ErrInvalidConfig       = errors.New("invalid generation config")
	ErrIO                  = errors.New("i/o failure")
)

// MissingFieldError reports a required top-level field that is absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// EmptyItemsError reports an absent or empty items collection. Excluded is
// non-zero when items were supplied but every one of them was left out for
// missing fields.
type EmptyItemsError struct {
	Excluded int
}

func (e *EmptyItemsError) Error() string {
	if e.Excluded > 0 {
		return fmt.Sprintf("order must contain at least one item (all %d supplied items were incomplete)", e.Excluded)
	}
	return "order must contain at least one item"
}

func (e *EmptyItemsError) Is(target error) bool { return target == ErrEmptyItems }

// InvalidDateError reports a date that fails the configured date-format code.
type InvalidDateError struct {
	Field  string
	Value  string
	Format string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s %q for date format %s", e.Field, e.Value, e.Format)
}

func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

// InvalidNumericFieldError reports a quantity, price or tax rate that cannot
// be parsed. Index is the 1-based item position, or 0 for header fields.
type InvalidNumericFieldError struct {
	Index  int
	Field  string
	Value  string
	Reason string
}

func (e *InvalidNumericFieldError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Index > 0 {
		msg = fmt.Sprintf("item %d: %s", e.Index, msg)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidNumericFieldError) Is(target error) bool { return target == ErrInvalidNumericField }

// InvalidCodeError reports a coded header value outside its code list.
type InvalidCodeError struct {
	Field string
	Value string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid %s code %q", e.Field, e.Value)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// ConfigError reports an unusable generation configuration.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Setting, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// IOError wraps a failure to persist a generated message.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write message: %v", e.Err)
	}
	return fmt.Sprintf("write message to %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// ErrorKind returns a short stable name for the kind of err, for logs and
// reports.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrEmptyItems):
		return "empty_items"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidNumericField):
		return "invalid_numeric_field"
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrInvalidConfig):
		return "config_error"
	case errors.Is(err, ErrIO):
		return "io_error"
	default:
		return "error"
	}
}
