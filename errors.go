package bank2ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingHintTable = errors.New("hint columns configured without a mapping table")
	ErrNoSecondHint     = errors.New("at least one second account hint column is required")
	ErrNoCurrency       = errors.New("default_currency is required when no currency column is configured")
	ErrUnknownOperation = errors.New(`operation must be "contains" or "equal"`)
	ErrEmptyExcludeRule = errors.New("exclude condition needs either column or record_len")
	ErrDateNotFound     = errors.New("date pattern did not match")
	ErrMissingAccount   = errors.New("default account is required")
	ErrNegativeColumn   = errors.New("column index must not be negative")
)

// ConfigError reports a configuration that cannot drive a conversion. It is
// always returned before any row is read.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ColumnIndexError reports a configured column that the row does not have.
type ColumnIndexError struct {
	Column int
	Width  int
	Field  string
}

func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf("%s column %d out of range for row with %d fields", e.Field, e.Column, e.Width)
}

// DateParseError reports a date field that the configured pattern or format
// rejected.
type DateParseError struct {
	Value  string
	Regex  string
	Format string
	Err    error
}

func (e *DateParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unable to parse date(%s)", e.Value)
	if e.Regex != "" {
		fmt.Fprintf(&b, " with regex %q", e.Regex)
	}
	if e.Format != "" {
		fmt.Fprintf(&b, " and format %q", e.Format)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *DateParseError) Unwrap() error { return e.Err }

// AmountParseError reports a normalized amount that is not a number.
type AmountParseError struct {
	Value string
	Err   error
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("unable to parse amount(%s): %v", e.Value, e.Err)
}

func (e *AmountParseError) Unwrap() error { return e.Err }

// RowError wraps a row-level failure with the row it happened on.
type RowError struct {
	Line int
	Row  Row
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v: %q", e.Line, e.Err, []string(e.Row))
}

func (e *RowError) Unwrap() error { return e.Err }
