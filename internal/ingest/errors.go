package ingest

// errors.go defines the typed failure taxonomy for CSV ingestion.
//
// Every failure a caller can see is either one of the batch-level sentinels,
// a structured batch error (MissingColumnsError, MalformedTableError), or a
// RowError wrapping a field-level cause with its 1-indexed CSV row number.
// Callers branch with errors.Is/errors.As rather than matching message text.

import (
	"errors"
	"fmt"
	"strings"
)

// Batch-level sentinel errors.
var (
	// ErrEmptyInput indicates the raw CSV text was empty or all whitespace.
	ErrEmptyInput = errors.New("csv input is empty")

	// ErrEmptyBatch indicates a valid header with zero data rows.
	ErrEmptyBatch = errors.New("csv contains no transaction rows")
)

// MalformedTableError indicates the CSV decoder itself failed, e.g. on
// unbalanced quotes or a missing header row.
type MalformedTableError struct {
	Err error
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed csv: %v", e.Err)
}

func (e *MalformedTableError) Unwrap() error { return e.Err }

// MissingColumnsError lists every required header column absent from the
// file, not just the first one found.
type MissingColumnsError struct {
	Columns []string // sorted
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("csv is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// RowError wraps a field-level validation failure with the CSV row it
// occurred on. Rows are 1-indexed; the first data row is row 2.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// EmptyFieldError indicates a required field was empty after trimming.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("field %q is empty", e.Field)
}

// AmountError indicates the Amount field was not a parseable decimal.
type AmountError struct {
	Raw string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount %q", e.Raw)
}

// DateReason identifies which MM/DD/YYYY rule a date value broke.
type DateReason string

const (
	DateEmpty           DateReason = "empty"
	DateWrongParts      DateReason = "wrong-component-count"
	DateNonNumeric      DateReason = "non-numeric-component"
	DateMonthOutOfRange DateReason = "month-out-of-range"
	DateDayOutOfRange   DateReason = "day-out-of-range"
	DateYearOutOfRange  DateReason = "year-out-of-range"
)

// DateError indicates a date field failed MM/DD/YYYY validation.
type DateError struct {
	Field  string
	Raw    string
	Reason DateReason
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q for %s: %s", e.Raw, e.Field, e.Reason)
}
