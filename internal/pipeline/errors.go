package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Terminal validation failures. Each one aborts the current run immediately;
// none are retried. Every error carries the offending raw or computed values
// so a failure can be diagnosed without re-running the deed.

// ExtractionFormatError reports extractor output that is not valid
// structured data of the expected shape.
type ExtractionFormatError struct {
	Raw string // raw model output that failed to decode
	Err error
}

func (e *ExtractionFormatError) Error() string {
	return fmt.Sprintf("extraction output is not a valid deed record: %v", e.Err)
}

func (e *ExtractionFormatError) Unwrap() error { return e.Err }

// NoMatchError reports a county name whose best registry match scored below
// the acceptance threshold.
type NoMatchError struct {
	Input     string
	Best      string // best-scoring candidate, for diagnostics
	BestScore int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("unknown county %q: best candidate %q scored %d, need %d",
		e.Input, e.Best, e.BestScore, matchThreshold)
}

// MalformedAmountError reports a numeric amount field with no parseable
// digits.
type MalformedAmountError struct {
	Raw string
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("amount %q contains no parseable number", e.Raw)
}

// MoneyMismatchError reports disagreement between the numeric amount and the
// written amount beyond the one-unit tolerance.
type MoneyMismatchError struct {
	Numeric decimal.Decimal
	Text    decimal.Decimal
}

func (e *MoneyMismatchError) Error() string {
	return fmt.Sprintf("money mismatch: numeric=%s vs text=%s", e.Numeric, e.Text)
}

// DateParseError reports a date field that could not be parsed.
type DateParseError struct {
	Field string // "date_signed" or "date_recorded"
	Raw   string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Raw, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// DateOrderError reports a deed recorded before it was signed.
type DateOrderError struct {
	Signed   time.Time
	Recorded time.Time
}

func (e *DateOrderError) Error() string {
	return fmt.Sprintf("invalid date order: recorded %s before signed %s",
		e.Recorded.Format("2006-01-02"), e.Signed.Format("2006-01-02"))
}
