package main

import (
	"errors"

	"github.com/sells-group/deed-cli/internal/pipeline"
)

// Exit codes map 1:1 to the validation failure taxonomy so callers can
// dispatch on a failure without parsing output.
const (
	exitGeneric          = 1
	exitExtractionFormat = 2
	exitNoMatch          = 3
	exitMalformedAmount  = 4
	exitMoneyMismatch    = 5
	exitDateParse        = 6
	exitDateOrder        = 7
)

func exitCode(err error) int {
	var (
		extraction *pipeline.ExtractionFormatError
		noMatch    *pipeline.NoMatchError
		malformed  *pipeline.MalformedAmountError
		mismatch   *pipeline.MoneyMismatchError
		dateParse  *pipeline.DateParseError
		dateOrder  *pipeline.DateOrderError
	)
	switch {
	case errors.As(err, &extraction):
		return exitExtractionFormat
	case errors.As(err, &noMatch):
		return exitNoMatch
	case errors.As(err, &malformed):
		return exitMalformedAmount
	case errors.As(err, &mismatch):
		return exitMoneyMismatch
	case errors.As(err, &dateParse):
		return exitDateParse
	case errors.As(err, &dateOrder):
		return exitDateOrder
	default:
		return exitGeneric
	}
}
