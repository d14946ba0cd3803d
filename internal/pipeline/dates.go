package pipeline

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ValidateDateOrder parses both date strings and enforces that the deed was
// recorded on or after the date it was signed. Either field failing to parse
// is a DateParseError; a recorded date preceding the signed date is a
// DateOrderError carrying both parsed dates. Only the calendar date is
// meaningful; any time-of-day component is discarded before comparison.
func ValidateDateOrder(signedText, recordedText string) error {
	signed, err := parseDate("date_signed", signedText)
	if err != nil {
		return err
	}
	recorded, err := parseDate("date_recorded", recordedText)
	if err != nil {
		return err
	}

	if recorded.Before(signed) {
		return &DateOrderError{Signed: signed, Recorded: recorded}
	}
	return nil
}

// parseDate permissively parses a date string (ISO forms, US forms, and
// common textual dates) and truncates it to a calendar date in UTC.
func parseDate(field, raw string) (time.Time, error) {
	t, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &DateParseError{Field: field, Raw: raw, Err: err}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
