package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDateOrder_Valid(t *testing.T) {
	tests := []struct {
		name     string
		signed   string
		recorded string
	}{
		{name: "recorded after signed", signed: "2024-01-10", recorded: "2024-01-15"},
		{name: "same day", signed: "2024-01-10", recorded: "2024-01-10"},
		{name: "mixed formats", signed: "January 10, 2024", recorded: "01/15/2024"},
		{name: "time of day ignored", signed: "2024-01-10T23:59:00Z", recorded: "2024-01-10T00:01:00Z"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, ValidateDateOrder(tc.signed, tc.recorded))
		})
	}
}

func TestValidateDateOrder_RecordedBeforeSigned(t *testing.T) {
	err := ValidateDateOrder("2024-01-15", "2024-01-10")
	require.Error(t, err)

	var order *DateOrderError
	require.True(t, errors.As(err, &order))
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), order.Signed)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), order.Recorded)
}

func TestValidateDateOrder_Unparseable(t *testing.T) {
	tests := []struct {
		name      string
		signed    string
		recorded  string
		wantField string
	}{
		{name: "bad signed", signed: "not a date", recorded: "2024-01-10", wantField: "date_signed"},
		{name: "bad recorded", signed: "2024-01-10", recorded: "someday", wantField: "date_recorded"},
		{name: "empty signed", signed: "", recorded: "2024-01-10", wantField: "date_signed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDateOrder(tc.signed, tc.recorded)
			require.Error(t, err)

			var parse *DateParseError
			require.True(t, errors.As(err, &parse))
			assert.Equal(t, tc.wantField, parse.Field)
		})
	}
}
