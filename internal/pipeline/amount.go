package pipeline

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// nonAmount matches every character that is not a digit or a decimal point.
var nonAmount = regexp.MustCompile(`[^0-9.]`)

// moneyTolerance is the absolute tolerance, in currency units, between the
// numeric and written amounts. One unit absorbs rounding; it is not a knob.
var moneyTolerance = decimal.NewFromInt(1)

// ParseCurrency extracts the numeric value from a currency-formatted string
// by stripping every character that is not a digit or decimal point and
// parsing the remainder. Currency symbols, thousands separators, and
// trailing zeros do not affect the value. Fails with MalformedAmountError
// when no digits remain or the remainder is not a valid number.
func ParseCurrency(raw string) (decimal.Decimal, error) {
	stripped := nonAmount.ReplaceAllString(raw, "")
	if !strings.ContainsAny(stripped, "0123456789") {
		return decimal.Zero, &MalformedAmountError{Raw: raw}
	}

	value, err := decimal.NewFromString(strings.Trim(stripped, "."))
	if err != nil {
		return decimal.Zero, &MalformedAmountError{Raw: raw}
	}
	return value, nil
}

// WrittenAmountConverter converts a written dollar amount to a numeric
// value. Implementations may be partial: phrases outside their vocabulary
// contribute zero. The converter is only ever used to cross-validate the
// numeric amount, never to compute with.
type WrittenAmountConverter interface {
	Convert(text string) decimal.Decimal
}

// PhraseConverter is the default WrittenAmountConverter: a fixed additive
// phrase table. The input is lower-cased and scanned for each known phrase;
// the values of all phrases present are summed. This is explicitly NOT a
// general number-word parser — the vocabulary covers whole millions,
// hundred-thousands, ten-thousands, and thousands only, and anything outside
// it contributes nothing to the total.
type PhraseConverter struct{}

// phraseTable entries are mutually non-substring, so the additive scan can
// never count the same words twice.
var phraseTable = []struct {
	phrase string
	value  int64
}{
	{"one million", 1_000_000},
	{"two million", 2_000_000},
	{"three million", 3_000_000},
	{"four million", 4_000_000},
	{"five million", 5_000_000},
	{"six million", 6_000_000},
	{"seven million", 7_000_000},
	{"eight million", 8_000_000},
	{"nine million", 9_000_000},
	{"ten million", 10_000_000},
	{"one hundred thousand", 100_000},
	{"two hundred thousand", 200_000},
	{"three hundred thousand", 300_000},
	{"four hundred thousand", 400_000},
	{"five hundred thousand", 500_000},
	{"six hundred thousand", 600_000},
	{"seven hundred thousand", 700_000},
	{"eight hundred thousand", 800_000},
	{"nine hundred thousand", 900_000},
	{"ten thousand", 10_000},
	{"twenty thousand", 20_000},
	{"thirty thousand", 30_000},
	{"forty thousand", 40_000},
	{"fifty thousand", 50_000},
	{"sixty thousand", 60_000},
	{"seventy thousand", 70_000},
	{"eighty thousand", 80_000},
	{"ninety thousand", 90_000},
	{"one thousand", 1_000},
	{"two thousand", 2_000},
	{"three thousand", 3_000},
	{"four thousand", 4_000},
	{"five thousand", 5_000},
	{"six thousand", 6_000},
	{"seven thousand", 7_000},
	{"eight thousand", 8_000},
	{"nine thousand", 9_000},
}

func (PhraseConverter) Convert(text string) decimal.Decimal {
	text = strings.ToLower(text)
	total := decimal.Zero
	for _, e := range phraseTable {
		if strings.Contains(text, e.phrase) {
			total = total.Add(decimal.NewFromInt(e.value))
		}
	}
	return total
}

// Reconcile cross-checks the numeric amount field against the written
// amount. The written value serves only as a check: on success the numeric
// value is returned and the written value is discarded. Fails with
// MoneyMismatchError when the two differ by more than one currency unit.
func Reconcile(numericText, writtenText string, conv WrittenAmountConverter) (decimal.Decimal, error) {
	numeric, err := ParseCurrency(numericText)
	if err != nil {
		return decimal.Zero, err
	}

	text := conv.Convert(writtenText)
	if numeric.Sub(text).Abs().GreaterThan(moneyTolerance) {
		return decimal.Zero, &MoneyMismatchError{Numeric: numeric, Text: text}
	}
	return numeric, nil
}
