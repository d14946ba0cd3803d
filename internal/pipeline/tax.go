package pipeline

import "github.com/shopspring/decimal"

// ComputeTax returns amount * rate as an exact decimal. Inputs are assumed
// already validated by upstream stages; display rounding is the caller's
// concern.
func ComputeTax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}
