package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/deed-cli/internal/model"
)

// FormatSummary renders the human-readable outcome of a validated deed:
// normalized county, resolved tax rate, and tax due. Amounts are rounded to
// two decimal places for display only; the stored values keep full precision.
func FormatSummary(fields model.DeedFields, result *model.Result) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "# Deed %s\n", fields.DocID)
	fmt.Fprintf(&b, "Grantor: %s\n", fields.Grantor)
	fmt.Fprintf(&b, "Grantee: %s\n", fields.Grantee)
	if fields.APN != "" {
		fmt.Fprintf(&b, "APN: %s\n", fields.APN)
	}
	b.WriteString("\n## Validation\n")
	fmt.Fprintf(&b, "- Normalized County: %s", result.NormalizedCounty)
	if fields.State != "" {
		fmt.Fprintf(&b, ", %s", fields.State)
	}
	b.WriteString("\n")
	b.WriteString("- Dates: signed " + fields.DateSigned + ", recorded " + fields.DateRecorded + " (order OK)\n")
	fmt.Fprintf(&b, "- Amount: %s (matches written amount)\n", formatUSD(p, result.Amount))
	fmt.Fprintf(&b, "- Tax Rate: %s\n", result.TaxRate.String())
	fmt.Fprintf(&b, "- Tax Due: %s\n", formatUSD(p, result.TaxDue))

	return b.String()
}

// formatUSD renders a decimal as grouped dollars, e.g. $1,250,000.00. The
// digits come from the decimal itself; a float64 round-trip would misprint
// amounts past 2^53.
func formatUSD(p *message.Printer, d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return fmt.Sprintf("%s$%s.%s", sign, p.Sprintf("%d", n), frac)
	}
	return fmt.Sprintf("%s$%s.%s", sign, whole, frac)
}
