package console

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatMoney renders a whole-dollar amount with thousands separators, e.g. $52,000.
func formatMoney(v float64) string {
	whole := int64(math.Abs(math.Round(v)))
	amount := message.NewPrinter(language.English).Sprintf("$%d", whole)
	if v < 0 && whole != 0 {
		return "-" + amount
	}
	return amount
}

// formatScore renders a metric rounded to a whole number.
func formatScore(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
