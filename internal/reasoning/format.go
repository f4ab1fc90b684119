package reasoning

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const million = 1_000_000

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price for display. Amounts of a million or more are
// shown in millions: exact multiples with one decimal ("$210.0M"), anything
// else with two ("$1.25M"). Smaller amounts are grouped ("$850,000").
func FormatPrice(v float64) string {
	if v >= million {
		if math.Mod(v, million) == 0 {
			return fmt.Sprintf("$%.1fM", v/million)
		}
		return fmt.Sprintf("$%.2fM", v/million)
	}
	if v < 0 {
		v = 0
	}
	return "$" + pricePrinter.Sprintf("%d", int64(math.Round(v)))
}

// PriceLabel formats an optional price; nil and zero render as "".
func PriceLabel(p *float64) string {
	if p == nil || *p <= 0 {
		return ""
	}
	return FormatPrice(*p)
}
