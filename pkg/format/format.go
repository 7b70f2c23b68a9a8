// Package format provides display formatting helpers for prices and text.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Price renders a monetary amount as a US-formatted dollar string with two
// fraction digits and thousands grouping, e.g. "$1,234.50".
func Price(v decimal.Decimal) string {
	return printer.Sprintf("$%.2f", v.InexactFloat64())
}

// Truncate shortens s to at most max runes, trimming trailing whitespace and
// appending an ellipsis when anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " \t\n") + "..."
}
