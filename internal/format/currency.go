// Package format renders amounts, percentages and status badges for display.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Defaults for the storefront locale
const (
	DefaultSymbol = "₦"
	DefaultLocale = "en-NG"
)

// Formatter renders amounts for one currency symbol and locale
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter creates a formatter; an unparseable locale falls back to English grouping
func NewFormatter(symbol, locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

var defaultFormatter = NewFormatter(DefaultSymbol, DefaultLocale)

// Symbol returns the currency symbol
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Currency renders amount with grouping and two decimals. NaN and infinities render as "<symbol>0".
func (f *Formatter) Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return f.symbol + "0"
	}
	return f.symbol + f.printer.Sprint(number.Decimal(amount, number.Scale(2)))
}

// CurrencyPtr renders a missing amount as "<symbol>0"
func (f *Formatter) CurrencyPtr(amount *float64) string {
	if amount == nil {
		return f.symbol + "0"
	}
	return f.Currency(*amount)
}

// Currency renders amount with the default symbol and locale
func Currency(amount float64) string {
	return defaultFormatter.Currency(amount)
}

// CurrencyPtr renders a possibly missing amount with the default symbol and locale
func CurrencyPtr(amount *float64) string {
	return defaultFormatter.CurrencyPtr(amount)
}
