// Package pricing parses catalog prices and totals a bill of materials.
package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is an ISO 4217 code. Only one display locale is supported.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
)

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Symbol returns the display symbol
func (c Currency) Symbol() string {
	switch c {
	case CurrencyGBP:
		return "£"
	default:
		return string(c) + " "
	}
}

// ParseCurrency accepts a supported currency code in any case
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if c != CurrencyGBP {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return c, nil
}

var ukPrinter = message.NewPrinter(language.BritishEnglish)

// Format renders an amount as <symbol><grouped units>.<2 digits>,
// e.g. £1,234.50. Negative amounts get a leading minus sign.
func (c Currency) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	units, cents, _ := strings.Cut(amount.StringFixed(2), ".")
	return sign + c.Symbol() + groupUnits(units) + "." + cents
}

// groupUnits inserts thousands separators into a string of digits
func groupUnits(units string) string {
	if n, err := strconv.ParseInt(units, 10, 64); err == nil {
		return ukPrinter.Sprintf("%d", n)
	}
	var b strings.Builder
	lead := len(units) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(units[:lead])
	for i := lead; i < len(units); i += 3 {
		b.WriteByte(',')
		b.WriteString(units[i : i+3])
	}
	return b.String()
}

// FormatGBP formats an amount in pounds sterling
func FormatGBP(amount decimal.Decimal) string {
	return CurrencyGBP.Format(amount)
}
