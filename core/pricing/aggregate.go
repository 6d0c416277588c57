package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

// Summary is the priced total of a set of resolved parts
type Summary struct {
	Total   decimal.Decimal
	Display string

	// Priced counts parts added to the total; Unpriced counts parts that
	// had no price and were skipped.
	Priced   int
	Unpriced int

	// Invalid holds one PRICE_INVALID error per price that could not be
	// parsed. Those parts are left out of the total.
	Invalid []types.ResolutionError
}

var plainDecimal = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// CleanPrice removes thousands separators, the pound sign and surrounding
// whitespace. Nothing else is touched.
func CleanPrice(raw string) string {
	cleaned := strings.NewReplacer(",", "", CurrencyGBP.Symbol(), "").Replace(raw)
	return strings.TrimSpace(cleaned)
}

// ParsePrice parses a catalog price rounded up to two decimal places.
// An empty or blank price reports ok=false with no error; any other value
// that is not a plain decimal is invalid.
func ParsePrice(raw string) (price decimal.Decimal, ok bool, err error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, false, nil
	}
	cleaned := CleanPrice(raw)
	if !plainDecimal.MatchString(cleaned) {
		return decimal.Zero, false, errors.New(errors.TypePriceInvalid, invalidPrice(raw))
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, errors.Wrap(errors.TypePriceInvalid, invalidPrice(raw), err)
	}
	return d.RoundCeil(2), true, nil
}

func invalidPrice(raw string) string {
	return fmt.Sprintf("price %q is not a number", raw)
}

// Aggregate sums the prices of parts in the given currency
func Aggregate(parts []types.ResolvedPart, currency Currency) Summary {
	s := Summary{Total: decimal.Zero}
	for _, p := range parts {
		price, ok, err := ParsePrice(p.Price)
		if err != nil {
			s.Invalid = append(s.Invalid, types.ResolutionError{
				Kind:     errors.TypePriceInvalid,
				Category: p.Category,
				Rule:     p.Rule,
				Key:      p.Reference,
				Message:  invalidPrice(p.Price),
			})
			continue
		}
		if !ok {
			s.Unpriced++
			continue
		}
		s.Total = s.Total.Add(price)
		s.Priced++
	}
	s.Display = currency.Format(s.Total)
	return s
}
