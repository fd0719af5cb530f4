// Package format turns raw mystery box fields into display strings.
// Every function here is pure and safe for concurrent use.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
)

// NotAvailable is shown in place of a value the backend did not send.
const NotAvailable = "N/A"

// Locale selects currency symbol, digit grouping and fraction digits.
type Locale struct {
	Tag      language.Tag
	Symbol   string
	Fraction int
}

var (
	// Indonesia formats rupiah without fraction digits: Rp25.000.
	Indonesia = Locale{Tag: language.Indonesian, Symbol: "Rp", Fraction: 0}
	// UnitedStates formats dollars with cents: $1,234.50.
	UnitedStates = Locale{Tag: language.AmericanEnglish, Symbol: "$", Fraction: 2}
)

// LocaleFor maps a BCP 47 tag such as "id-ID" or "en-US" to a known Locale,
// falling back to Indonesia.
func LocaleFor(tag string) Locale {
	t, err := language.Parse(tag)
	if err != nil {
		return Indonesia
	}
	if base, _ := t.Base(); base.String() == "en" {
		return UnitedStates
	}
	return Indonesia
}

// Currency formats amount with the locale's symbol and grouping. Negative
// amounts carry a leading minus before the symbol.
func Currency(amount float64, loc Locale) string {
	p := message.NewPrinter(loc.Tag)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + loc.Symbol + p.Sprint(number.Decimal(amount, number.Scale(loc.Fraction)))
}

// Price formats an optional whole-unit price. An absent price yields "".
func Price(price *int64, loc Locale) string {
	if price == nil {
		return ""
	}
	return Currency(float64(*price), loc)
}

// Distance renders meters for display:
//   - nil        -> "N/A"
//   - < 1000     -> truncated whole meters, "999 m"
//   - otherwise  -> kilometers with one decimal, "1.5 km"
//
// Kilometers round half-up on the shortest decimal form, so 1250 m is "1.3 km".
func Distance(meters *float64) string {
	if meters == nil {
		return NotAvailable
	}
	m := *meters
	if m < 1000 {
		return fmt.Sprintf("%d m", int64(m))
	}
	return roundTenthsHalfUp(m/1000) + " km"
}

func roundTenthsHalfUp(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%.1f", v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return fmt.Sprintf("%.1f", v)
	}

	tenths := whole * 10
	if len(frac) > 0 {
		tenths += int64(frac[0] - '0')
	}
	if len(frac) > 1 && frac[1] >= '5' {
		tenths++
	}
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// PackageCount is the number of food packages shown for a box: one less than
// the product list length. The subtraction is deliberately unguarded and
// yields 0 or -1 for short lists. ok is false when the list is absent.
func PackageCount(products []domain.Product) (n int, ok bool) {
	if products == nil {
		return 0, false
	}
	return len(products) - 1, true
}

// Rating renders a restaurant rating with at least one fractional digit
// ("4.0", "4.5"), or "N/A" when absent.
func Rating(r *float64) string {
	if r == nil {
		return NotAvailable
	}
	s := strconv.FormatFloat(*r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
