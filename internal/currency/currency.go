package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

var hundred = decimal.NewFromInt(100)

// Parse reads a pt-BR display string ("R$ 1.234,56", "1234,5") into a
// decimal. Everything except digits and the first comma is ignored; the
// first comma is the decimal separator. Malformed input yields zero.
func Parse(display string) decimal.Decimal {
	var (
		integer    strings.Builder
		fraction   strings.Builder
		seenComma  bool
		secondStop bool
	)
	for _, r := range display {
		switch {
		case r >= '0' && r <= '9':
			if secondStop {
				continue
			}
			if seenComma {
				fraction.WriteRune(r)
			} else {
				integer.WriteRune(r)
			}
		case r == ',':
			if seenComma {
				secondStop = true
			}
			seenComma = true
		}
	}

	s := integer.String()
	if s == "" && fraction.Len() == 0 {
		return decimal.Zero
	}
	if s == "" {
		s = "0"
	}
	if fraction.Len() > 0 {
		s += "." + fraction.String()
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders v with two decimals and pt-BR grouping, e.g. "1.234,56".
func Format(v decimal.Decimal) string {
	return printer.Sprintf("%.2f", v.Round(2).InexactFloat64())
}

// FormatBRL is Format with the "R$ " prefix.
func FormatBRL(v decimal.Decimal) string {
	return "R$ " + Format(v)
}

// FormatPercent renders v with the given number of places and a comma
// separator, e.g. "12,5%".
func FormatPercent(v decimal.Decimal, places int32) string {
	return strings.Replace(v.StringFixed(places), ".", ",", 1) + "%"
}

// MaskInput applies the keystroke mask used on the patrimony field: every
// digit typed shifts the value left, with the last two digits as cents.
// It returns the reformatted display string and the value it represents.
func MaskInput(raw string) (string, decimal.Decimal) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", decimal.Zero
	}

	cents, err := decimal.NewFromString(digits.String())
	if err != nil {
		return "", decimal.Zero
	}
	v := cents.Div(hundred)
	return Format(v), v
}
