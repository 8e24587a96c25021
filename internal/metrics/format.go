package metrics

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

const DefaultLocale = "en-US"

type symbol struct {
	text   string
	suffix bool
}

var currencySymbols = map[string]symbol{
	"SEK": {"kr", true},
	"NOK": {"kr", true},
	"DKK": {"kr", true},
	"USD": {"$", false},
	"EUR": {"€", false},
	"GBP": {"£", false},
	"JPY": {"¥", false},
}

func symbolFor(code string) symbol {
	code = strings.ToUpper(code)
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return symbol{text: code + " "}
}

// MinorUnitScale returns the number of decimal places the currency uses
// for cash amounts. Unknown codes default to 2.
func MinorUnitScale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

type separators struct {
	group   string
	decimal string
}

func separatorsFor(locale string) (separators, *message.Printer) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)
	grouped := p.Sprintf("%d", 1000)
	frac := p.Sprintf("%.1f", 1.5)
	sep := separators{group: ",", decimal: "."}
	if g := strings.TrimSuffix(strings.TrimPrefix(grouped, "1"), "000"); g != grouped {
		sep.group = g
	}
	if d := strings.TrimSuffix(strings.TrimPrefix(frac, "1"), "5"); d != "" {
		sep.decimal = d
	}
	return sep, p
}

// FormatMetricValue renders value for display according to its unit.
// Currency amounts are rounded to the currency's minor unit; decimals are
// shown only when that rounding leaves a fractional part.
func FormatMetricValue(value float64, unit domain.MetricUnit, currencyCode, locale string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	sep, p := separatorsFor(locale)

	switch unit {
	case domain.UnitCurrency:
		return formatCurrency(value, currencyCode, sep, p)
	case domain.UnitPercentage:
		return p.Sprintf("%.1f", value) + "%"
	case domain.UnitMonths:
		return p.Sprintf("%.1f", value) + " months"
	case domain.UnitHours:
		return p.Sprintf("%.1f", value) + " h"
	default:
		return p.Sprintf("%d", int64(math.Round(value)))
	}
}

// FormatCurrency is FormatMetricValue for currency amounts.
func FormatCurrency(value float64, currencyCode, locale string) string {
	return FormatMetricValue(value, domain.UnitCurrency, currencyCode, locale)
}

func formatCurrency(value float64, code string, sep separators, p *message.Printer) string {
	scale := int32(MinorUnitScale(code))
	d := decimal.NewFromFloat(value).Round(scale)
	negative := d.IsNegative()
	d = d.Abs()

	whole := d.Truncate(0)
	number := p.Sprintf("%d", whole.IntPart())
	if frac := d.Sub(whole); !frac.IsZero() {
		digits := frac.StringFixed(scale)
		if i := strings.IndexByte(digits, '.'); i >= 0 {
			number += sep.decimal + digits[i+1:]
		}
	}

	sym := symbolFor(code)
	var out string
	if sym.suffix {
		out = number + " " + sym.text
	} else {
		out = sym.text + number
	}
	if negative {
		out = "-" + out
	}
	return out
}

// ParseMetricValue reverses FormatCurrency for the same currency and
// locale, returning the amount rounded to the currency's minor unit.
func ParseMetricValue(s, currencyCode, locale string) (float64, error) {
	sep, _ := separatorsFor(locale)
	sym := symbolFor(currencyCode)

	text := strings.TrimSpace(s)
	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")
	text = strings.ReplaceAll(text, strings.TrimSpace(sym.text), "")

	var b strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) || r == '\u00a0' || r == '\u202f' {
			continue
		}
		b.WriteRune(r)
	}
	text = b.String()
	if g := strings.TrimSpace(sep.group); g != "" {
		text = strings.ReplaceAll(text, g, "")
	}
	if sep.decimal != "." {
		text = strings.ReplaceAll(text, sep.decimal, ".")
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Round(int32(MinorUnitScale(currencyCode))).Float64()
	return f, nil
}
