package metrics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

func TestFormatCurrency_English(t *testing.T) {
	assert.Equal(t, "$1,234", FormatCurrency(1234, "USD", "en-US"))
	assert.Equal(t, "$1,234.50", FormatCurrency(1234.5, "USD", "en-US"))
	assert.Equal(t, "-$7,148", FormatCurrency(-7148, "USD", "en-US"))
	assert.Equal(t, "117,061 kr", FormatCurrency(117061, "SEK", "en-US"))
	assert.Equal(t, "€0", FormatCurrency(0, "EUR", "en-US"))
	assert.Equal(t, "CHF 2,500", FormatCurrency(2500, "CHF", "en-US"))
}

func TestFormatCurrency_ZeroDecimalCurrency(t *testing.T) {
	assert.Equal(t, 0, MinorUnitScale("JPY"))
	assert.Equal(t, "¥1,235", FormatCurrency(1234.6, "JPY", "en-US"))
}

func TestFormatMetricValue_NonCurrencyUnits(t *testing.T) {
	assert.Equal(t, "83.3%", FormatMetricValue(83.333, domain.UnitPercentage, "", "en-US"))
	assert.Equal(t, "4.5 months", FormatMetricValue(4.5, domain.UnitMonths, "", "en-US"))
	assert.Equal(t, "1,200", FormatMetricValue(1200, domain.UnitCount, "", "en-US"))
}

func TestFormatMetricValue_NaNRendersAsZero(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(math.NaN(), "USD", "en-US"))
}

func TestParseMetricValue_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cases := []struct {
		currency string
		locale   string
	}{
		{"USD", "en-US"},
		{"SEK", "sv-SE"},
		{"EUR", "de-DE"},
		{"JPY", "ja-JP"},
		{"CHF", "en-GB"},
	}

	for _, c := range cases {
		scale := MinorUnitScale(c.currency)
		tolerance := math.Pow10(-scale) / 2
		for trial := 0; trial < 200; trial++ {
			value := (rng.Float64() - 0.5) * 2_000_000
			formatted := FormatCurrency(value, c.currency, c.locale)

			parsed, err := ParseMetricValue(formatted, c.currency, c.locale)
			require.NoError(t, err, "%s %s trial %d: %q", c.currency, c.locale, trial, formatted)
			assert.InDelta(t, value, parsed, tolerance+1e-9,
				"%s %s trial %d: %v formatted as %q parsed back as %v", c.currency, c.locale, trial, value, formatted, parsed)
		}
	}
}

func TestParseMetricValue_Invalid(t *testing.T) {
	_, err := ParseMetricValue("lots", "USD", "en-US")
	require.Error(t, err)
}
