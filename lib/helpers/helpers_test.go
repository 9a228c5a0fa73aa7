package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPeriod(t *testing.T) {
	cases := map[int]string{
		1:     "1 minute",
		15:    "15 minutes",
		59:    "59 minutes",
		60:    "1 hour",
		480:   "8 hours",
		2160:  "36 hours",
		1440:  "1 day",
		10080: "7 days",
	}

	for minutes, want := range cases {
		assert.Equal(t, want, FormatPeriod(minutes), "minutes=%d", minutes)
	}

	// A period that is not a whole number of hours keeps its exact
	// remainder instead of rounding.
	assert.Equal(t, "1h 30m", FormatPeriod(90))
	assert.Equal(t, "2h 05m", FormatPeriod(125))
}

func TestFormatPriceUS(t *testing.T) {
	assert.Equal(t, "65,000", FormatPriceUS(65000, false))
	assert.Equal(t, "42.50", FormatPriceUS(42.5, false))
	assert.Equal(t, "65,000", FormatPriceUS(65000, true))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `price \>\= 1\.5`, EscapeMarkdownV2("price >= 1.5"))
}
