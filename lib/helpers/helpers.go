package helpers

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

func FormatPriceUS(price float64, escapeMarkdown bool) string {
	decimals := 6

	if price >= 1000 {
		decimals = 0
	} else if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	thousandSeparator := ","

	p := message.NewPrinter(language.English)
	withCommaThousandSep := p.Sprintf("%.*f", decimals, price)
	formatted := strings.ReplaceAll(withCommaThousandSep, ",", thousandSeparator)

	if escapeMarkdown {
		return EscapeMarkdownV2(formatted)
	}
	return formatted
}

// FormatPeriod renders a report period for list output, e.g. "15 minutes",
// "1h 30m" or "1 day". The displayed interval is exact, never rounded.
func FormatPeriod(minutes int) string {
	const (
		minutesPerHour = 60
		minutesPerDay  = 24 * minutesPerHour
	)

	p := message.NewPrinter(language.English)
	switch {
	case minutes == 1:
		return "1 minute"
	case minutes < minutesPerHour:
		return p.Sprintf("%d minutes", minutes)
	case minutes == minutesPerHour:
		return "1 hour"
	case minutes == minutesPerDay:
		return "1 day"
	case minutes%minutesPerDay == 0:
		return p.Sprintf("%d days", minutes/minutesPerDay)
	case minutes%minutesPerHour == 0:
		return p.Sprintf("%d hours", minutes/minutesPerHour)
	default:
		return p.Sprintf("%dh %02dm", minutes/minutesPerHour, minutes%minutesPerHour)
	}
}

// FormatLastSent renders when an entry last notified, e.g. "5 minutes ago".
func FormatLastSent(lastSent int64) string {
	return humanize.Time(time.Unix(lastSent, 0))
}
