package monitor

import (
	"fmt"

	"pricewatch-telegram-bot/internal/watchlist"
	"pricewatch-telegram-bot/lib/helpers"
	"pricewatch-telegram-bot/lib/translation"
)

// RenderReport builds the periodic price report message.
func RenderReport(e watchlist.TrackedAsset, price float64) string {
	return fmt.Sprintf(
		"💰 *%s*\n\n*%s*: $%s",
		helpers.EscapeMarkdownV2(translation.Translate("Price update")),
		helpers.EscapeMarkdownV2(e.Symbol),
		helpers.FormatPriceUS(price, true),
	)
}

// RenderAlert builds the threshold alert message.
func RenderAlert(e watchlist.TrackedAsset, price float64) string {
	condition := translation.Translate("at or above")
	if e.Alert != nil && e.Alert.Op == watchlist.OpLTE {
		condition = translation.Translate("at or below")
	}

	var target float64
	if e.Alert != nil {
		target = e.Alert.Target
	}

	return fmt.Sprintf(
		"🚨 *%s*\n\n*%s*: $%s\n%s $%s",
		helpers.EscapeMarkdownV2(translation.Translate("Price alert")),
		helpers.EscapeMarkdownV2(e.Symbol),
		helpers.FormatPriceUS(price, true),
		helpers.EscapeMarkdownV2(condition),
		helpers.FormatPriceUS(target, true),
	)
}
