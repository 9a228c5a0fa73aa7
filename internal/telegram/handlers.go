package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"pricewatch-telegram-bot/internal/price"
	"pricewatch-telegram-bot/internal/watchlist"
	"pricewatch-telegram-bot/lib/helpers"
	"pricewatch-telegram-bot/lib/translation"
)

const commandTimeout = 10 * time.Second

// Handler answers watchlist commands. It goes through the same store
// adapter as the monitor tick, so both sides see the same invariants.
type Handler struct {
	Service  *watchlist.Service
	Resolver *price.Resolver
}

// HandleUpdate processes Telegram updates
func (h *Handler) HandleUpdate(u tgbotapi.Update) string {
	text := helpText()
	log.Debugf("received command: %s", u.Message.Command())

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	chatID := u.Message.Chat.ID
	args := strings.TrimSpace(u.Message.CommandArguments())

	switch u.Message.Command() {
	case "start", "help":
		// fallthrough to help text
	case "list":
		text = h.handleList(ctx, chatID)
	case "add":
		text = h.handleAdd(ctx, chatID, args)
	case "remove":
		text = h.handleRemove(ctx, chatID, args)
	case "period":
		text = h.handlePeriod(ctx, chatID, args)
	case "alert":
		text = h.handleAlert(ctx, chatID, args)
	case "clearalert":
		text = h.handleClearAlert(ctx, chatID, args)
	}

	return text
}

func helpText() string {
	return helpers.EscapeMarkdownV2(translation.Translate(
		"Commands:\n" +
			"/add SYMBOL - track a coin (price every 15 minutes)\n" +
			"/list - show tracked coins\n" +
			"/period SYMBOL MINUTES - change report interval\n" +
			"/alert SYMBOL >=|<= PRICE - set a threshold alert\n" +
			"/clearalert SYMBOL - back to periodic reports\n" +
			"/remove SYMBOL - stop tracking a coin"))
}

func (h *Handler) handleList(ctx context.Context, chatID int64) string {
	entries, err := h.Service.List(ctx, chatID)
	if err != nil {
		log.Errorf("list command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	if len(entries) == 0 {
		return helpers.EscapeMarkdownV2(translation.Translate("You are not tracking any coins yet. Use /add SYMBOL"))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("*%s*\n", helpers.EscapeMarkdownV2(translation.Translate("Your coins"))))
	for _, e := range entries {
		line := fmt.Sprintf("%s every %s", e.Symbol, helpers.FormatPeriod(e.PeriodMinutes))
		if e.Alert != nil {
			line += fmt.Sprintf(" | alert %s $%s", e.Alert.Op, helpers.FormatPriceUS(e.Alert.Target, false))
		}
		line += fmt.Sprintf(" | last update %s", helpers.FormatLastSent(e.LastSent))
		b.WriteString(helpers.EscapeMarkdownV2(line) + "\n")
	}
	return b.String()
}

// findTracked resolves a symbol or asset id against what the subscriber
// actually tracks, so mutations work for any stored entry, known coin
// table or not.
func (h *Handler) findTracked(ctx context.Context, chatID int64, query string) (watchlist.TrackedAsset, bool, error) {
	entries, err := h.Service.List(ctx, chatID)
	if err != nil {
		return watchlist.TrackedAsset{}, false, err
	}
	e, ok := watchlist.FindEntry(entries, query)
	return e, ok, nil
}

func (h *Handler) handleAdd(ctx context.Context, chatID int64, args string) string {
	symbol, _ := ParseArguments(args)

	// An already-tracked asset (even one outside the known-coin table)
	// just gets its current price re-sent.
	if entry, found, err := h.findTracked(ctx, chatID, symbol); err != nil {
		log.Errorf("add command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	} else if found {
		return h.currentPrice(ctx, watchlist.Coin{Symbol: entry.Symbol, AssetID: entry.AssetID})
	}

	coin, found := watchlist.LookupCoin(symbol)
	if !found {
		if suggestions := watchlist.SearchCoins(symbol, 5); len(suggestions) > 0 {
			names := make([]string, 0, len(suggestions))
			for _, c := range suggestions {
				names = append(names, c.Symbol)
			}
			return helpers.EscapeMarkdownV2(translation.Translate("Coin not found. Did you mean: %s?", strings.Join(names, ", ")))
		}
		return helpers.EscapeMarkdownV2(translation.Translate("Coin not found"))
	}

	result, err := h.Service.Add(ctx, chatID, coin)
	if err != nil {
		log.Errorf("add command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}

	switch result {
	case watchlist.AlreadyTracked:
		// Re-adding is a no-op; answer with the current price instead.
		return h.currentPrice(ctx, coin)
	case watchlist.LimitReached:
		return helpers.EscapeMarkdownV2(translation.Translate("You already track the maximum number of coins. Remove one first."))
	}

	confirm := helpers.EscapeMarkdownV2(translation.Translate("%s added. You will get its price every %d minutes.",
		coin.Symbol, watchlist.DefaultPeriodMinutes))
	return confirm + "\n\n" + h.currentPrice(ctx, coin)
}

func (h *Handler) currentPrice(ctx context.Context, coin watchlist.Coin) string {
	prices := h.Resolver.ResolveAll(ctx, []string{coin.AssetID})
	p, ok := prices[coin.AssetID]
	if !ok {
		return helpers.EscapeMarkdownV2(translation.Translate("Price for %s is temporarily unavailable", coin.Symbol))
	}
	return fmt.Sprintf("*%s*: $%s", helpers.EscapeMarkdownV2(coin.Symbol), helpers.FormatPriceUS(p, true))
}

func (h *Handler) handleRemove(ctx context.Context, chatID int64, args string) string {
	symbol, _ := ParseArguments(args)
	entry, found, err := h.findTracked(ctx, chatID, symbol)
	if err != nil {
		log.Errorf("remove command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	if !found {
		return helpers.EscapeMarkdownV2(translation.Translate("%s is not on your list", symbol))
	}

	if _, err := h.Service.Remove(ctx, chatID, entry.AssetID); err != nil {
		log.Errorf("remove command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	return helpers.EscapeMarkdownV2(translation.Translate("%s removed", entry.Symbol))
}

func (h *Handler) handlePeriod(ctx context.Context, chatID int64, args string) string {
	symbol, rest := ParseArguments(args)
	entry, found, err := h.findTracked(ctx, chatID, symbol)
	if err != nil {
		log.Errorf("period command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	if !found {
		return helpers.EscapeMarkdownV2(translation.Translate("%s is not on your list", symbol))
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || minutes < 1 {
		return helpers.EscapeMarkdownV2(translation.Translate("Usage: /period SYMBOL MINUTES (at least 1)"))
	}

	if _, err := h.Service.SetPeriod(ctx, chatID, entry.AssetID, minutes); err != nil {
		log.Errorf("period command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	return helpers.EscapeMarkdownV2(translation.Translate("%s will now report every %s", entry.Symbol, helpers.FormatPeriod(minutes)))
}

func (h *Handler) handleAlert(ctx context.Context, chatID int64, args string) string {
	usage := helpers.EscapeMarkdownV2(translation.Translate("Usage: /alert SYMBOL >=|<= PRICE"))

	symbol, rest := ParseArguments(args)
	entry, found, err := h.findTracked(ctx, chatID, symbol)
	if err != nil {
		log.Errorf("alert command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	if !found {
		return helpers.EscapeMarkdownV2(translation.Translate("%s is not on your list", symbol))
	}

	opRaw, targetRaw := ParseArguments(rest)
	op := watchlist.Operator(opRaw)
	if op != watchlist.OpGTE && op != watchlist.OpLTE {
		return usage
	}

	target, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(targetRaw), ",", ""), 64)
	if err != nil || target <= 0 {
		return usage
	}

	if _, err := h.Service.SetAlert(ctx, chatID, entry.AssetID, op, target); err != nil {
		log.Errorf("alert command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	return helpers.EscapeMarkdownV2(translation.Translate("Alert set for %s: %s $%s",
		entry.Symbol, string(op), helpers.FormatPriceUS(target, false)))
}

func (h *Handler) handleClearAlert(ctx context.Context, chatID int64, args string) string {
	symbol, _ := ParseArguments(args)
	entry, found, err := h.findTracked(ctx, chatID, symbol)
	if err != nil {
		log.Errorf("clearalert command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	if !found {
		return helpers.EscapeMarkdownV2(translation.Translate("%s is not on your list", symbol))
	}

	if _, err := h.Service.ClearAlert(ctx, chatID, entry.AssetID); err != nil {
		log.Errorf("clearalert command failed for chat %d: %v", chatID, err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong, try again later"))
	}
	return helpers.EscapeMarkdownV2(translation.Translate("Alert cleared for %s, back to periodic reports", entry.Symbol))
}
