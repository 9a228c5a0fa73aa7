package telegram

import (
	"net/http"
	"regexp"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// sendTimeout bounds one outbound API call so a stalled send cannot hold
// a tick worker forever. Long polling for updates configures its own
// timeout through BotConfig.
const sendTimeout = 90 * time.Second

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(c.Token, tgbotapi.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %d", m.ChatID)
}

// Send dispatches a rendered notification to a subscriber. A failed send
// is the subscriber's problem alone and never aborts a tick.
func (b *Bot) Send(chatID int64, text string) error {
	return b.SendMessage(Message{ChatID: chatID, Text: text})
}

var argsRe = regexp.MustCompile(`^(\S+)\s*(.+)?$`)

// ParseArguments splits command arguments into the first token and the
// rest, e.g. "BTC >= 100000" into "BTC" and ">= 100000".
func ParseArguments(args string) (string, string) {
	matches := argsRe.FindStringSubmatch(args)

	if len(matches) >= 2 {
		first := matches[1]
		rest := ""
		if len(matches) == 3 {
			rest = matches[2]
		}
		return first, rest
	}
	return "", ""
}
