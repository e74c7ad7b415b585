// Package notify pushes actionable transitions to Telegram after a scan.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Screener/models"
)

// Notifier sends transition alerts to a single chat
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewNotifier initializes the Telegram bot
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}
	return &Notifier{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// SendTransitions pushes one message summarizing the run's transitions,
// grouped by action category. Nothing is sent on a quiet week.
func (n *Notifier) SendTransitions(market string, transitions []models.TransitionRecord) error {
	if len(transitions) == 0 {
		return nil
	}

	byAction := make(map[models.Action][]models.TransitionRecord)
	for _, t := range transitions {
		byAction[t.Action] = append(byAction[t.Action], t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *%s* weekly transitions\n", market)
	for _, action := range []models.Action{
		models.ActionNewBuy, models.ActionNewSell,
		models.ActionDowngrade, models.ActionUpgrade,
	} {
		records := byAction[action]
		if len(records) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s*\n", action)
		for _, t := range records {
			fmt.Fprintf(&b, "• %s: %s → %s\n", t.Symbol, t.Previous, t.Current)
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	msg.ParseMode = "Markdown"
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("sending transitions message: %w", err)
	}

	n.logger.Info().Str("market", market).Int("transitions", len(transitions)).Msg("Transitions sent")
	return nil
}
