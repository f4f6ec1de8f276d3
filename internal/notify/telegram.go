package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the subset of the bot API the notifier uses.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes console notifications to a staff chat.
type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(bot TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) Notify(_ context.Context, severity Severity, message string) {
	text := message
	switch severity {
	case SeverityWarning:
		text = fmt.Sprintf("⚠️ %s", message)
	case SeverityError:
		text = fmt.Sprintf("❌ %s", message)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("failed to send telegram notification")
	}
}
