// Package notify - транспорты уведомлений пользователям
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier отправляет уведомления через Telegram Bot API.
// ID пользователя в системе совпадает с Telegram chat ID.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier создает нотификатор по токену бота
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

// Send отправляет текстовое сообщение пользователю
func (n *TelegramNotifier) Send(ctx context.Context, userID int64, text string) error {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("notify: failed to send message to user %d: %w", userID, err)
	}
	return nil
}
