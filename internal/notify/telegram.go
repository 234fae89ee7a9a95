package notify

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink sends department alerts to a configured Telegram chat.
type TelegramSink struct {
	BotAPI *tgbotapi.BotAPI
}

// NewTelegramSink authorizes the bot.
func NewTelegramSink(token string) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Authorized telegram sink on account %s", bot.Self.UserName)
	return &TelegramSink{BotAPI: bot}, nil
}

// Send delivers one message to the chat.
func (s *TelegramSink) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := s.BotAPI.Send(msg)
	return err
}
