package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatClipboard "copies" by posting the text as a preformatted block:
// Telegram clients put such blocks on the clipboard when tapped.
type chatClipboard struct {
	bot    BotAPI
	chatID int64
}

func (c chatClipboard) Copy(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(c.chatID, formatCopyBlock(text))
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := c.bot.Send(msg)
	return err
}
