package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
}

type QuizService interface {
	Select(sess *entities.Session, question, option int) error
	Reset(sess *entities.Session)
	Submit(ctx context.Context, sess *entities.Session, render service.RenderFunc) (string, error)
	Share(ctx context.Context, sess *entities.Session, clipboard service.Clipboard) error
}

type SessionStorage interface {
	WithSession(chatID int64, fn func(*entities.Session) error) error
}
