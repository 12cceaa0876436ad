package web

import (
	"context"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/service"
)

type QuizService interface {
	Select(sess *entities.Session, question, option int) error
	Reset(sess *entities.Session)
	Submit(ctx context.Context, sess *entities.Session, render service.RenderFunc) (string, error)
	Share(ctx context.Context, sess *entities.Session, clipboard service.Clipboard) error
}

type SessionStorage interface {
	WithSession(id string, fn func(*entities.Session) error) error
}
