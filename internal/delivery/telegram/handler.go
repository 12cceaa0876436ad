package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

type Handler struct {
	bot          BotAPI
	logger       *zap.Logger
	sessions     SessionStorage
	quizService  QuizService
	userService  UserService // nil when no user registry is configured
	editInterval time.Duration

	wg sync.WaitGroup
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	sessions SessionStorage,
	quizService QuizService,
	userService UserService,
	editInterval time.Duration,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		sessions:     sessions,
		quizService:  quizService,
		userService:  userService,
		editInterval: editInterval,
	}
}

// Run receives updates until ctx is done. Each update is handled in its own
// goroutine so a long generation in one chat does not hold up the others.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				h.dispatch(ctx, update)
			}()
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
			)
		}
	}()
	h.handleUpdate(ctx, update)
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	if from := update.Message.From; from != nil {
		h.ensureUser(ctx, from.ID, chatID)
	}

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.handleStart())(ctx, chatID)
	case "reset":
		_ = h.withErrorHandling(h.handleReset())(ctx, chatID)
	case "help":
		_ = h.send(newPlainMessage(chatID, msgHelp))
	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) ensureUser(ctx context.Context, userID, chatID int64) {
	if h.userService == nil {
		return
	}
	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

// sendQuestionnaire sends one message per question followed by the controls.
// Keyboards reflect the current selections of sess.
func (h *Handler) sendQuestionnaire(chatID int64, sess *entities.Session) error {
	for i, q := range sess.Questions() {
		selected, ok := sess.Selected(i)
		msg := newMessage(chatID, formatQuestion(i+1, q.Prompt))
		msg.ReplyMarkup = buildQuestionKeyboard(i, q, selected, ok)
		if err := h.send(msg); err != nil {
			return fmt.Errorf("send question %d: %w", i+1, err)
		}
	}

	msg := newPlainMessage(chatID, msgControls)
	msg.ReplyMarkup = buildControlsKeyboard()
	return h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// answerCallback removes the button "clock", optionally with a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("failed to answer callback",
			zap.String("callback_id", id),
			zap.Error(err),
		)
	}
}
