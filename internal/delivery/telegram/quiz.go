package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/service"
)

// handleSubmit runs a generation for the chat and streams it into a single
// message that is edited as fragments arrive.
func (h *Handler) handleSubmit() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.sessions.WithSession(chatID, func(sess *entities.Session) error {
			if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
				h.logger.Debug("failed to send chat action", zap.Error(err))
			}

			r := newStreamRenderer(h.bot, h.logger, chatID, h.editInterval)

			text, err := h.quizService.Submit(ctx, sess, r.render)
			if err == nil {
				return r.finish(text)
			}

			var genErr *service.GenerationError
			switch {
			case errors.Is(err, service.ErrIncompleteAnswers):
				return h.send(newPlainMessage(chatID, msgIncomplete))
			case errors.Is(err, service.ErrNotConfigured):
				return h.send(newPlainMessage(chatID, msgNotConfigured))
			case errors.As(err, &genErr):
				return h.send(newPlainMessage(chatID, formatGenerationFailed(genErr)))
			default:
				return err
			}
		})
	}
}

// streamRenderer shows partial text in one message. The first fragment is
// sent as a new message; later ones edit it at most once per interval.
type streamRenderer struct {
	bot      BotAPI
	logger   *zap.Logger
	chatID   int64
	interval time.Duration
	now      func() time.Time

	messageID int
	lastEdit  time.Time
	lastText  string
}

func newStreamRenderer(bot BotAPI, logger *zap.Logger, chatID int64, interval time.Duration) *streamRenderer {
	return &streamRenderer{
		bot:      bot,
		logger:   logger,
		chatID:   chatID,
		interval: interval,
		now:      time.Now,
	}
}

func (r *streamRenderer) render(partial string) error {
	text := formatPartial(partial)

	if r.messageID == 0 {
		msg, err := r.bot.Send(newPlainMessage(r.chatID, text))
		if err != nil {
			return err
		}
		r.messageID = msg.MessageID
		r.lastEdit = r.now()
		r.lastText = text
		return nil
	}

	if text == r.lastText || r.now().Sub(r.lastEdit) < r.interval {
		return nil
	}

	// A failed intermediate edit only delays the display; the final edit
	// carries the full text.
	if _, err := r.bot.Send(tgbotapi.NewEditMessageText(r.chatID, r.messageID, text)); err != nil {
		r.logger.Warn("failed to edit streaming message",
			zap.Int64("chat_id", r.chatID),
			zap.Error(err),
		)
		return nil
	}
	r.lastEdit = r.now()
	r.lastText = text
	return nil
}

// finish replaces the partial display with the committed result.
func (r *streamRenderer) finish(text string) error {
	final := formatResult(text)
	kb := buildResultKeyboard()

	if r.messageID == 0 {
		msg := newPlainMessage(r.chatID, final)
		msg.ReplyMarkup = kb
		_, err := r.bot.Send(msg)
		return err
	}

	_, err := r.bot.Send(tgbotapi.NewEditMessageTextAndMarkup(r.chatID, r.messageID, final, kb))
	return err
}
