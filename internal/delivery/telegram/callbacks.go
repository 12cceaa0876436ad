package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
	"github.com/aliskhannn/villager-test-bot/internal/service"
	"github.com/aliskhannn/villager-test-bot/internal/storage"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var (
		toast string
		err   error
	)

	switch data.Action {
	case actionAnswer:
		err = h.handleAnswer(chatID, cb.Message.MessageID, data)
	case actionReset:
		err = h.handleReset()(ctx, chatID)
	case actionShare:
		toast, err = h.handleShare(ctx, chatID)
	case actionSubmit:
		// Generation outlives the callback deadline, so answer first.
		h.answerCallback(cb.ID, "")
		_ = h.withErrorHandling(h.handleSubmit())(ctx, chatID)
		return
	default:
		h.logger.Debug("unknown callback action", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, storage.ErrSessionBusy):
		toast = msgBusy
	case errors.Is(err, service.ErrInvalidSelection):
		h.logger.Warn("invalid answer callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
		)
		toast = msgInvalidAnswer
	default:
		h.logger.Error("callback error",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		toast = msgInternalError
	}

	h.answerCallback(cb.ID, toast)
}

// handleAnswer records the selection and re-renders the question's keyboard.
func (h *Handler) handleAnswer(chatID int64, messageID int, data callbackData) error {
	question, option, ok := data.answerParams()
	if !ok {
		return fmt.Errorf("%w: %q", service.ErrInvalidSelection, data.Raw)
	}

	return h.sessions.WithSession(chatID, func(sess *entities.Session) error {
		prev, hadPrev := sess.Selected(question)

		if err := h.quizService.Select(sess, question, option); err != nil {
			return err
		}

		// Telegram rejects edits that do not change the message.
		if hadPrev && prev == option {
			return nil
		}

		kb := buildQuestionKeyboard(question, sess.Questions()[question], option, true)
		return h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, kb))
	})
}

// handleShare posts the committed result as a copyable block.
// It returns the toast to show on the button.
func (h *Handler) handleShare(ctx context.Context, chatID int64) (string, error) {
	toast := msgShared

	err := h.sessions.WithSession(chatID, func(sess *entities.Session) error {
		err := h.quizService.Share(ctx, sess, chatClipboard{bot: h.bot, chatID: chatID})
		if errors.Is(err, service.ErrNoResult) {
			toast = msgNoResult
			return nil
		}
		return err
	})

	return toast, err
}
