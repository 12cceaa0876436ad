package telegram

import (
	"context"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

// handleStart sends the intro and the questionnaire with the chat's
// current selections.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.sessions.WithSession(chatID, func(sess *entities.Session) error {
			if err := h.send(newMessage(chatID, welcomeMarkdownV2())); err != nil {
				return err
			}
			return h.sendQuestionnaire(chatID, sess)
		})
	}
}

// handleReset clears selections and result, then sends a fresh questionnaire.
func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.sessions.WithSession(chatID, func(sess *entities.Session) error {
			h.quizService.Reset(sess)
			if err := h.send(newPlainMessage(chatID, msgRestart)); err != nil {
				return err
			}
			return h.sendQuestionnaire(chatID, sess)
		})
	}
}
