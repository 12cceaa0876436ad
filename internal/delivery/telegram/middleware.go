package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/storage"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs the error and tells the user something went wrong.
// A busy session gets a wait notice instead.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrSessionBusy):
			_ = h.send(newPlainMessage(chatID, msgBusy))
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			_ = h.send(newPlainMessage(chatID, msgInternalError))
		}
		return nil
	}
}
