package service

import (
	"context"
	"iter"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

// GenerationRequest is the role-tagged message pair sent to the backend.
type GenerationRequest struct {
	System string
	User   string
}

// Streamer produces generated text as a lazy, single-use sequence of fragments.
// A failure is yielded once as a non-nil error, after which the sequence ends.
type Streamer interface {
	Stream(ctx context.Context, req GenerationRequest) iter.Seq2[string, error]
}

// CredentialProvider reports the generation backend credential.
type CredentialProvider interface {
	APIKey() (string, bool)
}

// Clipboard copies text to wherever the presentation surface keeps its clipboard.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// UserRepository persists the optional Telegram user registry.
type UserRepository interface {
	Touch(ctx context.Context, user *entities.User) (bool, error)
}
