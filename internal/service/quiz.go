package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

// RenderFunc shows the text assembled so far. It is called after every
// fragment, before the next fragment is requested.
type RenderFunc func(partial string) error

// QuizService drives a session through selection, generation and sharing.
type QuizService struct {
	streamer    Streamer
	credentials CredentialProvider
	logger      *zap.Logger
	typingDelay time.Duration
}

func NewQuizService(
	streamer Streamer,
	credentials CredentialProvider,
	logger *zap.Logger,
	typingDelay time.Duration,
) *QuizService {
	return &QuizService{
		streamer:    streamer,
		credentials: credentials,
		logger:      logger,
		typingDelay: typingDelay,
	}
}

// Select records an answer coming from user input.
func (s *QuizService) Select(sess *entities.Session, question, option int) error {
	if question < 0 || question >= entities.NumQuestions {
		return ErrInvalidSelection
	}
	if option < 0 || option >= len(sess.Questions()[question].Options) {
		return ErrInvalidSelection
	}

	sess.Set(question, option)
	return nil
}

// Reset clears all answers and the result.
func (s *QuizService) Reset(sess *entities.Session) {
	sess.Reset()
}

// Submit validates the session, streams a new result and commits it.
// Partial text is only ever passed to render; it is committed only when the
// stream ends without error.
func (s *QuizService) Submit(ctx context.Context, sess *entities.Session, render RenderFunc) (string, error) {
	sess.State = entities.StateValidating

	if _, ok := s.credentials.APIKey(); !ok {
		sess.State = entities.StateIdle
		return "", ErrNotConfigured
	}

	if !sess.AllAnswered() {
		sess.State = entities.StateIdle
		return "", ErrIncompleteAnswers
	}

	sess.BeginGeneration()
	req := NewGenerationRequest(sess.Answers())

	start := time.Now()
	fragments := 0
	var buf strings.Builder

	for fragment, err := range s.streamer.Stream(ctx, req) {
		if err != nil {
			return "", s.fail(sess, fragments, err)
		}
		if fragment == "" {
			continue
		}

		fragments++
		buf.WriteString(fragment)

		if err := render(buf.String()); err != nil {
			return "", s.fail(sess, fragments, fmt.Errorf("render: %w", err))
		}

		if err := s.pause(ctx); err != nil {
			return "", s.fail(sess, fragments, err)
		}
	}

	text := buf.String()
	sess.Commit(text)

	s.logger.Info("generation completed",
		zap.Int("fragments", fragments),
		zap.Int("length", len(text)),
		zap.Duration("took", time.Since(start)),
	)

	return text, nil
}

// Share copies the committed result. Clipboard failures are only logged:
// the text stays visible for a manual copy.
func (s *QuizService) Share(ctx context.Context, sess *entities.Session, clipboard Clipboard) error {
	text, ok := sess.Result()
	if !ok {
		return ErrNoResult
	}

	if err := clipboard.Copy(ctx, text); err != nil {
		s.logger.Warn("failed to copy result",
			zap.Error(fmt.Errorf("%w: %w", ErrClipboard, err)),
		)
	}

	return nil
}

func (s *QuizService) fail(sess *entities.Session, fragments int, err error) error {
	sess.State = entities.StateFailed

	s.logger.Error("generation failed",
		zap.Int("fragments", fragments),
		zap.Error(err),
	)

	return &GenerationError{Err: err}
}

func (s *QuizService) pause(ctx context.Context) error {
	if s.typingDelay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.typingDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
