package service

import "errors"

var (
	// ErrNotConfigured means the generation backend has no credential.
	ErrNotConfigured = errors.New("generation backend is not configured")
	// ErrIncompleteAnswers means at least one question is unanswered.
	ErrIncompleteAnswers = errors.New("not all questions are answered")
	// ErrNoResult means there is no committed result to share yet.
	ErrNoResult = errors.New("no result to share")
	// ErrClipboard wraps clipboard write failures.
	ErrClipboard = errors.New("clipboard write failed")
	// ErrInvalidSelection means a question or option index is outside the questionnaire.
	ErrInvalidSelection = errors.New("invalid question or option")
	// ErrStreamConsumed is yielded when a fragment stream is ranged over twice.
	ErrStreamConsumed = errors.New("stream already consumed")
)

// GenerationError reports a failure while establishing or consuming a stream.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
