package entities

import (
	"fmt"
	"time"
)

// SessionState is the position of a session in the submit flow.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateValidating SessionState = "validating"
	StateGenerating SessionState = "generating"
	StateComplete   SessionState = "complete"
	StateFailed     SessionState = "failed"
)

const unanswered = -1

// Session holds one user's answers and the latest generated result.
// Selections are kept as option indices so that identical option texts
// can never be confused when a view is restored.
type Session struct {
	questions []Question
	selected  [NumQuestions]int
	result    string
	hasResult bool

	State     SessionState
	UpdatedAt time.Time
}

// NewSession creates an empty session over the given question definitions.
func NewSession(questions []Question) *Session {
	if len(questions) != NumQuestions {
		panic(fmt.Sprintf("entities: session needs %d questions, got %d", NumQuestions, len(questions)))
	}

	s := &Session{questions: questions}
	s.Reset()
	return s
}

// Questions returns the question definitions the session was created with.
func (s *Session) Questions() []Question {
	return s.questions
}

// Get returns the option text selected for question i.
func (s *Session) Get(i int) (string, bool) {
	idx, ok := s.Selected(i)
	if !ok {
		return "", false
	}
	return s.questions[i].Options[idx], true
}

// Selected returns the option index selected for question i.
func (s *Session) Selected(i int) (int, bool) {
	s.checkQuestion(i)
	idx := s.selected[i]
	return idx, idx != unanswered
}

// Set records option as the answer to question i.
func (s *Session) Set(i, option int) {
	s.checkQuestion(i)
	if option < 0 || option >= len(s.questions[i].Options) {
		panic(fmt.Sprintf("entities: option %d out of range for question %d", option, i))
	}
	s.selected[i] = option
	s.touch()
}

// AllAnswered reports whether every question has a selection.
func (s *Session) AllAnswered() bool {
	for _, idx := range s.selected {
		if idx == unanswered {
			return false
		}
	}
	return true
}

// Answers resolves all selections to option texts in question order.
// Unanswered slots are returned as empty strings.
func (s *Session) Answers() []string {
	out := make([]string, NumQuestions)
	for i := range s.selected {
		out[i], _ = s.Get(i)
	}
	return out
}

// Result returns the committed result text and whether one exists.
func (s *Session) Result() (string, bool) {
	return s.result, s.hasResult
}

// BeginGeneration drops the previous result before a new generation pass.
func (s *Session) BeginGeneration() {
	s.result = ""
	s.hasResult = false
	s.State = StateGenerating
	s.touch()
}

// Commit stores a fully assembled result.
func (s *Session) Commit(text string) {
	s.result = text
	s.hasResult = true
	s.State = StateComplete
	s.touch()
}

// Reset restores the initial, unanswered state.
func (s *Session) Reset() {
	for i := range s.selected {
		s.selected[i] = unanswered
	}
	s.result = ""
	s.hasResult = false
	s.State = StateIdle
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

func (s *Session) checkQuestion(i int) {
	if i < 0 || i >= NumQuestions {
		panic(fmt.Sprintf("entities: question index %d out of range", i))
	}
}
