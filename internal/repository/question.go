package repository

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

var ErrInvalidQuestions = errors.New("invalid question definitions")

// QuestionRepository provides the immutable questionnaire.
type QuestionRepository struct {
	questions []entities.Question
}

// NewQuestionRepository loads questions from path, or from the embedded
// default when path is empty.
func NewQuestionRepository(path string, fallback []byte) (*QuestionRepository, error) {
	data := fallback
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read questions: %w", err)
		}
	}

	questions, err := parseQuestions(data)
	if err != nil {
		return nil, err
	}

	return &QuestionRepository{questions: questions}, nil
}

// GetAll returns the questions in display order.
func (r *QuestionRepository) GetAll() []entities.Question {
	return r.questions
}

func parseQuestions(data []byte) ([]entities.Question, error) {
	var wrapper struct {
		Questions []entities.Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions YAML: %w", err)
	}

	if len(wrapper.Questions) != entities.NumQuestions {
		return nil, fmt.Errorf("%w: expected %d questions, got %d",
			ErrInvalidQuestions, entities.NumQuestions, len(wrapper.Questions))
	}

	for i, q := range wrapper.Questions {
		if q.Prompt == "" {
			return nil, fmt.Errorf("%w: question %d has no prompt", ErrInvalidQuestions, i+1)
		}
		if len(q.Options) != entities.NumOptions {
			return nil, fmt.Errorf("%w: question %d has %d options, want %d",
				ErrInvalidQuestions, i+1, len(q.Options), entities.NumOptions)
		}
	}

	return wrapper.Questions, nil
}
