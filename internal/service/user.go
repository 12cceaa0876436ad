package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, logger: logger}
}

// EnsureUser records that the user was seen. It never touches quiz sessions.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	created, err := s.repository.Touch(ctx, entities.NewUser(userID, chatID))
	if err != nil {
		return err
	}

	if created {
		s.logger.Info("new user", zap.Int64("user_id", userID))
	}
	return nil
}
