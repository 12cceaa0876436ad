package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/villager-test-bot/internal/config"
)

// New builds the application logger: JSON output in production, console output elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.Telegram.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("env", cfg.Env)), nil
}
