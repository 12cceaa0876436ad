package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/villager-test-bot/assets"
	"github.com/aliskhannn/villager-test-bot/internal/config"
	"github.com/aliskhannn/villager-test-bot/internal/delivery/telegram"
	"github.com/aliskhannn/villager-test-bot/internal/delivery/web"
	"github.com/aliskhannn/villager-test-bot/internal/infra/gemini"
	"github.com/aliskhannn/villager-test-bot/internal/infra/openai"
	"github.com/aliskhannn/villager-test-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/villager-test-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/villager-test-bot/internal/logger"
	"github.com/aliskhannn/villager-test-bot/internal/repository"
	"github.com/aliskhannn/villager-test-bot/internal/service"
	"github.com/aliskhannn/villager-test-bot/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments pass the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("application stopped", zap.Error(err))
	}

	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	questionRepo, err := repository.NewQuestionRepository(cfg.QuestionsPath, assets.Questions)
	if err != nil {
		return err
	}
	questions := questionRepo.GetAll()

	if _, ok := cfg.Generation.APIKey(); !ok {
		lg.Warn("generation credential is not set, submissions will be rejected",
			zap.String("backend", cfg.Generation.Backend),
		)
	}

	quizService := service.NewQuizService(
		newStreamer(cfg, lg),
		cfg.Generation,
		lg,
		cfg.Generation.TypingDelay,
	)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.TelegramAPIToken != "" {
		var userService telegram.UserService
		if cfg.DB.Enabled() {
			us, closeDB, err := newUserService(ctx, cfg, lg)
			if err != nil {
				return err
			}
			defer closeDB()
			userService = us
		}

		bot, err := newBot(cfg, lg)
		if err != nil {
			return err
		}

		sessions := storage.NewSessionStorage[int64](questions)
		handler := telegram.NewHandler(bot, lg, sessions, quizService, userService, cfg.Telegram.EditInterval)

		g.Go(func() error { return handler.Run(ctx) })
		g.Go(func() error { return sweepSessions(ctx, sessions, cfg.Session.IdleTTL, lg.With(zap.String("surface", "telegram"))) })
	}

	if cfg.HTTP.Addr != "" {
		sessions := storage.NewSessionStorage[string](questions)
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           web.NewRouter(lg, web.NewHandler(lg, sessions, quizService)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			lg.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error { return sweepSessions(ctx, sessions, cfg.Session.IdleTTL, lg.With(zap.String("surface", "web"))) })
	}

	return g.Wait()
}

func newStreamer(cfg *config.Config, lg *zap.Logger) service.Streamer {
	gen := cfg.Generation
	lg.Info("generation backend selected",
		zap.String("backend", gen.Backend),
		zap.String("model", gen.ModelOrDefault()),
	)

	if gen.Backend == config.BackendGemini {
		return gemini.NewClient(gemini.Config{
			BaseURL: gen.GeminiURL,
			Model:   gen.ModelOrDefault(),
			Timeout: gen.Timeout,
		}, gen, lg)
	}

	return openai.NewClient(openai.Config{
		BaseURL: gen.BaseURL,
		Model:   gen.ModelOrDefault(),
		Timeout: gen.Timeout,
	}, gen, lg)
}

func newBot(cfg *config.Config, lg *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "테스트 시작"},
		{Command: "reset", Description: "다시 테스트하기"},
		{Command: "help", Description: "도움말"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))
	return bot, nil
}

// newUserService connects the optional user registry and makes sure its
// schema exists.
func newUserService(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*service.UserService, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	err = postgres.NewTransactor(pool).WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return pgrepo.NewUserRepository(tx).EnsureSchema(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	lg.Info("user registry enabled")
	return service.NewUserService(pgrepo.NewUserRepository(pool), lg), pool.Close, nil
}

// sweepSessions drops idle sessions until ctx is done.
func sweepSessions[K comparable](ctx context.Context, sessions *storage.SessionStorage[K], ttl time.Duration, lg *zap.Logger) error {
	if ttl <= 0 {
		return nil
	}

	ticker := time.NewTicker(max(ttl/4, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := sessions.Sweep(ttl); n > 0 {
				lg.Info("idle sessions dropped",
					zap.Int("removed", n),
					zap.Int("remaining", sessions.Len()),
				)
			}
		}
	}
}
