package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"art-history-quiz-bot/internal/config"
	"art-history-quiz-bot/internal/delivery/telegram"
	"art-history-quiz-bot/internal/infra/postgres"
	"art-history-quiz-bot/internal/infra/postgres/repository"
	"art-history-quiz-bot/internal/logger"
	"art-history-quiz-bot/internal/service"
	"art-history-quiz-bot/internal/storage"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("init bot api: %w", err)
	}
	log.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	setBotCommands(bot, log)

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	questionRepo := repository.NewQuestionRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)

	resetService := service.NewResetService(postgres.NewTransactor(pool))
	sessions := storage.NewSessionStore()
	notifier := telegram.NewNotifier(bot, log)

	orchestrator := service.NewOrchestrator(
		questionRepo,
		userRepo,
		answerRepo,
		sessions,
		resetService,
		notifier,
		log,
		cfg.Quiz.Length,
	)
	reporter := service.NewReporter(questionRepo, answerRepo)

	sweeper := service.NewSessionSweeper(sessions, log, cfg.Quiz.SessionTTL)
	go sweeper.Start(ctx)

	handler := telegram.NewHandler(bot, log, orchestrator, reporter, cfg.FeedbackAdminID)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run handler: %w", err)
	}

	log.Info("shutdown signal received")
	return nil
}

func setBotCommands(bot *tgbotapi.BotAPI, log *zap.Logger) {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Botu başlat"},
		{Command: "soru", Description: "Yeni bir soru al"},
		{Command: "istatistik", Description: "Quiz istatistiklerini gör"},
		{Command: "yanlislarim", Description: "Son yanlış cevaplarını incele"},
		{Command: "sifirla", Description: "İstatistiklerini sıfırla"},
		{Command: "liderler", Description: "Lider tablosunu gör"},
		{Command: "geri_bildirim", Description: "Geri bildirim gönder"},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		log.Warn("failed to set bot commands", zap.Error(err))
	}
}
