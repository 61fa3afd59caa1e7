package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"art-history-quiz-bot/internal/service"
)

type QuizService interface {
	Start(ctx context.Context, userID int64, username string) error
	ChooseExam(ctx context.Context, userID int64, username, examType string) error
	AskQuestion(ctx context.Context, userID int64) error
	NewQuiz(ctx context.Context, userID int64) error
	ToggleOption(ctx context.Context, userID int64, letter string) error
	Submit(ctx context.Context, userID int64) error
	RequestReset(ctx context.Context, userID int64) error
	ConfirmReset(ctx context.Context, userID int64) error
	CancelReset(ctx context.Context, userID int64) error
}

type StatsService interface {
	ComputeStatistics(ctx context.Context, userID int64) (service.Statistics, error)
	ListRecentWrong(ctx context.Context, userID int64, limit int) ([]service.WrongSummary, error)
	WrongDetail(ctx context.Context, userID, questionID int64) (*service.WrongDetail, error)
	Leaderboard(ctx context.Context, limit int) ([]service.LeaderboardEntry, error)
}

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	quizService     QuizService
	statsService    StatsService
	feedbackAdminID int64
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	quizService QuizService,
	statsService StatsService,
	feedbackAdminID int64,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		quizService:     quizService,
		statsService:    statsService,
		feedbackAdminID: feedbackAdminID,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.startHandler(from))(ctx, chatID)

		case "soru":
			_ = h.withErrorHandling(h.askQuestionHandler(from.ID))(ctx, chatID)

		case "istatistik":
			_ = h.withErrorHandling(h.statisticsHandler(from.ID))(ctx, chatID)

		case "yanlislarim":
			_ = h.withErrorHandling(h.wrongAnswersHandler(from.ID))(ctx, chatID)

		case "sifirla":
			_ = h.withErrorHandling(h.resetHandler(from.ID))(ctx, chatID)

		case "liderler":
			_ = h.withErrorHandling(h.leaderboardHandler())(ctx, chatID)

		case "geri_bildirim":
			h.handleFeedback(chatID, from, update.Message.CommandArguments())

		default:
			h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		return
	}

	// Free text outside a command. The quiz is driven entirely by
	// buttons, so just point the user back.
	h.send(newPlainMessage(chatID, msgNotWaiting))
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
