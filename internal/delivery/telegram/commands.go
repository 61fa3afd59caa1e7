package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) startHandler(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.quizService.Start(ctx, from.ID, from.UserName); err != nil {
			return fmt.Errorf("start: %w", err)
		}

		h.send(newMessage(chatID, formatWelcome(from.FirstName)))
		return nil
	}
}

func (h *Handler) askQuestionHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.quizService.AskQuestion(ctx, userID); err != nil {
			return fmt.Errorf("ask question: %w", err)
		}
		return nil
	}
}

func (h *Handler) statisticsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.statsService.ComputeStatistics(ctx, userID)
		if err != nil {
			return fmt.Errorf("statistics: %w", err)
		}

		h.send(newMessage(chatID, formatStatistics(stats)))
		return nil
	}
}

func (h *Handler) wrongAnswersHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summaries, err := h.statsService.ListRecentWrong(ctx, userID, 0)
		if err != nil {
			return fmt.Errorf("wrong answers: %w", err)
		}

		if len(summaries) == 0 {
			h.send(newPlainMessage(chatID, msgNoWrongAnswers))
			return nil
		}

		msg := newMessage(chatID, formatWrongList(summaries))
		msg.ReplyMarkup = buildWrongListKeyboard(summaries)
		h.send(msg)
		return nil
	}
}

func (h *Handler) resetHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.quizService.RequestReset(ctx, userID); err != nil {
			return fmt.Errorf("request reset: %w", err)
		}

		msg := newPlainMessage(chatID, msgResetPrompt)
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) leaderboardHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		entries, err := h.statsService.Leaderboard(ctx, 0)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}

		h.send(newMessage(chatID, formatLeaderboard(entries)))
		return nil
	}
}

// handleFeedback forwards the user's message to the configured admin
// chat. Without an admin chat the feature is disabled.
func (h *Handler) handleFeedback(chatID int64, from *tgbotapi.User, text string) {
	if h.feedbackAdminID == 0 {
		h.send(newPlainMessage(chatID, msgFeedbackDisabled))
		return
	}

	if text == "" {
		h.send(newPlainMessage(chatID, msgFeedbackUsage))
		return
	}

	msg := newMessage(h.feedbackAdminID, formatFeedback(from.ID, from.UserName, text))
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("failed to forward feedback",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
		h.send(newPlainMessage(chatID, msgFeedbackFailed))
		return
	}

	h.send(newPlainMessage(chatID, msgFeedbackThanks))
}
