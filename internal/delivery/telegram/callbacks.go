package telegram

import (
	"context"
	"errors"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"art-history-quiz-bot/internal/service"
)

// handleCallback routes a decoded button press. Every press gets the
// callback answered exactly once; validation failures surface as alerts.
func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	var alert string

	switch act := decodeAction(cb.Data); act.Kind {
	case actionStartQuiz:
		h.editCallbackMessage(cb, md(msgStartingNewQuiz), nil)
		alert = h.quizAlert(cb, h.quizService.ChooseExam(ctx, userID, cb.From.UserName, act.Exam))

	case actionSelectOption:
		alert = h.quizAlert(cb, h.quizService.ToggleOption(ctx, userID, act.Letter))

	case actionSubmitAnswer:
		alert = h.quizAlert(cb, h.quizService.Submit(ctx, userID))

	case actionStartNewQuiz:
		h.editCallbackMessage(cb, md(msgStartingNewQuiz), nil)
		alert = h.quizAlert(cb, h.quizService.NewQuiz(ctx, userID))

	case actionReviewWrong:
		h.editCallbackMessage(cb, md(msgFetchingWrong), nil)
		if cb.Message != nil {
			_ = h.withErrorHandling(h.wrongAnswersHandler(userID))(ctx, cb.Message.Chat.ID)
		}

	case actionReviewWrongDetail:
		h.handleWrongDetail(ctx, cb, act.QuestionID)

	case actionConfirmReset:
		switch err := h.quizService.ConfirmReset(ctx, userID); {
		case err == nil:
			h.editCallbackMessage(cb, md(msgResetDone), nil)
		case errors.Is(err, service.ErrStaleInteraction):
			// Pressed on an outdated confirmation message.
		default:
			h.logger.Error("failed to confirm reset",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			alert = msgInternalError
		}

	case actionCancelReset:
		if err := h.quizService.CancelReset(ctx, userID); err == nil {
			h.editCallbackMessage(cb, md(msgResetCancelled), nil)
		}

	default:
		h.logger.Warn("unknown callback payload",
			zap.Int64("user_id", userID),
			zap.String("data", cb.Data),
		)
	}

	h.answerCallback(cb, alert)
}

// quizAlert maps an orchestrator error to the callback response: an
// alert text, an in-place stale notice, or nothing.
func (h *Handler) quizAlert(cb *tgbotapi.CallbackQuery, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrNoSelection):
		return msgPickAtLeastOne
	case errors.Is(err, service.ErrStaleInteraction):
		h.editCallbackMessage(cb, md(msgStaleQuestion), nil)
		return ""
	case errors.Is(err, service.ErrUnknownOption), errors.Is(err, service.ErrUnknownExam):
		h.logger.Warn("invalid quiz callback",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
		)
		return ""
	default:
		h.logger.Error("quiz callback failed",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		return msgInternalError
	}
}

func (h *Handler) handleWrongDetail(ctx context.Context, cb *tgbotapi.CallbackQuery, questionID int64) {
	detail, err := h.statsService.WrongDetail(ctx, cb.From.ID, questionID)
	if err != nil {
		h.logger.Warn("wrong answer detail unavailable",
			zap.Int64("user_id", cb.From.ID),
			zap.Int64("question_id", questionID),
			zap.Error(err),
		)
		h.editCallbackMessage(cb, md(msgWrongDetailMissing), nil)
		return
	}

	kb := buildWrongDetailKeyboard()
	h.editCallbackMessage(cb, formatWrongDetail(detail), &kb)

	// The detail text replaces the list message, so the question image
	// goes out separately.
	if path := detail.Question.ImagePath; path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			photo := tgbotapi.NewPhoto(cb.From.ID, tgbotapi.FilePath(path))
			h.send(photo)
		}
	}
}

// editCallbackMessage rewrites the message the button lives on,
// caption-aware for photo messages.
func (h *Handler) editCallbackMessage(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	if len(cb.Message.Photo) > 0 {
		edit := tgbotapi.NewEditMessageCaption(chatID, cb.Message.MessageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdownV2
		edit.ReplyMarkup = kb
		h.sendEdit(edit)
		return
	}

	edit := newEdit(chatID, cb.Message.MessageID, text)
	edit.ReplyMarkup = kb
	h.sendEdit(edit)
}

func (h *Handler) sendEdit(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil && !isNotModified(err) {
		h.logger.Error("failed to edit telegram message",
			zap.Error(err),
		)
	}
}

// answerCallback removes the user's "clock", with an alert when set.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, alert string) {
	answer := tgbotapi.NewCallback(cb.ID, "")
	if alert != "" {
		answer = tgbotapi.NewCallbackWithAlert(cb.ID, alert)
	}
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("failed to answer callback",
			zap.String("callback_id", cb.ID),
			zap.Error(err),
		)
	}
}
