package telegram

import (
	"context"
	"fmt"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/service"
)

// Notifier implements the orchestrator's outbound side over the Bot API.
// The user ID doubles as the chat ID: the bot only runs in private chats.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewNotifier(bot *tgbotapi.BotAPI, logger *zap.Logger) *Notifier {
	return &Notifier{
		bot:    bot,
		logger: logger,
	}
}

func (n *Notifier) SendExamChoice(_ context.Context, userID int64) error {
	msg := newPlainMessage(userID, msgChooseExam)
	msg.ReplyMarkup = buildExamChoiceKeyboard()
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send exam choice: %w", err)
	}
	return nil
}

// SendQuestion sends the question as a photo with caption when the image
// exists on disk, otherwise as a plain text message.
func (n *Notifier) SendQuestion(_ context.Context, userID int64, view service.QuestionView) (entities.MessageRef, error) {
	text := formatQuestion(view)
	keyboard := buildQuestionKeyboard(view)

	if view.ImagePath != "" {
		if _, err := os.Stat(view.ImagePath); err == nil {
			photo := tgbotapi.NewPhoto(userID, tgbotapi.FilePath(view.ImagePath))
			photo.Caption = text
			photo.ParseMode = tgbotapi.ModeMarkdownV2
			photo.ReplyMarkup = keyboard

			sent, err := n.bot.Send(photo)
			if err != nil {
				return entities.MessageRef{}, fmt.Errorf("send question photo: %w", err)
			}
			return entities.MessageRef{MessageID: sent.MessageID, HasPhoto: true}, nil
		}
		n.logger.Warn("question image missing, sending text only",
			zap.String("image_path", view.ImagePath),
		)
	}

	msg := newMessage(userID, text)
	msg.ReplyMarkup = keyboard

	sent, err := n.bot.Send(msg)
	if err != nil {
		return entities.MessageRef{}, fmt.Errorf("send question: %w", err)
	}
	return entities.MessageRef{MessageID: sent.MessageID}, nil
}

// UpdateQuestion re-renders the question message in place after a
// selection change.
func (n *Notifier) UpdateQuestion(_ context.Context, userID int64, ref entities.MessageRef, view service.QuestionView) error {
	text := formatQuestion(view)
	keyboard := buildQuestionKeyboard(view)

	var err error
	if ref.HasPhoto {
		edit := tgbotapi.NewEditMessageCaption(userID, ref.MessageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdownV2
		edit.ReplyMarkup = &keyboard
		_, err = n.bot.Send(edit)
	} else {
		edit := newEdit(userID, ref.MessageID, text)
		edit.ReplyMarkup = &keyboard
		_, err = n.bot.Send(edit)
	}

	if err != nil && !isNotModified(err) {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

// SendVerdict replaces the question message with the scored result and
// strips the keyboard.
func (n *Notifier) SendVerdict(_ context.Context, userID int64, ref entities.MessageRef, verdict service.AnswerVerdict) error {
	text := formatVerdict(verdict)

	var err error
	if ref.HasPhoto {
		edit := tgbotapi.NewEditMessageCaption(userID, ref.MessageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdownV2
		_, err = n.bot.Send(edit)
	} else {
		_, err = n.bot.Send(newEdit(userID, ref.MessageID, text))
	}

	if err != nil && !isNotModified(err) {
		return fmt.Errorf("send verdict: %w", err)
	}
	return nil
}

func (n *Notifier) SendSummary(_ context.Context, userID int64, summary service.SessionSummary) error {
	msg := newMessage(userID, formatSummary(summary))
	msg.ReplyMarkup = buildSummaryKeyboard()
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

func (n *Notifier) SendNoQuestions(_ context.Context, userID int64) error {
	if _, err := n.bot.Send(newPlainMessage(userID, msgNoQuestions)); err != nil {
		return fmt.Errorf("send no questions notice: %w", err)
	}
	return nil
}

// isNotModified reports whether an edit failed only because the message
// content did not change. The Bot API rejects such edits; they are
// harmless here.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
