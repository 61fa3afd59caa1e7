package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/service"
)

// buildExamChoiceKeyboard builds the exam track selection keyboard.
func buildExamChoiceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnMidterm, buildStartQuizCallback(entities.ExamMidterm)),
			tgbotapi.NewInlineKeyboardButtonData(btnFinal, buildStartQuizCallback(entities.ExamFinal)),
		),
	)
}

// buildQuestionKeyboard builds one button per option plus the submit
// button, checkmarking the current selection.
func buildQuestionKeyboard(view service.QuestionView) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Options)+1)
	for i, option := range view.Options {
		letter := entities.OptionLetter(i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(displayOption(i, option, view.Selected), buildSelectOptionCallback(letter)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnSubmit, cbSubmitAnswer),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildSummaryKeyboard builds the post-quiz navigation keyboard.
func buildSummaryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnNewQuiz, cbStartNewQuiz),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnReviewWrong, cbReviewWrong),
		),
	)
}

// buildWrongListKeyboard builds one inspect button per listed mistake.
func buildWrongListKeyboard(summaries []service.WrongSummary) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(summaries))
	for i, w := range summaries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf(btnInspectFormat, i+1),
				buildReviewWrongDetailCallback(w.QuestionID),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildWrongDetailKeyboard builds navigation out of a mistake detail view.
func buildWrongDetailKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnBackToWrong, cbReviewWrongList),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnNewQuiz, cbStartNewQuiz),
		),
	)
}

// buildResetKeyboard builds the reset confirmation keyboard.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnConfirmReset, cbConfirmReset),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnCancelReset, cbCancelReset),
		),
	)
}
