package telegram

import (
	"strconv"
	"strings"
)

// Fixed callback payloads.
const (
	cbSubmitAnswer    = "submit_answer"
	cbStartNewQuiz    = "start_new_quiz"
	cbReviewWrong     = "review_wrong_answers"
	cbReviewWrongList = "review_wrong_answers_list"
	cbConfirmReset    = "confirm_reset"
	cbCancelReset     = "cancel_reset"
)

// Parameterized callback payload prefixes.
const (
	cbStartQuizPrefix         = "start_quiz_"
	cbSelectOptionPrefix      = "select_option_"
	cbReviewWrongDetailPrefix = "review_wrong_detail_"
)

type actionKind int

const (
	actionUnknown actionKind = iota
	actionStartQuiz
	actionSelectOption
	actionSubmitAnswer
	actionStartNewQuiz
	actionReviewWrong
	actionReviewWrongDetail
	actionConfirmReset
	actionCancelReset
)

// action is a decoded callback payload. Raw payload strings never leave
// this package.
type action struct {
	Kind       actionKind
	Exam       string // actionStartQuiz
	Letter     string // actionSelectOption
	QuestionID int64  // actionReviewWrongDetail
}

// decodeAction parses callback data into a tagged action. Unparseable
// payloads come back as actionUnknown.
func decodeAction(data string) action {
	switch data {
	case cbSubmitAnswer:
		return action{Kind: actionSubmitAnswer}
	case cbStartNewQuiz:
		return action{Kind: actionStartNewQuiz}
	case cbReviewWrong, cbReviewWrongList:
		return action{Kind: actionReviewWrong}
	case cbConfirmReset:
		return action{Kind: actionConfirmReset}
	case cbCancelReset:
		return action{Kind: actionCancelReset}
	}

	if exam, ok := strings.CutPrefix(data, cbStartQuizPrefix); ok && exam != "" {
		return action{Kind: actionStartQuiz, Exam: exam}
	}

	if letter, ok := strings.CutPrefix(data, cbSelectOptionPrefix); ok && letter != "" {
		return action{Kind: actionSelectOption, Letter: letter}
	}

	if idStr, ok := strings.CutPrefix(data, cbReviewWrongDetailPrefix); ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return action{}
		}
		return action{Kind: actionReviewWrongDetail, QuestionID: id}
	}

	return action{}
}

func buildStartQuizCallback(exam string) string {
	return cbStartQuizPrefix + exam
}

func buildSelectOptionCallback(letter string) string {
	return cbSelectOptionPrefix + letter
}

func buildReviewWrongDetailCallback(questionID int64) string {
	return cbReviewWrongDetailPrefix + strconv.FormatInt(questionID, 10)
}
