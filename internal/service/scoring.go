package service

import (
	"art-history-quiz-bot/internal/domain/entities"
)

// Score compares a submitted set of option texts against the question's
// correct-answer set. The comparison is set equality: order-independent
// and duplicate-insensitive. A superset or subset of the correct answers
// is wrong. Pure; persistence is the caller's concern.
func Score(q *entities.Question, submitted []string) bool {
	want := make(map[string]struct{}, len(q.CorrectAnswers))
	for _, text := range q.CorrectAnswers {
		want[text] = struct{}{}
	}

	got := make(map[string]struct{}, len(submitted))
	for _, text := range submitted {
		got[text] = struct{}{}
	}

	if len(got) != len(want) {
		return false
	}
	for text := range got {
		if _, ok := want[text]; !ok {
			return false
		}
	}

	return true
}
