package entities

import (
	"slices"
	"strings"
	"time"
)

// AnswerEvent is an immutable record of one submitted answer.
// Events are append-only and only ever deleted in bulk on a reset.
type AnswerEvent struct {
	ID                int64
	UserID            int64
	QuestionID        int64
	UserAnswer        string // comma-joined sorted set of option texts
	IsCorrect         bool
	CreatedAt         time.Time
	AnswerTimeSeconds int
}

func NewAnswerEvent(userID, questionID int64, userAnswer string, isCorrect bool, elapsedSeconds int) *AnswerEvent {
	return &AnswerEvent{
		UserID:            userID,
		QuestionID:        questionID,
		UserAnswer:        userAnswer,
		IsCorrect:         isCorrect,
		CreatedAt:         time.Now(),
		AnswerTimeSeconds: elapsedSeconds,
	}
}

// JoinAnswers serializes a set of option texts: sorted, deduplicated,
// comma-joined. The serialization preserves set semantics.
func JoinAnswers(texts []string) string {
	set := slices.Clone(texts)
	slices.Sort(set)
	set = slices.Compact(set)
	return strings.Join(set, ",")
}

// SplitAnswers is the inverse of JoinAnswers.
func SplitAnswers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ResolvedOption is one element of a historical answer matched back
// against a question's current option list. When the option wording has
// changed since the answer was recorded, Resolved is false and Text
// carries the raw stored value.
type ResolvedOption struct {
	Label    string
	Text     string
	Resolved bool
}

// ResolveAnswers reconstructs the "Letter) text" display form of a stored
// answer against the current options. Best effort; unmatched texts come
// back unresolved.
func ResolveAnswers(stored string, options []string) []ResolvedOption {
	parts := SplitAnswers(stored)
	resolved := make([]ResolvedOption, 0, len(parts))
	for _, part := range parts {
		idx := slices.Index(options, part)
		if idx < 0 {
			resolved = append(resolved, ResolvedOption{Text: part})
			continue
		}
		resolved = append(resolved, ResolvedOption{
			Label:    OptionLetter(idx),
			Text:     part,
			Resolved: true,
		})
	}
	return resolved
}
