package entities

import (
	"slices"
	"time"
)

// MessageRef points at the last question message sent to a user, so the
// bot can edit it in place. HasPhoto decides between caption and text edits.
type MessageRef struct {
	MessageID int
	HasPhoto  bool
}

// Session is the ephemeral per-user quiz-in-progress state. It lives in
// process memory only and is discarded on completion or restart; losing
// it is acceptable. The orchestrator owns and mutates it under the
// per-user lock.
type Session struct {
	UserID            int64
	ExamType          string
	Answered          int
	Correct           int
	StartedAt         time.Time
	QuestionStartedAt time.Time
	LastMessage       MessageRef
	Selected          map[string]bool // option letters accumulated for the current question
	PendingReset      bool
	LastActiveAt      time.Time
}

func NewSession(userID int64, examType string) *Session {
	now := time.Now()
	return &Session{
		UserID:            userID,
		ExamType:          examType,
		StartedAt:         now,
		QuestionStartedAt: now,
		Selected:          make(map[string]bool),
		LastActiveAt:      now,
	}
}

// Toggle flips the selection state of an option letter. Toggling the same
// letter twice restores the previous selection.
func (s *Session) Toggle(letter string) {
	if s.Selected[letter] {
		delete(s.Selected, letter)
		return
	}
	s.Selected[letter] = true
}

// SelectedLetters returns the accumulated selection in sorted order.
func (s *Session) SelectedLetters() []string {
	letters := make([]string, 0, len(s.Selected))
	for l := range s.Selected {
		letters = append(letters, l)
	}
	slices.Sort(letters)
	return letters
}

// ClearSelection resets the accumulator between questions.
func (s *Session) ClearSelection() {
	s.Selected = make(map[string]bool)
}

// Touch records activity for TTL sweeping.
func (s *Session) Touch(now time.Time) {
	s.LastActiveAt = now
}
