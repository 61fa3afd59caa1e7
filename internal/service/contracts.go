package service

import (
	"context"
	"sync"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres/repository"
)

type QuestionRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Question, error)
	PickRandom(ctx context.Context, examType string) (*entities.Question, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *entities.User) error
	UpdateState(ctx context.Context, userID int64, state entities.UserState, currentQuestionID *int64) error
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
}

type AnswerRepository interface {
	Append(ctx context.Context, ev *entities.AnswerEvent) error
	Stats(ctx context.Context, userID int64) (repository.AnswerStats, error)
	WrongAnswers(ctx context.Context, userID int64, limit int) ([]repository.WrongAnswer, error)
	LastWrongAnswer(ctx context.Context, userID, questionID int64) (*entities.AnswerEvent, error)
	Tallies(ctx context.Context) ([]repository.AnswerTally, error)
}

type SessionStore interface {
	UserLock(userID int64) *sync.Mutex
	Create(userID int64, examType string) *entities.Session
	Get(userID int64) (*entities.Session, bool)
	GetOrCreate(userID int64) *entities.Session
	Clear(userID int64)
}

// StatsResetter wipes a user's recorded answer history.
type StatsResetter interface {
	ResetUser(ctx context.Context, userID int64) error
}

// QuestionView is everything the transport needs to render a question
// message, including the current selection state.
type QuestionView struct {
	Number    int // 1-based position within the session
	Total     int
	Text      string
	ImagePath string
	Options   []string // plain texts in display order, labelled A, B, C… by the renderer
	Selected  []string // selected option letters, sorted
}

// AnswerVerdict is the outcome of one submitted answer.
type AnswerVerdict struct {
	QuestionText   string
	IsCorrect      bool
	CorrectAnswers []string
	Explanation    string
}

// SessionSummary describes a completed quiz session.
type SessionSummary struct {
	Answered        int
	Correct         int
	Wrong           int
	AccuracyPct     float64
	DurationSeconds int
}

// Notifier is the outbound side of the messaging transport. Deliveries
// are fire-and-forget from the orchestrator's perspective: failures are
// logged, never propagated, and the next interaction resynchronizes.
type Notifier interface {
	SendExamChoice(ctx context.Context, userID int64) error
	SendQuestion(ctx context.Context, userID int64, view QuestionView) (entities.MessageRef, error)
	UpdateQuestion(ctx context.Context, userID int64, ref entities.MessageRef, view QuestionView) error
	SendVerdict(ctx context.Context, userID int64, ref entities.MessageRef, verdict AnswerVerdict) error
	SendSummary(ctx context.Context, userID int64, summary SessionSummary) error
	SendNoQuestions(ctx context.Context, userID int64) error
}
