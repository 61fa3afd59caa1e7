package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres/repository"
)

var (
	// ErrStaleInteraction marks an action received outside the expected
	// state: a button press after the session completed or after the
	// message went stale. Nothing is mutated.
	ErrStaleInteraction = errors.New("stale interaction")

	// ErrNoSelection marks a submit with an empty selection set.
	ErrNoSelection = errors.New("no option selected")

	ErrUnknownExam   = errors.New("unknown exam track")
	ErrUnknownOption = errors.New("unknown option letter")
)

// Orchestrator drives the quiz session state machine: exam choice,
// question presentation, option accumulation, scoring and completion.
// Every exported method runs under the per-user lock; cross-user actions
// are independent.
type Orchestrator struct {
	questions QuestionRepository
	users     UserRepository
	answers   AnswerRepository
	sessions  SessionStore
	resetter  StatsResetter
	notifier  Notifier
	logger    *zap.Logger

	quizLength int
	now        func() time.Time
}

func NewOrchestrator(
	questions QuestionRepository,
	users UserRepository,
	answers AnswerRepository,
	sessions SessionStore,
	resetter StatsResetter,
	notifier Notifier,
	logger *zap.Logger,
	quizLength int,
) *Orchestrator {
	return &Orchestrator{
		questions:  questions,
		users:      users,
		answers:    answers,
		sessions:   sessions,
		resetter:   resetter,
		notifier:   notifier,
		logger:     logger,
		quizLength: quizLength,
		now:        time.Now,
	}
}

// Start registers the user and offers the exam track choice. No session
// counters exist yet.
func (o *Orchestrator) Start(ctx context.Context, userID int64, username string) error {
	defer o.lock(userID)()

	user := entities.NewUser(userID, username)
	user.State = entities.StateMainMenu
	if err := o.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	return nil
}

// ChooseExam starts a quiz on the chosen track. Starting a quiz wipes the
// user's prior answer history first, so the leaderboard never mixes stale
// tracks; this reset-and-start coupling is deliberate.
func (o *Orchestrator) ChooseExam(ctx context.Context, userID int64, username, examType string) error {
	defer o.lock(userID)()

	if !entities.ValidExamType(examType) {
		return ErrUnknownExam
	}

	user := entities.NewUser(userID, username)
	user.State = entities.StateMainMenu
	if err := o.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	if err := o.resetter.ResetUser(ctx, userID); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}

	session := o.sessions.Create(userID, examType)
	now := o.now()
	session.StartedAt = now
	session.QuestionStartedAt = now
	session.Touch(now)

	return o.serveQuestion(ctx, session)
}

// AskQuestion serves the next question of the active session, or offers
// the exam choice when no session exists.
func (o *Orchestrator) AskQuestion(ctx context.Context, userID int64) error {
	defer o.lock(userID)()

	session, ok := o.sessions.Get(userID)
	if !ok || session.ExamType == "" {
		o.notify(userID, o.notifier.SendExamChoice(ctx, userID))
		return nil
	}

	return o.serveQuestion(ctx, session)
}

// NewQuiz discards any current session and offers a fresh exam choice.
func (o *Orchestrator) NewQuiz(ctx context.Context, userID int64) error {
	defer o.lock(userID)()

	o.sessions.Clear(userID)
	o.notify(userID, o.notifier.SendExamChoice(ctx, userID))
	return nil
}

// ToggleOption flips one option letter in the current selection and
// re-renders the question message in place. Idempotent on double toggle.
func (o *Orchestrator) ToggleOption(ctx context.Context, userID int64, letter string) error {
	defer o.lock(userID)()

	session, question, err := o.activeQuestion(ctx, userID)
	if err != nil {
		return err
	}

	if _, ok := question.OptionByLetter(letter); !ok {
		return ErrUnknownOption
	}

	session.Toggle(letter)
	session.Touch(o.now())

	view := o.questionView(session, question)
	o.notify(userID, o.notifier.UpdateQuestion(ctx, userID, session.LastMessage, view))
	return nil
}

// Submit scores the accumulated selection against the current question,
// records the outcome and either advances to the next question or
// completes the session.
func (o *Orchestrator) Submit(ctx context.Context, userID int64) error {
	defer o.lock(userID)()

	session, question, err := o.activeQuestion(ctx, userID)
	if err != nil {
		return err
	}

	letters := session.SelectedLetters()
	if len(letters) == 0 {
		return ErrNoSelection
	}

	texts := make([]string, 0, len(letters))
	for _, letter := range letters {
		text, ok := question.OptionByLetter(letter)
		if !ok {
			continue
		}
		texts = append(texts, text)
	}

	isCorrect := Score(question, texts)
	now := o.now()
	elapsed := int(now.Sub(session.QuestionStartedAt).Seconds())

	ev := entities.NewAnswerEvent(userID, question.ID, entities.JoinAnswers(texts), isCorrect, elapsed)
	ev.CreatedAt = now
	if err := o.answers.Append(ctx, ev); err != nil {
		// Event logging is non-critical; the quiz goes on.
		o.logger.Warn("failed to append answer event",
			zap.Int64("user_id", userID),
			zap.Int64("question_id", question.ID),
			zap.Error(err),
		)
	}

	session.Answered++
	if isCorrect {
		session.Correct++
	}
	session.ClearSelection()
	session.QuestionStartedAt = now
	session.Touch(now)

	if err := o.users.UpdateState(ctx, userID, entities.StateMainMenu, nil); err != nil {
		return fmt.Errorf("leave question state: %w", err)
	}

	verdict := AnswerVerdict{
		QuestionText:   question.Text,
		IsCorrect:      isCorrect,
		CorrectAnswers: question.CorrectAnswers,
		Explanation:    question.Explanation,
	}
	o.notify(userID, o.notifier.SendVerdict(ctx, userID, session.LastMessage, verdict))

	if session.Answered >= o.quizLength {
		return o.complete(ctx, session)
	}

	return o.serveQuestion(ctx, session)
}

// RequestReset arms the two-step reset confirmation.
func (o *Orchestrator) RequestReset(ctx context.Context, userID int64) error {
	defer o.lock(userID)()

	session := o.sessions.GetOrCreate(userID)
	session.PendingReset = true
	session.Touch(o.now())
	return nil
}

// ConfirmReset wipes the user's answer history. Without a prior
// RequestReset the confirmation is stale and nothing happens.
func (o *Orchestrator) ConfirmReset(ctx context.Context, userID int64) error {
	defer o.lock(userID)()

	session, ok := o.sessions.Get(userID)
	if !ok || !session.PendingReset {
		return ErrStaleInteraction
	}

	if err := o.resetter.ResetUser(ctx, userID); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}

	o.disarmReset(session)
	return nil
}

// CancelReset disarms a pending reset confirmation.
func (o *Orchestrator) CancelReset(ctx context.Context, userID int64) error {
	defer o.lock(userID)()

	session, ok := o.sessions.Get(userID)
	if !ok || !session.PendingReset {
		return ErrStaleInteraction
	}

	o.disarmReset(session)
	return nil
}

func (o *Orchestrator) disarmReset(session *entities.Session) {
	session.PendingReset = false
	// A session created only to carry the flag has no quiz to go back to.
	if session.ExamType == "" {
		o.sessions.Clear(session.UserID)
	}
}

// serveQuestion picks a random question from the session's track and
// presents it. An exhausted track ends the quiz early as if completed.
func (o *Orchestrator) serveQuestion(ctx context.Context, session *entities.Session) error {
	question, err := o.questions.PickRandom(ctx, session.ExamType)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			if session.Answered == 0 {
				o.notify(session.UserID, o.notifier.SendNoQuestions(ctx, session.UserID))
			}
			return o.complete(ctx, session)
		}
		return fmt.Errorf("pick question: %w", err)
	}

	if err := o.users.UpdateState(ctx, session.UserID, entities.StateWaitingForAnswer, &question.ID); err != nil {
		return fmt.Errorf("enter question state: %w", err)
	}

	now := o.now()
	session.ClearSelection()
	session.QuestionStartedAt = now
	session.Touch(now)

	view := o.questionView(session, question)
	ref, err := o.notifier.SendQuestion(ctx, session.UserID, view)
	if err != nil {
		o.logger.Error("failed to send question",
			zap.Int64("user_id", session.UserID),
			zap.Int64("question_id", question.ID),
			zap.Error(err),
		)
		return nil
	}
	session.LastMessage = ref

	return nil
}

// complete emits the session summary and tears the session down.
func (o *Orchestrator) complete(ctx context.Context, session *entities.Session) error {
	summary := SessionSummary{
		Answered:        session.Answered,
		Correct:         session.Correct,
		Wrong:           session.Answered - session.Correct,
		DurationSeconds: int(o.now().Sub(session.StartedAt).Seconds()),
	}
	if summary.Answered > 0 {
		summary.AccuracyPct = float64(summary.Correct) / float64(summary.Answered) * 100
	}

	o.sessions.Clear(session.UserID)

	if err := o.users.UpdateState(ctx, session.UserID, entities.StateMainMenu, nil); err != nil {
		return fmt.Errorf("leave session: %w", err)
	}

	o.notify(session.UserID, o.notifier.SendSummary(ctx, session.UserID, summary))
	return nil
}

// activeQuestion is the stale-interaction guard: the persisted user state
// must be waiting_for_answer with a current question, and a live session
// must exist. Anything else is rejected without mutation.
func (o *Orchestrator) activeQuestion(ctx context.Context, userID int64) (*entities.Session, *entities.Question, error) {
	user, err := o.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrStaleInteraction
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if user.State != entities.StateWaitingForAnswer || user.CurrentQuestionID == nil {
		return nil, nil, ErrStaleInteraction
	}

	session, ok := o.sessions.Get(userID)
	if !ok || session.ExamType == "" {
		return nil, nil, ErrStaleInteraction
	}

	question, err := o.questions.GetByID(ctx, *user.CurrentQuestionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load current question: %w", err)
	}

	return session, question, nil
}

func (o *Orchestrator) questionView(session *entities.Session, question *entities.Question) QuestionView {
	return QuestionView{
		Number:    session.Answered + 1,
		Total:     o.quizLength,
		Text:      question.Text,
		ImagePath: question.ImagePath,
		Options:   question.Options,
		Selected:  session.SelectedLetters(),
	}
}

func (o *Orchestrator) lock(userID int64) func() {
	lock := o.sessions.UserLock(userID)
	lock.Lock()
	return lock.Unlock
}

// notify logs a delivery failure and moves on. The transport is
// fire-and-forget; the next interaction resynchronizes the user.
func (o *Orchestrator) notify(userID int64, err error) {
	if err == nil {
		return
	}
	o.logger.Error("failed to deliver notification",
		zap.Int64("user_id", userID),
		zap.Error(err),
	)
}
