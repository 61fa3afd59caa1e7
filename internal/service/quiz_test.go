package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/storage"
)

type orchestratorEnv struct {
	orch     *Orchestrator
	users    *fakeUserRepo
	answers  *fakeAnswerRepo
	sessions *storage.SessionStore
	resetter *fakeResetter
	notifier *fakeNotifier
}

func newOrchestratorEnv(t *testing.T, quizLength int, questions ...*entities.Question) *orchestratorEnv {
	t.Helper()

	users := newFakeUserRepo()
	answers := newFakeAnswerRepo()
	sessions := storage.NewSessionStore()
	notifier := &fakeNotifier{}
	resetter := &fakeResetter{answers: answers, notifier: notifier}

	orch := NewOrchestrator(
		newFakeQuestionRepo(questions...),
		users,
		answers,
		sessions,
		resetter,
		notifier,
		zap.NewNop(),
		quizLength,
	)

	return &orchestratorEnv{
		orch:     orch,
		users:    users,
		answers:  answers,
		sessions: sessions,
		resetter: resetter,
		notifier: notifier,
	}
}

const testUserID = int64(100)

func startQuiz(t *testing.T, env *orchestratorEnv) {
	t.Helper()
	if err := env.orch.ChooseExam(context.Background(), testUserID, "tester", entities.ExamMidterm); err != nil {
		t.Fatalf("choose exam: %v", err)
	}
}

func TestChooseExamWipesHistoryBeforeFirstQuestion(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"Caravaggio", "Rembrandt"}, "Caravaggio"),
	)

	// Prior history from an earlier quiz.
	env.answers.events = append(env.answers.events,
		entities.NewAnswerEvent(testUserID, 99, "Rembrandt", false, 5),
	)

	startQuiz(t, env)

	if env.resetter.calls != 1 {
		t.Fatalf("expected one reset call, got %d", env.resetter.calls)
	}
	if env.resetter.questionsSeen[0] != 0 {
		t.Fatalf("expected reset before the first question was served")
	}
	if len(env.answers.events) != 0 {
		t.Fatalf("expected empty history after start, got %d events", len(env.answers.events))
	}

	stats, err := NewReporter(newFakeQuestionRepo(), env.answers).ComputeStatistics(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("compute statistics: %v", err)
	}
	if stats.Total != 0 || stats.Correct != 0 {
		t.Fatalf("expected zero statistics right after start, got %+v", stats)
	}

	if len(env.notifier.questions) != 1 {
		t.Fatalf("expected one question sent, got %d", len(env.notifier.questions))
	}
	user, err := env.users.GetByID(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.State != entities.StateWaitingForAnswer || user.CurrentQuestionID == nil {
		t.Fatalf("expected user waiting for answer, got %+v", user)
	}
}

func TestChooseExamRejectsUnknownTrack(t *testing.T) {
	env := newOrchestratorEnv(t, 10)

	err := env.orch.ChooseExam(context.Background(), testUserID, "tester", "pop-quiz")
	if !errors.Is(err, ErrUnknownExam) {
		t.Fatalf("expected ErrUnknownExam, got %v", err)
	}
	if env.resetter.calls != 0 {
		t.Fatalf("expected no reset on invalid track")
	}
}

func TestToggleTwiceRestoresSelection(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"a", "b", "c"}, "a"),
	)
	startQuiz(t, env)
	ctx := context.Background()

	if err := env.orch.ToggleOption(ctx, testUserID, "A"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.ToggleOption(ctx, testUserID, "C"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	session, _ := env.sessions.Get(testUserID)
	before := session.SelectedLetters()

	if err := env.orch.ToggleOption(ctx, testUserID, "B"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.ToggleOption(ctx, testUserID, "B"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	after := session.SelectedLetters()
	if !slices.Equal(before, after) {
		t.Fatalf("double toggle changed selection: before=%v after=%v", before, after)
	}

	// Every toggle re-renders the same message in place.
	if len(env.notifier.updates) != 4 {
		t.Fatalf("expected 4 in-place updates, got %d", len(env.notifier.updates))
	}
	last := env.notifier.updates[len(env.notifier.updates)-1]
	if !slices.Equal(last.Selected, []string{"A", "C"}) {
		t.Fatalf("expected rendered selection [A C], got %v", last.Selected)
	}
}

func TestToggleUnknownLetter(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"a", "b"}, "a"),
	)
	startQuiz(t, env)

	err := env.orch.ToggleOption(context.Background(), testUserID, "Z")
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestSubmitWithoutSelection(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"a", "b"}, "a"),
	)
	startQuiz(t, env)

	err := env.orch.Submit(context.Background(), testUserID)
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	session, _ := env.sessions.Get(testUserID)
	if session.Answered != 0 || session.Correct != 0 {
		t.Fatalf("expected untouched counters, got answered=%d correct=%d", session.Answered, session.Correct)
	}
	if len(env.answers.events) != 0 {
		t.Fatalf("expected no answer event, got %d", len(env.answers.events))
	}

	user, _ := env.users.GetByID(context.Background(), testUserID)
	if user.State != entities.StateWaitingForAnswer {
		t.Fatalf("expected user still waiting, got %s", user.State)
	}
}

func TestSubmitScoresSelectionAsSet(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1,
			[]string{"Fresco", "Villa Capra", "Pazzi", "Palazzo Pitti", "Hiçbiri"},
			"Fresco", "Hiçbiri",
		),
	)
	startQuiz(t, env)
	ctx := context.Background()

	// Select in reverse display order; set comparison must not care.
	if err := env.orch.ToggleOption(ctx, testUserID, "E"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.ToggleOption(ctx, testUserID, "A"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(env.answers.events) != 1 {
		t.Fatalf("expected one answer event, got %d", len(env.answers.events))
	}
	ev := env.answers.events[0]
	if !ev.IsCorrect {
		t.Fatalf("expected correct verdict for exact set match")
	}
	if ev.UserAnswer != "Fresco,Hiçbiri" {
		t.Fatalf("unexpected serialized answer: %q", ev.UserAnswer)
	}
	if len(env.notifier.verdicts) != 1 || !env.notifier.verdicts[0].IsCorrect {
		t.Fatalf("expected a correct verdict notification")
	}
}

func TestSubmitSubsetIsWrong(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"a", "b", "c"}, "a", "c"),
	)
	startQuiz(t, env)
	ctx := context.Background()

	if err := env.orch.ToggleOption(ctx, testUserID, "A"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if env.answers.events[0].IsCorrect {
		t.Fatalf("expected subset submission to be wrong")
	}
}

func TestSessionCompletesAfterQuizLength(t *testing.T) {
	env := newOrchestratorEnv(t, 2,
		midtermQuestion(1, []string{"a", "b"}, "a"),
		midtermQuestion(2, []string{"c", "d"}, "d"),
	)
	startQuiz(t, env)
	ctx := context.Background()

	if err := env.orch.ToggleOption(ctx, testUserID, "A"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Second question arrives numbered 2/2.
	if len(env.notifier.questions) != 2 {
		t.Fatalf("expected second question served, got %d", len(env.notifier.questions))
	}
	if env.notifier.questions[1].Number != 2 || env.notifier.questions[1].Total != 2 {
		t.Fatalf("unexpected question numbering: %+v", env.notifier.questions[1])
	}

	if err := env.orch.ToggleOption(ctx, testUserID, "B"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(env.notifier.summaries) != 1 {
		t.Fatalf("expected a session summary, got %d", len(env.notifier.summaries))
	}
	summary := env.notifier.summaries[0]
	if summary.Answered != 2 || summary.Correct != 2 || summary.Wrong != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.AccuracyPct != 100 {
		t.Fatalf("expected 100%% accuracy, got %v", summary.AccuracyPct)
	}

	if _, ok := env.sessions.Get(testUserID); ok {
		t.Fatalf("expected session cleared after completion")
	}

	// Any further interaction with the finished quiz is stale.
	if err := env.orch.ToggleOption(ctx, testUserID, "A"); !errors.Is(err, ErrStaleInteraction) {
		t.Fatalf("expected stale toggle after completion, got %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); !errors.Is(err, ErrStaleInteraction) {
		t.Fatalf("expected stale submit after completion, got %v", err)
	}
}

func TestQuizEndsEarlyWhenTrackExhausted(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"a", "b"}, "a"),
	)
	startQuiz(t, env)
	ctx := context.Background()

	if err := env.orch.ToggleOption(ctx, testUserID, "A"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if env.notifier.noQuestions != 0 {
		t.Fatalf("mid-session exhaustion is not an error notice")
	}
	if len(env.notifier.summaries) != 1 {
		t.Fatalf("expected early completion summary")
	}
	if got := env.notifier.summaries[0].Answered; got != 1 {
		t.Fatalf("expected summary over 1 answered question, got %d", got)
	}
}

func TestChooseExamWithEmptyTrack(t *testing.T) {
	env := newOrchestratorEnv(t, 10)
	startQuiz(t, env)

	if env.notifier.noQuestions != 1 {
		t.Fatalf("expected a no-questions notice")
	}
	if len(env.notifier.summaries) != 1 {
		t.Fatalf("expected synthesized completion")
	}
	if env.notifier.summaries[0].Answered != 0 {
		t.Fatalf("expected empty summary, got %+v", env.notifier.summaries[0])
	}
}

func TestStaleToggleWithoutSession(t *testing.T) {
	env := newOrchestratorEnv(t, 10)

	err := env.orch.ToggleOption(context.Background(), testUserID, "A")
	if !errors.Is(err, ErrStaleInteraction) {
		t.Fatalf("expected ErrStaleInteraction, got %v", err)
	}
}

func TestResetConfirmationFlow(t *testing.T) {
	env := newOrchestratorEnv(t, 10)
	ctx := context.Background()

	env.answers.events = append(env.answers.events,
		entities.NewAnswerEvent(testUserID, 1, "a", true, 3),
	)

	// Confirming without a pending request is stale.
	if err := env.orch.ConfirmReset(ctx, testUserID); !errors.Is(err, ErrStaleInteraction) {
		t.Fatalf("expected stale confirm, got %v", err)
	}
	if len(env.answers.events) != 1 {
		t.Fatalf("stale confirm must not delete anything")
	}

	if err := env.orch.RequestReset(ctx, testUserID); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if err := env.orch.ConfirmReset(ctx, testUserID); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if len(env.answers.events) != 0 {
		t.Fatalf("expected history wiped after confirm")
	}

	// The flag is disarmed; a second confirm is stale again.
	if err := env.orch.ConfirmReset(ctx, testUserID); !errors.Is(err, ErrStaleInteraction) {
		t.Fatalf("expected stale confirm after reset, got %v", err)
	}
}

func TestCancelResetKeepsHistory(t *testing.T) {
	env := newOrchestratorEnv(t, 10)
	ctx := context.Background()

	env.answers.events = append(env.answers.events,
		entities.NewAnswerEvent(testUserID, 1, "a", true, 3),
	)

	if err := env.orch.RequestReset(ctx, testUserID); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if err := env.orch.CancelReset(ctx, testUserID); err != nil {
		t.Fatalf("cancel reset: %v", err)
	}

	if len(env.answers.events) != 1 {
		t.Fatalf("cancel must keep history")
	}
	if err := env.orch.ConfirmReset(ctx, testUserID); !errors.Is(err, ErrStaleInteraction) {
		t.Fatalf("expected confirm after cancel to be stale, got %v", err)
	}
}

func TestAppendFailureDoesNotAbortQuiz(t *testing.T) {
	env := newOrchestratorEnv(t, 10,
		midtermQuestion(1, []string{"a", "b"}, "a"),
		midtermQuestion(2, []string{"c", "d"}, "c"),
	)
	startQuiz(t, env)
	ctx := context.Background()

	env.answers.appendErr = errors.New("disk full")

	if err := env.orch.ToggleOption(ctx, testUserID, "A"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.orch.Submit(ctx, testUserID); err != nil {
		t.Fatalf("submit should absorb event-log failures, got %v", err)
	}

	session, _ := env.sessions.Get(testUserID)
	if session.Answered != 1 {
		t.Fatalf("expected quiz to advance, answered=%d", session.Answered)
	}
	if len(env.notifier.questions) != 2 {
		t.Fatalf("expected next question despite append failure")
	}
}
