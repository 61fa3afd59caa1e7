package service

import (
	"context"
	"sort"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres/repository"
)

type fakeQuestionRepo struct {
	byID  map[int64]*entities.Question
	queue []*entities.Question
}

func newFakeQuestionRepo(questions ...*entities.Question) *fakeQuestionRepo {
	byID := make(map[int64]*entities.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return &fakeQuestionRepo{byID: byID, queue: questions}
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, id int64) (*entities.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrQuestionNotFound
	}
	return q, nil
}

func (f *fakeQuestionRepo) PickRandom(_ context.Context, examType string) (*entities.Question, error) {
	for i, q := range f.queue {
		if q.ExamType == examType {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return q, nil
		}
	}
	return nil, repository.ErrQuestionNotFound
}

type fakeUserRepo struct {
	users map[int64]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entities.User)}
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *entities.User) error {
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdateState(_ context.Context, userID int64, state entities.UserState, currentQuestionID *int64) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.State = state
	user.CurrentQuestionID = currentQuestionID
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

type fakeAnswerRepo struct {
	events    []*entities.AnswerEvent
	usernames map[int64]string
	questions map[int64]*entities.Question
	appendErr error
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{
		usernames: make(map[int64]string),
		questions: make(map[int64]*entities.Question),
	}
}

func (f *fakeAnswerRepo) Append(_ context.Context, ev *entities.AnswerEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	clone := *ev
	f.events = append(f.events, &clone)
	return nil
}

func (f *fakeAnswerRepo) deleteByUser(userID int64) {
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.UserID != userID {
			kept = append(kept, ev)
		}
	}
	f.events = kept
}

func (f *fakeAnswerRepo) Stats(_ context.Context, userID int64) (repository.AnswerStats, error) {
	var stats repository.AnswerStats
	sum := 0
	for _, ev := range f.events {
		if ev.UserID != userID {
			continue
		}
		stats.Total++
		sum += ev.AnswerTimeSeconds
		if ev.IsCorrect {
			stats.Correct++
		}
	}
	if stats.Total > 0 {
		avg := float64(sum) / float64(stats.Total)
		stats.AvgSeconds = &avg
	}
	return stats, nil
}

func (f *fakeAnswerRepo) WrongAnswers(_ context.Context, userID int64, limit int) ([]repository.WrongAnswer, error) {
	var wrong []repository.WrongAnswer
	for i := len(f.events) - 1; i >= 0 && len(wrong) < limit; i-- {
		ev := f.events[i]
		if ev.UserID != userID || ev.IsCorrect {
			continue
		}
		w := repository.WrongAnswer{
			QuestionID: ev.QuestionID,
			UserAnswer: ev.UserAnswer,
			AnsweredAt: ev.CreatedAt,
		}
		if q, ok := f.questions[ev.QuestionID]; ok {
			w.QuestionText = q.Text
			w.CorrectAnswers = q.CorrectAnswers
		}
		wrong = append(wrong, w)
	}
	return wrong, nil
}

func (f *fakeAnswerRepo) LastWrongAnswer(_ context.Context, userID, questionID int64) (*entities.AnswerEvent, error) {
	for i := len(f.events) - 1; i >= 0; i-- {
		ev := f.events[i]
		if ev.UserID == userID && ev.QuestionID == questionID && !ev.IsCorrect {
			clone := *ev
			return &clone, nil
		}
	}
	return nil, repository.ErrAnswerNotFound
}

func (f *fakeAnswerRepo) Tallies(_ context.Context) ([]repository.AnswerTally, error) {
	byUser := make(map[int64]*repository.AnswerTally)
	var order []int64
	for _, ev := range f.events {
		t, ok := byUser[ev.UserID]
		if !ok {
			t = &repository.AnswerTally{UserID: ev.UserID, Username: f.usernames[ev.UserID]}
			byUser[ev.UserID] = t
			order = append(order, ev.UserID)
		}
		t.Total++
		if ev.IsCorrect {
			t.Correct++
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	tallies := make([]repository.AnswerTally, 0, len(order))
	for _, id := range order {
		tallies = append(tallies, *byUser[id])
	}
	return tallies, nil
}

type fakeResetter struct {
	answers       *fakeAnswerRepo
	calls         int
	questionsSeen []int // snapshot of sent-question count at each call
	notifier      *fakeNotifier
}

func (f *fakeResetter) ResetUser(_ context.Context, userID int64) error {
	f.calls++
	if f.notifier != nil {
		f.questionsSeen = append(f.questionsSeen, len(f.notifier.questions))
	}
	if f.answers != nil {
		f.answers.deleteByUser(userID)
	}
	return nil
}

type fakeNotifier struct {
	examChoices int
	questions   []QuestionView
	updates     []QuestionView
	verdicts    []AnswerVerdict
	summaries   []SessionSummary
	noQuestions int
	nextMsgID   int
}

func (f *fakeNotifier) SendExamChoice(context.Context, int64) error {
	f.examChoices++
	return nil
}

func (f *fakeNotifier) SendQuestion(_ context.Context, _ int64, view QuestionView) (entities.MessageRef, error) {
	f.questions = append(f.questions, view)
	f.nextMsgID++
	return entities.MessageRef{MessageID: f.nextMsgID}, nil
}

func (f *fakeNotifier) UpdateQuestion(_ context.Context, _ int64, _ entities.MessageRef, view QuestionView) error {
	f.updates = append(f.updates, view)
	return nil
}

func (f *fakeNotifier) SendVerdict(_ context.Context, _ int64, _ entities.MessageRef, verdict AnswerVerdict) error {
	f.verdicts = append(f.verdicts, verdict)
	return nil
}

func (f *fakeNotifier) SendSummary(_ context.Context, _ int64, summary SessionSummary) error {
	f.summaries = append(f.summaries, summary)
	return nil
}

func (f *fakeNotifier) SendNoQuestions(context.Context, int64) error {
	f.noQuestions++
	return nil
}

func midtermQuestion(id int64, options []string, correct ...string) *entities.Question {
	answerType := entities.AnswerSingle
	if len(correct) > 1 {
		answerType = entities.AnswerMultiple
	}
	return &entities.Question{
		ID:             id,
		Text:           "question",
		AnswerType:     answerType,
		CorrectAnswers: correct,
		Options:        options,
		ExamType:       entities.ExamMidterm,
	}
}
