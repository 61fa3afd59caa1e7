package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres/repository"
)

func TestComputeStatisticsEmptyHistory(t *testing.T) {
	reporter := NewReporter(newFakeQuestionRepo(), newFakeAnswerRepo())

	stats, err := reporter.ComputeStatistics(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("compute statistics: %v", err)
	}

	if stats.Total != 0 || stats.Correct != 0 || stats.Wrong != 0 {
		t.Fatalf("expected zero counters, got %+v", stats)
	}
	if stats.AccuracyPct != 0 {
		t.Fatalf("expected zero accuracy, got %v", stats.AccuracyPct)
	}
	if stats.AvgSeconds != nil {
		t.Fatalf("expected nil average time, got %v", *stats.AvgSeconds)
	}
}

func TestComputeStatistics(t *testing.T) {
	answers := newFakeAnswerRepo()
	answers.events = []*entities.AnswerEvent{
		entities.NewAnswerEvent(testUserID, 1, "a", true, 4),
		entities.NewAnswerEvent(testUserID, 2, "b", false, 8),
		entities.NewAnswerEvent(testUserID, 3, "c", true, 6),
		entities.NewAnswerEvent(999, 1, "a", true, 1), // another user
	}

	stats, err := NewReporter(newFakeQuestionRepo(), answers).ComputeStatistics(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("compute statistics: %v", err)
	}

	if stats.Total != 3 || stats.Correct != 2 || stats.Wrong != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.AccuracyPct < 66.6 || stats.AccuracyPct > 66.7 {
		t.Fatalf("unexpected accuracy: %v", stats.AccuracyPct)
	}
	if stats.AvgSeconds == nil || *stats.AvgSeconds != 6 {
		t.Fatalf("unexpected average time: %v", stats.AvgSeconds)
	}
}

func TestListRecentWrong(t *testing.T) {
	longPrompt := strings.Repeat("Bizans mimarisinde ", 5) + "hangi yapı öne çıkar?"

	answers := newFakeAnswerRepo()
	answers.questions[1] = &entities.Question{ID: 1, Text: longPrompt, CorrectAnswers: []string{"Ayasofya"}}
	answers.questions[2] = &entities.Question{ID: 2, Text: "Kısa soru", CorrectAnswers: []string{"Rotunda", "Kubbeli Bazilika"}}
	answers.events = []*entities.AnswerEvent{
		entities.NewAnswerEvent(testUserID, 1, "Kariye", false, 5),
		entities.NewAnswerEvent(testUserID, 2, "Transept", false, 5),
		entities.NewAnswerEvent(testUserID, 2, "Rotunda", true, 5),
	}

	summaries, err := NewReporter(newFakeQuestionRepo(), answers).ListRecentWrong(context.Background(), testUserID, 0)
	if err != nil {
		t.Fatalf("list recent wrong: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 mistakes, got %d", len(summaries))
	}

	// Newest first.
	if summaries[0].QuestionID != 2 || summaries[1].QuestionID != 1 {
		t.Fatalf("unexpected order: %+v", summaries)
	}
	if summaries[0].CorrectAnswer != "Kubbeli Bazilika,Rotunda" {
		t.Fatalf("expected sorted joined correct answers, got %q", summaries[0].CorrectAnswer)
	}

	truncated := summaries[1].Summary
	if !strings.HasSuffix(truncated, "...") {
		t.Fatalf("expected truncated summary, got %q", truncated)
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(truncated, "...")); got != summaryMaxRunes {
		t.Fatalf("expected %d-rune summary, got %d", summaryMaxRunes, got)
	}
}

func TestListRecentWrongLimit(t *testing.T) {
	answers := newFakeAnswerRepo()
	for i := int64(1); i <= 15; i++ {
		answers.events = append(answers.events,
			entities.NewAnswerEvent(testUserID, i, "x", false, 5))
	}

	summaries, err := NewReporter(newFakeQuestionRepo(), answers).ListRecentWrong(context.Background(), testUserID, 0)
	if err != nil {
		t.Fatalf("list recent wrong: %v", err)
	}
	if len(summaries) != defaultWrongLimit {
		t.Fatalf("expected default limit %d, got %d", defaultWrongLimit, len(summaries))
	}
}

func TestWrongDetailResolvesStoredAnswer(t *testing.T) {
	question := &entities.Question{
		ID:             7,
		Text:           "Gotik katedrallerin ayırt edici öğesi hangisidir?",
		CorrectAnswers: []string{"Uçan payanda"},
		Options:        []string{"Uçan payanda", "Pandantif", "Tromp"},
	}

	answers := newFakeAnswerRepo()
	answers.events = []*entities.AnswerEvent{
		entities.NewAnswerEvent(testUserID, 7, "Pandantif,Tromp", false, 5),
	}

	detail, err := NewReporter(newFakeQuestionRepo(question), answers).WrongDetail(context.Background(), testUserID, 7)
	if err != nil {
		t.Fatalf("wrong detail: %v", err)
	}

	if detail.Question.ID != 7 {
		t.Fatalf("unexpected question: %+v", detail.Question)
	}
	if len(detail.UserAnswer) != 2 {
		t.Fatalf("expected 2 resolved options, got %d", len(detail.UserAnswer))
	}
	first := detail.UserAnswer[0]
	if !first.Resolved || first.Label != "B" || first.Text != "Pandantif" {
		t.Fatalf("unexpected resolution: %+v", first)
	}
}

func TestWrongDetailKeepsUnresolvedAnswers(t *testing.T) {
	question := &entities.Question{
		ID:      7,
		Text:    "soru",
		Options: []string{"a", "b"},
	}

	answers := newFakeAnswerRepo()
	answers.events = []*entities.AnswerEvent{
		entities.NewAnswerEvent(testUserID, 7, "edited away", false, 5),
	}

	detail, err := NewReporter(newFakeQuestionRepo(question), answers).WrongDetail(context.Background(), testUserID, 7)
	if err != nil {
		t.Fatalf("wrong detail: %v", err)
	}

	if len(detail.UserAnswer) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(detail.UserAnswer))
	}
	if detail.UserAnswer[0].Resolved {
		t.Fatalf("expected unresolved entry, got %+v", detail.UserAnswer[0])
	}
	if detail.UserAnswer[0].Text != "edited away" {
		t.Fatalf("expected raw stored text, got %q", detail.UserAnswer[0].Text)
	}
}

func TestWrongDetailWithoutMistake(t *testing.T) {
	question := &entities.Question{ID: 7, Text: "soru", Options: []string{"a"}}

	_, err := NewReporter(newFakeQuestionRepo(question), newFakeAnswerRepo()).WrongDetail(context.Background(), testUserID, 7)
	if !errors.Is(err, repository.ErrAnswerNotFound) {
		t.Fatalf("expected ErrAnswerNotFound, got %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	answers := newFakeAnswerRepo()
	answers.usernames = map[int64]string{1: "ayşe", 2: "berk", 3: "ceren", 4: "deniz"}

	record := func(userID int64, correct, wrong int) {
		for i := 0; i < correct; i++ {
			answers.events = append(answers.events,
				entities.NewAnswerEvent(userID, int64(i+1), "x", true, 5))
		}
		for i := 0; i < wrong; i++ {
			answers.events = append(answers.events,
				entities.NewAnswerEvent(userID, int64(i+1), "y", false, 5))
		}
	}

	record(1, 5, 2) // 5/7
	record(2, 5, 1) // 5/6 — wins the tie on fewer total
	record(3, 3, 0) // 3/3
	record(4, 0, 2) // no correct answers, excluded

	entries, err := NewReporter(newFakeQuestionRepo(), answers).Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	want := []LeaderboardEntry{
		{Rank: 1, Username: "berk", Correct: 5, Total: 6},
		{Rank: 2, Username: "ayşe", Correct: 5, Total: 7},
		{Rank: 3, Username: "ceren", Correct: 3, Total: 3},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestLeaderboardLimit(t *testing.T) {
	answers := newFakeAnswerRepo()
	for userID := int64(1); userID <= 12; userID++ {
		answers.usernames[userID] = "user"
		answers.events = append(answers.events,
			entities.NewAnswerEvent(userID, 1, "x", true, 5))
	}

	entries, err := NewReporter(newFakeQuestionRepo(), answers).Leaderboard(context.Background(), 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != defaultLeaderboard {
		t.Fatalf("expected default limit %d, got %d", defaultLeaderboard, len(entries))
	}
}
