package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres/repository"
)

const (
	defaultWrongLimit  = 10
	summaryMaxRunes    = 50
	defaultLeaderboard = 10
)

// Statistics is a user's aggregated quiz history.
type Statistics struct {
	Total       int
	Correct     int
	Wrong       int
	AccuracyPct float64
	AvgSeconds  *float64 // nil when unavailable
}

// WrongSummary is one entry of the recent-mistakes list.
type WrongSummary struct {
	QuestionID    int64
	Summary       string // truncated first line of the prompt
	UserAnswer    string
	CorrectAnswer string
}

// WrongDetail is the full review of one past mistake. UserAnswer is the
// stored free-text answer reconciled against the question's current
// option list; entries that no longer match stay unresolved.
type WrongDetail struct {
	Question   *entities.Question
	UserAnswer []entities.ResolvedOption
}

// LeaderboardEntry ranks one user by correct answers.
type LeaderboardEntry struct {
	Rank     int
	Username string
	Correct  int
	Total    int
}

// Reporter is the read-only side over answer events: statistics, the
// wrong-answer review and the leaderboard. It never mutates anything.
type Reporter struct {
	questions QuestionRepository
	answers   AnswerRepository
}

func NewReporter(questions QuestionRepository, answers AnswerRepository) *Reporter {
	return &Reporter{
		questions: questions,
		answers:   answers,
	}
}

// ComputeStatistics aggregates a user's full answer history.
func (r *Reporter) ComputeStatistics(ctx context.Context, userID int64) (Statistics, error) {
	raw, err := r.answers.Stats(ctx, userID)
	if err != nil {
		return Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}

	stats := Statistics{
		Total:      raw.Total,
		Correct:    raw.Correct,
		Wrong:      raw.Total - raw.Correct,
		AvgSeconds: raw.AvgSeconds,
	}
	if stats.Total > 0 {
		stats.AccuracyPct = float64(stats.Correct) / float64(stats.Total) * 100
	}

	return stats, nil
}

// ListRecentWrong lists the user's most recent mistakes, newest first.
func (r *Reporter) ListRecentWrong(ctx context.Context, userID int64, limit int) ([]WrongSummary, error) {
	if limit <= 0 {
		limit = defaultWrongLimit
	}

	wrong, err := r.answers.WrongAnswers(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list wrong answers: %w", err)
	}

	summaries := make([]WrongSummary, 0, len(wrong))
	for _, w := range wrong {
		summaries = append(summaries, WrongSummary{
			QuestionID:    w.QuestionID,
			Summary:       summarizePrompt(w.QuestionText),
			UserAnswer:    w.UserAnswer,
			CorrectAnswer: entities.JoinAnswers(w.CorrectAnswers),
		})
	}

	return summaries, nil
}

// WrongDetail re-fetches the full question and the most recent incorrect
// answer for it.
func (r *Reporter) WrongDetail(ctx context.Context, userID, questionID int64) (*WrongDetail, error) {
	question, err := r.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}

	ev, err := r.answers.LastWrongAnswer(ctx, userID, questionID)
	if err != nil {
		return nil, fmt.Errorf("load last wrong answer: %w", err)
	}

	return &WrongDetail{
		Question:   question,
		UserAnswer: entities.ResolveAnswers(ev.UserAnswer, question.Options),
	}, nil
}

// Leaderboard ranks users by correct answers descending, ties broken by
// fewer total answers. Users without a single correct answer are
// excluded.
func (r *Reporter) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}

	tallies, err := r.answers.Tallies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load answer tallies: %w", err)
	}

	ranked := make([]repository.AnswerTally, 0, len(tallies))
	for _, t := range tallies {
		if t.Correct > 0 {
			ranked = append(ranked, t)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Correct != ranked[j].Correct {
			return ranked[i].Correct > ranked[j].Correct
		}
		return ranked[i].Total < ranked[j].Total
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for i, t := range ranked {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Username: t.Username,
			Correct:  t.Correct,
			Total:    t.Total,
		})
	}

	return entries, nil
}

// summarizePrompt truncates a prompt to its first line, capped in runes.
func summarizePrompt(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	runes := []rune(line)
	if len(runes) <= summaryMaxRunes {
		return line
	}
	return string(runes[:summaryMaxRunes]) + "..."
}
