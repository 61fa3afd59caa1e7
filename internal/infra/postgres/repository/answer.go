package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres"
)

var ErrAnswerNotFound = errors.New("answer event not found")

// AnswerStats aggregates a user's answer history.
type AnswerStats struct {
	Total      int
	Correct    int
	AvgSeconds *float64 // nil when the user has no recorded answers
}

// WrongAnswer is one incorrectly answered question joined with its
// question row, most recent first.
type WrongAnswer struct {
	QuestionID     int64
	QuestionText   string
	CorrectAnswers []string
	UserAnswer     string
	AnsweredAt     time.Time
}

// AnswerTally is a per-user aggregate used for the leaderboard. Ranking
// happens in the stats reporter; the query only tallies.
type AnswerTally struct {
	UserID   int64
	Username string
	Correct  int
	Total    int
}

// AnswerRepository provides access to the append-only answer event log.
type AnswerRepository struct {
	db postgres.DBTX
}

func NewAnswerRepository(db postgres.DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Append records one answer event.
func (r *AnswerRepository) Append(ctx context.Context, ev *entities.AnswerEvent) error {
	query := `
		INSERT INTO user_answers (user_id, question_id, user_answer, is_correct, created_at, answer_time_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		ev.UserID,
		ev.QuestionID,
		ev.UserAnswer,
		ev.IsCorrect,
		ev.CreatedAt,
		ev.AnswerTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}

	return nil
}

// DeleteByUser wipes a user's entire answer history.
func (r *AnswerRepository) DeleteByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_answers WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete answer events: %w", err)
	}

	return nil
}

// Stats aggregates total answered, correct count and average answer time.
func (r *AnswerRepository) Stats(ctx context.Context, userID int64) (AnswerStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0),
		       AVG(answer_time_seconds)
		FROM user_answers
		WHERE user_id = $1
	`

	var stats AnswerStats
	err := r.db.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.Correct, &stats.AvgSeconds)
	if err != nil {
		return AnswerStats{}, fmt.Errorf("query answer stats: %w", err)
	}

	return stats, nil
}

// WrongAnswers lists the user's most recent incorrect answers.
func (r *AnswerRepository) WrongAnswers(ctx context.Context, userID int64, limit int) ([]WrongAnswer, error) {
	query := `
		SELECT q.id, q.text, q.correct_answers, ua.user_answer, ua.created_at
		FROM user_answers ua
		JOIN questions q ON ua.question_id = q.id
		WHERE ua.user_id = $1 AND NOT ua.is_correct
		ORDER BY ua.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query wrong answers: %w", err)
	}
	defer rows.Close()

	var wrong []WrongAnswer
	for rows.Next() {
		var w WrongAnswer
		if err := rows.Scan(&w.QuestionID, &w.QuestionText, &w.CorrectAnswers, &w.UserAnswer, &w.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan wrong answer: %w", err)
		}
		wrong = append(wrong, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wrong answers: %w", err)
	}

	return wrong, nil
}

// LastWrongAnswer returns the most recent incorrect event for a
// user/question pair.
func (r *AnswerRepository) LastWrongAnswer(ctx context.Context, userID, questionID int64) (*entities.AnswerEvent, error) {
	query := `
		SELECT id, user_id, question_id, user_answer, is_correct, created_at, answer_time_seconds
		FROM user_answers
		WHERE user_id = $1 AND question_id = $2 AND NOT is_correct
		ORDER BY created_at DESC
		LIMIT 1
	`

	var ev entities.AnswerEvent
	err := r.db.QueryRow(ctx, query, userID, questionID).Scan(
		&ev.ID,
		&ev.UserID,
		&ev.QuestionID,
		&ev.UserAnswer,
		&ev.IsCorrect,
		&ev.CreatedAt,
		&ev.AnswerTimeSeconds,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("get last wrong answer: %w", err)
	}

	return &ev, nil
}

// Tallies returns per-user answer totals for every user with at least one
// recorded answer.
func (r *AnswerRepository) Tallies(ctx context.Context) ([]AnswerTally, error) {
	query := `
		SELECT u.id, u.username,
		       SUM(CASE WHEN ua.is_correct THEN 1 ELSE 0 END),
		       COUNT(ua.id)
		FROM users u
		JOIN user_answers ua ON ua.user_id = u.id
		GROUP BY u.id, u.username
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query answer tallies: %w", err)
	}
	defer rows.Close()

	var tallies []AnswerTally
	for rows.Next() {
		var t AnswerTally
		if err := rows.Scan(&t.UserID, &t.Username, &t.Correct, &t.Total); err != nil {
			return nil, fmt.Errorf("scan answer tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answer tallies: %w", err)
	}

	return tallies, nil
}
