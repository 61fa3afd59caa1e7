package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionRepository provides access to the question bank. Questions are
// immutable after creation; only the seeder inserts them.
type QuestionRepository struct {
	db postgres.DBTX
}

func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = `id, text, image_path, answer_type, correct_answers, options, explanation, topic, difficulty, exam_type`

func scanQuestion(row pgx.Row) (*entities.Question, error) {
	var q entities.Question
	err := row.Scan(
		&q.ID,
		&q.Text,
		&q.ImagePath,
		&q.AnswerType,
		&q.CorrectAnswers,
		&q.Options,
		&q.Explanation,
		&q.Topic,
		&q.Difficulty,
		&q.ExamType,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetByID retrieves a question by ID.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	q, err := scanQuestion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return q, nil
}

// PickRandom samples one random question from the given exam track.
func (r *QuestionRepository) PickRandom(ctx context.Context, examType string) (*entities.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE exam_type = $1 ORDER BY RANDOM() LIMIT 1`

	q, err := scanQuestion(r.db.QueryRow(ctx, query, examType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("pick random question: %w", err)
	}

	return q, nil
}

// Insert adds a new question and returns its ID.
func (r *QuestionRepository) Insert(ctx context.Context, q *entities.Question) (int64, error) {
	query := `
		INSERT INTO questions (text, image_path, answer_type, correct_answers, options, explanation, topic, difficulty, exam_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		q.Text,
		q.ImagePath,
		q.AnswerType,
		q.CorrectAnswers,
		q.Options,
		q.Explanation,
		q.Topic,
		q.Difficulty,
		q.ExamType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}

	return id, nil
}

// ExistsByText checks whether a question with the exact same text is
// already present. The seeder uses it to keep seeding idempotent.
func (r *QuestionRepository) ExistsByText(ctx context.Context, text string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM questions WHERE text = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, text).Scan(&exists); err != nil {
		return false, fmt.Errorf("check question existence: %w", err)
	}

	return exists, nil
}
