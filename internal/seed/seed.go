// Package seed loads the YAML question bank into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"art-history-quiz-bot/internal/domain/entities"
)

var ErrInvalidBank = errors.New("invalid question bank")

// QuestionRepository is the write side the seeder needs.
type QuestionRepository interface {
	Insert(ctx context.Context, q *entities.Question) (int64, error)
	ExistsByText(ctx context.Context, text string) (bool, error)
}

// bankEntry mirrors one question in the YAML bank.
type bankEntry struct {
	Text           string   `yaml:"text"`
	ImagePath      string   `yaml:"image_path"`
	AnswerType     string   `yaml:"answer_type"`
	Options        []string `yaml:"options"`
	CorrectAnswers []string `yaml:"correct_answers"`
	Explanation    string   `yaml:"explanation"`
	Topic          string   `yaml:"topic"`
	Difficulty     int      `yaml:"difficulty"`
	ExamType       string   `yaml:"exam_type"`
}

type bank struct {
	Questions []bankEntry `yaml:"questions"`
}

// Result summarizes one seeding run.
type Result struct {
	Inserted int
	Skipped  int
}

// Seeder inserts bank questions that are not yet present, keyed by the
// question text. Existing questions are never modified.
type Seeder struct {
	questions QuestionRepository
	logger    *zap.Logger
}

func New(questions QuestionRepository, logger *zap.Logger) *Seeder {
	return &Seeder{
		questions: questions,
		logger:    logger,
	}
}

// SeedFromFile parses the YAML bank at path and loads it.
func (s *Seeder) SeedFromFile(ctx context.Context, path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read question bank: %w", err)
	}

	var b bank
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return Result{}, fmt.Errorf("parse question bank: %w", err)
	}

	return s.Seed(ctx, b.Questions)
}

// Seed validates and inserts the given entries.
func (s *Seeder) Seed(ctx context.Context, entries []bankEntry) (Result, error) {
	var res Result

	for i, entry := range entries {
		q, err := entry.toQuestion()
		if err != nil {
			return res, fmt.Errorf("question %d: %w", i+1, err)
		}

		exists, err := s.questions.ExistsByText(ctx, q.Text)
		if err != nil {
			return res, fmt.Errorf("check question %d: %w", i+1, err)
		}
		if exists {
			res.Skipped++
			s.logger.Debug("question already present, skipping",
				zap.String("topic", q.Topic),
			)
			continue
		}

		id, err := s.questions.Insert(ctx, q)
		if err != nil {
			return res, fmt.Errorf("insert question %d: %w", i+1, err)
		}
		res.Inserted++
		s.logger.Info("question inserted",
			zap.Int64("question_id", id),
			zap.String("exam_type", q.ExamType),
			zap.String("topic", q.Topic),
		)
	}

	return res, nil
}

func (e bankEntry) toQuestion() (*entities.Question, error) {
	if e.Text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidBank)
	}
	if len(e.Options) < 2 {
		return nil, fmt.Errorf("%w: need at least two options", ErrInvalidBank)
	}
	if len(e.CorrectAnswers) == 0 {
		return nil, fmt.Errorf("%w: no correct answers", ErrInvalidBank)
	}
	if !entities.ValidExamType(e.ExamType) {
		return nil, fmt.Errorf("%w: unknown exam type %q", ErrInvalidBank, e.ExamType)
	}

	answerType := entities.AnswerType(e.AnswerType)
	switch answerType {
	case entities.AnswerSingle:
		if len(e.CorrectAnswers) != 1 {
			return nil, fmt.Errorf("%w: single-answer question with %d correct answers", ErrInvalidBank, len(e.CorrectAnswers))
		}
	case entities.AnswerMultiple:
	default:
		return nil, fmt.Errorf("%w: unknown answer type %q", ErrInvalidBank, e.AnswerType)
	}

	for _, correct := range e.CorrectAnswers {
		if !slices.Contains(e.Options, correct) {
			return nil, fmt.Errorf("%w: correct answer %q is not among the options", ErrInvalidBank, correct)
		}
	}

	return &entities.Question{
		Text:           e.Text,
		ImagePath:      e.ImagePath,
		AnswerType:     answerType,
		CorrectAnswers: e.CorrectAnswers,
		Options:        e.Options,
		Explanation:    e.Explanation,
		Topic:          e.Topic,
		Difficulty:     e.Difficulty,
		ExamType:       e.ExamType,
	}, nil
}
