package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to user rows.
type UserRepository struct {
	db postgres.DBTX
}

func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts a new user or replaces an existing one.
func (r *UserRepository) Upsert(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, username, current_question_id, state)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			current_question_id = EXCLUDED.current_question_id,
			state = EXCLUDED.state
	`

	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.CurrentQuestionID, user.State)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// UpdateState moves an existing user to a new state and current question.
func (r *UserRepository) UpdateState(ctx context.Context, userID int64, state entities.UserState, currentQuestionID *int64) error {
	query := `UPDATE users SET state = $2, current_question_id = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID, state, currentQuestionID)
	if err != nil {
		return fmt.Errorf("update user state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `SELECT id, username, current_question_id, state FROM users WHERE id = $1`

	var user entities.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.CurrentQuestionID,
		&user.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
