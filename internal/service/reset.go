package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"art-history-quiz-bot/internal/domain/entities"
	"art-history-quiz-bot/internal/infra/postgres/repository"
)

// Transactor runs a function within a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ResetService wipes a user's answer history atomically: the event log
// deletion and the user-state normalization either both land or neither.
type ResetService struct {
	tr Transactor
}

func NewResetService(tr Transactor) *ResetService {
	return &ResetService{tr: tr}
}

func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		answerRepo := repository.NewAnswerRepository(tx)
		userRepo := repository.NewUserRepository(tx)

		if err := answerRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}

		err := userRepo.UpdateState(ctx, userID, entities.StateMainMenu, nil)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}

		return nil
	})
}
