package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		image_path TEXT NOT NULL DEFAULT '',
		answer_type TEXT NOT NULL,
		correct_answers TEXT[] NOT NULL,
		options TEXT[] NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL DEFAULT '',
		difficulty INT NOT NULL DEFAULT 0,
		exam_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		current_question_id BIGINT REFERENCES questions (id),
		state TEXT NOT NULL DEFAULT 'idle'
	)`,
	`CREATE TABLE IF NOT EXISTS user_answers (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		question_id BIGINT NOT NULL REFERENCES questions (id),
		user_answer TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		answer_time_seconds INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_exam_type ON questions (exam_type)`,
	`CREATE INDEX IF NOT EXISTS idx_user_answers_user_id ON user_answers (user_id, created_at DESC)`,
}

// Migrate ensures the schema exists. Safe to run on every startup.
func Migrate(ctx context.Context, db DBTX) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}
