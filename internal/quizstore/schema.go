package quizstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// InitSchema creates the quizwatch tables when they do not exist yet. It
// opens its own plain connection: the pool's prepared statements reference
// these tables, so the pool cannot come up before the schema does.
func InitSchema(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for schema init: %w", err)
	}
	defer conn.Close(ctx)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id BIGSERIAL PRIMARY KEY,
			url TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id BIGSERIAL PRIMARY KEY,
			quiz_id BIGINT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			player TEXT NOT NULL,
			score INT NOT NULL,
			total INT NOT NULL,
			duration_seconds INT,
			external_rank INT,
			attempted_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_quiz ON attempts(quiz_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_player ON attempts(player)`,
		`CREATE TABLE IF NOT EXISTS daily_quizzes (
			date TEXT PRIMARY KEY,
			quiz_id BIGINT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
