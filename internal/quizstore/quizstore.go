// Package quizstore provides the pgxpool-backed relational store for local
// quiz mappings and player attempts.
package quizstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bastienzim/quizwatch/internal/config"
)

// Store wraps pgxpool.Pool with application-specific helpers.
type Store struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	var n int
	return s.QueryRow(ctx, "health_check").Scan(&n)
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",

		"daily_quiz_lookup": "SELECT quiz_id FROM daily_quizzes WHERE date = $1",
		"daily_quiz_upsert": "INSERT INTO daily_quizzes (date, quiz_id) VALUES ($1, $2) ON CONFLICT (date) DO UPDATE SET quiz_id = EXCLUDED.quiz_id",

		"quiz_lookup": "SELECT id, url, title, description, tags FROM quizzes WHERE id = $1",
		"quiz_insert": "INSERT INTO quizzes (url, title, description, tags) VALUES ($1, $2, $3, $4) ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title RETURNING id",

		"attempt_insert": "INSERT INTO attempts (quiz_id, player, score, total, duration_seconds, external_rank) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",

		// Best attempt per player for one daily quiz, the local-leaderboard
		// ordering: score desc, then fastest duration.
		"daily_table": `
			SELECT a.player,
			       MAX(a.score)                     AS best_score,
			       MAX(a.total)                     AS total,
			       COUNT(*)                         AS attempts,
			       MIN(a.duration_seconds)          AS best_duration,
			       MIN(a.external_rank)             AS external_rank
			  FROM attempts a
			  JOIN daily_quizzes d ON d.quiz_id = a.quiz_id
			 WHERE d.date = $1
			 GROUP BY a.player
			 ORDER BY best_score DESC, best_duration ASC NULLS LAST`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

// Quiz is the stored quiz metadata.
type Quiz struct {
	ID          int64
	URL         string
	Title       string
	Description string
	Tags        []string
}

// AttemptRow is one player's best line in the local daily table.
type AttemptRow struct {
	Player       string
	BestScore    int
	Total        int
	Attempts     int
	BestDuration *int
	ExternalRank *int
}

// DailyQuiz returns the quiz id mapped to a date, ok=false when no mapping
// exists.
func (s *Store) DailyQuiz(ctx context.Context, date string) (int64, bool, error) {
	var id int64
	err := s.QueryRow(ctx, "daily_quiz_lookup", date).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("daily quiz lookup: %w", err)
	}
	return id, true, nil
}

// SetDailyQuiz maps a date to a quiz id, replacing any existing mapping.
func (s *Store) SetDailyQuiz(ctx context.Context, date string, quizID int64) error {
	if _, err := s.Exec(ctx, "daily_quiz_upsert", date, quizID); err != nil {
		return fmt.Errorf("daily quiz upsert: %w", err)
	}
	return nil
}

// Quiz loads quiz metadata by id.
func (s *Store) Quiz(ctx context.Context, id int64) (*Quiz, error) {
	var q Quiz
	err := s.QueryRow(ctx, "quiz_lookup", id).Scan(&q.ID, &q.URL, &q.Title, &q.Description, &q.Tags)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("quiz lookup: %w", err)
	}
	return &q, nil
}

// InsertQuiz stores quiz metadata, returning the id. Re-inserting the same
// URL updates the title and returns the existing row's id.
func (s *Store) InsertQuiz(ctx context.Context, url, title, description string, tags []string) (int64, error) {
	var id int64
	if err := s.QueryRow(ctx, "quiz_insert", url, title, description, tags).Scan(&id); err != nil {
		return 0, fmt.Errorf("quiz insert: %w", err)
	}
	return id, nil
}

// RecordAttempt stores one player attempt for a quiz.
func (s *Store) RecordAttempt(ctx context.Context, quizID int64, player string, score, total int, durationSeconds, externalRank *int) (int64, error) {
	var id int64
	err := s.QueryRow(ctx, "attempt_insert", quizID, player, score, total, durationSeconds, externalRank).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("record attempt: %w", err)
	}
	return id, nil
}

// DailyTable returns the locally recorded leaderboard for a date, best
// attempt per player.
func (s *Store) DailyTable(ctx context.Context, date string) ([]AttemptRow, error) {
	rows, err := s.Query(ctx, "daily_table", date)
	if err != nil {
		return nil, fmt.Errorf("daily table query: %w", err)
	}
	defer rows.Close()

	var out []AttemptRow
	for rows.Next() {
		var r AttemptRow
		if err := rows.Scan(&r.Player, &r.BestScore, &r.Total, &r.Attempts, &r.BestDuration, &r.ExternalRank); err != nil {
			return nil, fmt.Errorf("scan daily table row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
