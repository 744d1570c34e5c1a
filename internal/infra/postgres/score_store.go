package postgres

import (
	"context"
	"fmt"
	"time"

	"trivia-session-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScoreStore persists saved scores in Postgres. Writes are append-only.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	savedAt, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		savedAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO scores (name, score, category, saved_at) VALUES ($1, $2, $3, $4)`,
		entry.Name, entry.Score, entry.Category, savedAt,
	)
	if err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

// List returns up to limit entries, highest score first, newest winning ties.
func (s *ScoreStore) List(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT name, score, category, saved_at FROM scores ORDER BY score DESC, saved_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScoreEntry
	for rows.Next() {
		var entry domain.ScoreEntry
		var savedAt time.Time
		if err := rows.Scan(&entry.Name, &entry.Score, &entry.Category, &savedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		entry.Timestamp = savedAt.UTC().Format(time.RFC3339)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
