package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"trivia-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const scoresKey = "trivia:scores"

// ScoreStore persists saved scores in a Redis sorted set ranked by score.
// Entries are append-only; members carry the full JSON record so the
// leaderboard can be read back without a secondary lookup.
type ScoreStore struct {
	client *redis.Client
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client}
}

func (s *ScoreStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal score entry: %w", err)
	}
	return s.client.ZAdd(ctx, scoresKey, redis.Z{
		Score:  float64(entry.Score),
		Member: string(data),
	}).Err()
}

// List returns up to limit entries, highest score first.
func (s *ScoreStore) List(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	members, err := s.client.ZRevRange(ctx, scoresKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.ScoreEntry, 0, len(members))
	for _, member := range members {
		var entry domain.ScoreEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
