package memory

import (
	"context"
	"sort"
	"sync"

	"trivia-session-service/internal/domain"
)

// ScoreStore is an append-only in-memory score sink (useful for tests and
// running without a database).
type ScoreStore struct {
	mu      sync.RWMutex
	entries []domain.ScoreEntry
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) Append(_ context.Context, entry domain.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List returns up to limit entries ordered by score descending.
func (s *ScoreStore) List(_ context.Context, limit int) ([]domain.ScoreEntry, error) {
	s.mu.RLock()
	entries := make([]domain.ScoreEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
