package redis

import (
	"context"
	"testing"

	"trivia-session-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestScoreStoreAppendAndList(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewScoreStore(newClient(mr))
	ctx := context.Background()

	entries := []domain.ScoreEntry{
		{Name: "Alice", Score: 300, Category: "Film", Timestamp: "2024-11-22T10:00:00Z"},
		{Name: "Bob", Score: 500, Category: "Music", Timestamp: "2024-11-22T11:00:00Z"},
		{Name: "Cara", Score: 100, Category: "General Knowledge", Timestamp: "2024-11-22T12:00:00Z"},
	}
	for _, entry := range entries {
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "Bob" || got[1].Name != "Alice" {
		t.Fatalf("expected descending score order, got %v", got)
	}
	if got[0].Category != "Music" || got[0].Timestamp != "2024-11-22T11:00:00Z" {
		t.Fatalf("expected full record round-trip, got %+v", got[0])
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
