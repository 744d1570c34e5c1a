package memory

import (
	"context"
	"testing"

	"trivia-session-service/internal/domain"
)

func TestScoreStoreAppendAndList(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()

	entries := []domain.ScoreEntry{
		{Name: "Alice", Score: 300, Category: "Film"},
		{Name: "Bob", Score: 500, Category: "Music"},
		{Name: "Cara", Score: 100, Category: "General Knowledge"},
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
		t.Fatalf("expected limit applied, got %d entries", len(got))
	}
	if got[0].Name != "Bob" || got[1].Name != "Alice" {
		t.Fatalf("expected descending score order, got %v", got)
	}
}
