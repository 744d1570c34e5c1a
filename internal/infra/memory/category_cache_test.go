package memory

import (
	"context"
	"testing"
	"time"

	"trivia-session-service/internal/domain"
)

func TestCategoryCacheCaches(t *testing.T) {
	upstream := &countingCategoryProvider{
		StaticCategoryProvider: NewStaticCategoryProvider([]domain.Category{{ID: 9, Name: "General Knowledge"}}),
	}
	cache := NewCategoryCache(upstream, time.Minute)

	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if upstream.calls != 1 {
		t.Fatalf("expected upstream called once, got %d", upstream.calls)
	}

	if _, err := cache.Categories(context.Background()); err != nil {
		t.Fatalf("categories 2: %v", err)
	}
	if upstream.calls != 1 {
		t.Fatalf("expected cache hit, upstream calls %d", upstream.calls)
	}
}

type countingCategoryProvider struct {
	*StaticCategoryProvider
	calls int
}

func (p *countingCategoryProvider) Categories(ctx context.Context) ([]domain.Category, error) {
	p.calls++
	return p.StaticCategoryProvider.Categories(ctx)
}
