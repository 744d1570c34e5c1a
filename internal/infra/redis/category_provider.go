package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"trivia-session-service/internal/app"
	"trivia-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const categoriesKey = "trivia:categories"

// CachedCategoryProvider caches the trivia category list in Redis as a JSON
// blob and falls back to the upstream provider on cache miss.
type CachedCategoryProvider struct {
	client   *redis.Client
	upstream app.CategoryProvider
	ttl      time.Duration
	sf       singleflight.Group
	rnd      *rand.Rand
}

func NewCachedCategoryProvider(client *redis.Client, upstream app.CategoryProvider, ttl time.Duration) *CachedCategoryProvider {
	return &CachedCategoryProvider{
		client:   client,
		upstream: upstream,
		ttl:      ttl,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *CachedCategoryProvider) Categories(ctx context.Context) ([]domain.Category, error) {
	if cached, err := p.client.Get(ctx, categoriesKey).Bytes(); err == nil {
		var categories []domain.Category
		if err := json.Unmarshal(cached, &categories); err == nil {
			return categories, nil
		}
	}

	result, err, _ := p.sf.Do(categoriesKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := p.client.Get(ctx, categoriesKey).Bytes(); err == nil {
			var categories []domain.Category
			if err := json.Unmarshal(cached, &categories); err == nil {
				return categories, nil
			}
		}

		categories, err := p.upstream.Categories(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(categories); err == nil {
			_ = p.client.Set(ctx, categoriesKey, data, p.ttlWithJitter()).Err()
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (p *CachedCategoryProvider) ttlWithJitter() time.Duration {
	if p.ttl <= 0 {
		return 0
	}
	jitterMax := int64(p.ttl) / 10
	return p.ttl + time.Duration(p.rnd.Int63n(jitterMax+1))
}
