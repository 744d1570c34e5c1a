package memory

import (
	"context"

	"trivia-session-service/internal/domain"
)

// StaticCategoryProvider serves a fixed category list (useful for tests/demos).
type StaticCategoryProvider struct {
	categories []domain.Category
}

func NewStaticCategoryProvider(categories []domain.Category) *StaticCategoryProvider {
	return &StaticCategoryProvider{categories: categories}
}

func (p *StaticCategoryProvider) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.categories, nil
}

// StaticQuestionProvider serves a fixed batch of raw records regardless of
// the requested options.
type StaticQuestionProvider struct {
	records []domain.RawQuestion
	err     error
}

func NewStaticQuestionProvider(records []domain.RawQuestion) *StaticQuestionProvider {
	return &StaticQuestionProvider{records: records}
}

// NewFailingQuestionProvider always returns err, for failure-path tests.
func NewFailingQuestionProvider(err error) *StaticQuestionProvider {
	return &StaticQuestionProvider{err: err}
}

func (p *StaticQuestionProvider) Questions(_ context.Context, _ domain.QuizOptions) ([]domain.RawQuestion, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}
