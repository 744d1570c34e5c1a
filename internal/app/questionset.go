package app

import (
	"fmt"
	"html"
	"math/rand"
	"time"

	"trivia-session-service/internal/domain"
)

// DecodeText unescapes HTML entities in provider-supplied text. The provider
// double-escapes some strings; html.UnescapeString resolves one layer per
// pass, matching the markup-unescaping primitive the contract assumes.
func DecodeText(s string) string {
	return html.UnescapeString(s)
}

// CalculatePercentage maps (progress, total) to an integer percentage in
// [0,100]. Zero progress or zero total short-circuits to 0 so callers never
// divide by zero. The result is floored, never rounded up.
func CalculatePercentage(progress, total int) int {
	if progress == 0 || total == 0 {
		return 0
	}
	return progress * 100 / total
}

// BuildQuestionSet normalizes raw provider records into presentable
// questions, preserving input order. For each record the question text and
// all answers are decoded, the options are shuffled uniformly, and an id
// unique within the batch is assigned.
func BuildQuestionSet(rnd *rand.Rand, records []domain.RawQuestion) []domain.Question {
	stamp := time.Now().UnixNano()
	questions := make([]domain.Question, 0, len(records))
	for i, record := range records {
		answer := DecodeText(record.CorrectAnswer)
		options := make([]string, 0, len(record.IncorrectAnswers)+1)
		for _, wrong := range record.IncorrectAnswers {
			options = append(options, DecodeText(wrong))
		}
		options = append(options, answer)
		rnd.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})
		questions = append(questions, domain.Question{
			ID:       fmt.Sprintf("%d-%d", i, stamp),
			Question: DecodeText(record.Question),
			Answer:   answer,
			Options:  options,
		})
	}
	return questions
}
