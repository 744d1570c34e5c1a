package app

import (
	"math/rand"
	"testing"

	"trivia-session-service/internal/domain"
)

func TestCalculatePercentage(t *testing.T) {
	cases := []struct {
		progress, total, want int
	}{
		{0, 10, 0},
		{0, 0, 0},
		{7, 0, 0},
		{50, 200, 25},
		{99, 100, 99}, // floors, never rounds up
		{1, 3, 33},
		{100, 100, 100},
	}
	for _, tc := range cases {
		if got := CalculatePercentage(tc.progress, tc.total); got != tc.want {
			t.Errorf("CalculatePercentage(%d, %d) = %d, want %d", tc.progress, tc.total, got, tc.want)
		}
	}
}

func TestDecodeText(t *testing.T) {
	if got := DecodeText("Q &amp; A"); got != "Q & A" {
		t.Errorf("expected entities decoded, got %q", got)
	}
	if got := DecodeText("It&#039;s here"); got != "It's here" {
		t.Errorf("expected numeric entity decoded, got %q", got)
	}
	if got := DecodeText("plain text"); got != "plain text" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestBuildQuestionSetNormalizes(t *testing.T) {
	records := []domain.RawQuestion{
		{
			Question:         "What does HTML stand for?",
			CorrectAnswer:    "Hyper Text Markup Language",
			IncorrectAnswers: []string{"Hyper Transfer", "Home Tool", "Hyperlinks &amp; Text"},
		},
		{
			Question:         "2 &gt; 1?",
			CorrectAnswer:    "True",
			IncorrectAnswers: []string{"False"},
		},
	}
	rnd := rand.New(rand.NewSource(1))
	questions := BuildQuestionSet(rnd, records)

	if len(questions) != len(records) {
		t.Fatalf("expected %d questions, got %d", len(records), len(questions))
	}

	seen := make(map[string]bool)
	for i, q := range questions {
		if seen[q.ID] {
			t.Fatalf("duplicate id %q in batch", q.ID)
		}
		seen[q.ID] = true

		wantLen := len(records[i].IncorrectAnswers) + 1
		if len(q.Options) != wantLen {
			t.Fatalf("question %d: expected %d options, got %d", i, wantLen, len(q.Options))
		}
		occurrences := 0
		for _, opt := range q.Options {
			if opt == q.Answer {
				occurrences++
			}
		}
		if occurrences != 1 {
			t.Fatalf("question %d: answer appears %d times in options", i, occurrences)
		}
	}

	if contains(questions[0].Options, "Hyperlinks &amp; Text") {
		t.Fatalf("expected incorrect answers decoded, got %v", questions[0].Options)
	}
	if questions[1].Question != "2 > 1?" {
		t.Fatalf("expected decoded question text, got %q", questions[1].Question)
	}
}

func TestBuildQuestionSetEmptyInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	if got := BuildQuestionSet(rnd, nil); len(got) != 0 {
		t.Fatalf("expected no questions for empty input, got %d", len(got))
	}
}

func contains(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}
