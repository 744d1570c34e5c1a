package opentdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-session-service/internal/domain"
)

func TestCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_category.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"trivia_categories":[{"id":9,"name":"General Knowledge"},{"id":11,"name":"Film"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	categories, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 || categories[0].ID != 9 || categories[1].Name != "Film" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestQuestionsPassesOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("amount") != "5" || q.Get("category") != "11" || q.Get("difficulty") != "easy" || q.Get("type") != "multiple" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"response_code":0,"results":[{"question":"Q &amp; A?","correct_answer":"Yes","incorrect_answers":["No"]}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	records, err := client.Questions(context.Background(), domain.QuizOptions{
		Amount:     "5",
		Category:   11,
		Difficulty: "easy",
		Type:       "multiple",
	})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(records) != 1 || records[0].CorrectAnswer != "Yes" || records[0].Question != "Q &amp; A?" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestQuestionsEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code":1,"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	records, err := client.Questions(context.Background(), domain.QuizOptions{Amount: "50"})
	if err != nil {
		t.Fatalf("empty results are valid, got error %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestQuestionsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	if _, err := client.Questions(context.Background(), domain.QuizOptions{Amount: "5"}); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestRequestCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	client := NewClient(server.URL, 5*time.Second)
	if _, err := client.Categories(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
