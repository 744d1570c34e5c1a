// Package opentdb implements the category and question providers against
// the Open Trivia Database HTTP API.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trivia-session-service/internal/domain"
)

// DefaultBaseURL is the public Open Trivia Database endpoint.
const DefaultBaseURL = "https://opentdb.com"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Categories fetches the full category list. The request is cancelled
// through ctx; callers treat cancellation as silent.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var payload struct {
		TriviaCategories []domain.Category `json:"trivia_categories"`
	}
	if err := c.get(ctx, "/api_category.php", nil, &payload); err != nil {
		return nil, err
	}
	return payload.TriviaCategories, nil
}

// Questions fetches a batch of raw question records. An empty results
// sequence is a valid response meaning no questions matched the options.
func (c *Client) Questions(ctx context.Context, opts domain.QuizOptions) ([]domain.RawQuestion, error) {
	params := url.Values{}
	params.Set("amount", opts.Amount)
	if opts.Category != 0 {
		params.Set("category", strconv.Itoa(opts.Category))
	}
	if opts.Difficulty != "" {
		params.Set("difficulty", opts.Difficulty)
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}

	var payload struct {
		Results []domain.RawQuestion `json:"results"`
	}
	if err := c.get(ctx, "/api.php", params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trivia api: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
