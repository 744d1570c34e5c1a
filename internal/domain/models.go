package domain

import "encoding/json"

// Category is a question category as served by the trivia provider.
// Loaded once at session startup and read-only afterwards.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RawQuestion is the provider's wire shape. Question text and answers arrive
// HTML-entity escaped and must be decoded before use.
type RawQuestion struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Question is a normalized, decoded question ready for presentation.
// Options contains the correct answer exactly once among the incorrect
// ones, in shuffled order.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
}

// Answer records the outcome of one question. A nil *Answer in the answers
// sequence means the question was skipped or timed out.
type Answer struct {
	IsCorrectAnswer bool `json:"isCorrectAnswer"`
}

// QuizOptions are the recognized parameters for a question fetch. Amount
// rides as a string to match the provider's query interface.
type QuizOptions struct {
	Amount     string `json:"amount"`
	Category   int    `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Score is either a settled integer or the pending sentinel shown while a
// deferred scoring pass is in flight. It marshals as "?" when pending so
// clients can render the placeholder directly.
type Score struct {
	Pending bool
	Value   int
}

// PendingScore marks the score as stale until the next scoring pass.
func PendingScore() Score { return Score{Pending: true} }

// ScoreValue is a settled score.
func ScoreValue(v int) Score { return Score{Value: v} }

func (s Score) MarshalJSON() ([]byte, error) {
	if s.Pending {
		return json.Marshal("?")
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		*s = Score{Value: v}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Score{Pending: true}
	return nil
}

// ScoreEntry is the append-only record written to the score store when a
// finished game is saved to the leaderboard.
type ScoreEntry struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

// SessionState is an immutable snapshot of a quiz session, broadcast to
// subscribers after every mutation.
type SessionState struct {
	Error             string     `json:"error,omitempty"`
	LoadingCategories bool       `json:"loadingCategories"`
	LoadingQuestions  bool       `json:"loadingQuestions"`
	Categories        []Category `json:"categories,omitempty"`
	WithTimer         bool       `json:"withTimer"`
	Timer             int        `json:"timer"`
	CurrentCategory   string     `json:"currentCategory"`
	CurrentQuestion   *Question  `json:"currentQuestion,omitempty"`
	QuestionNum       int        `json:"questionNum"`
	TotalQuestions    int        `json:"totalQuestions"`
	Answered          int        `json:"answered"`
	Progress          int        `json:"progress"`
	Score             Score      `json:"score"`
	QuizInProgress    bool       `json:"quizInProgress"`
	GameEnded         bool       `json:"gameEnded"`
}
