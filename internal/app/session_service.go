package app

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"trivia-session-service/internal/domain"
)

// Transient messages surfaced through the session's error channel.
const (
	MsgNoQuestions      = "No questions found with the selected options. Please try again!"
	MsgQuestionsFailed  = "Error loading questions from the API. Please try again later."
	MsgCategoriesFailed = "Error loading categories from the API. Please try again later."
	MsgNameRequired     = "Please enter your name."
	MsgScoreSaveFailed  = "Failed to save score."
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// CategoryProvider fetches the available question categories.
type CategoryProvider interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// QuestionProvider fetches a batch of raw question records.
type QuestionProvider interface {
	Questions(ctx context.Context, opts domain.QuizOptions) ([]domain.RawQuestion, error)
}

// ScoreStore persists finished games. Append is the only write the core
// needs; List feeds the leaderboard screen.
type ScoreStore interface {
	Append(ctx context.Context, entry domain.ScoreEntry) error
	List(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}

// SessionService contains the quiz session use cases.
type SessionService struct {
	sessions   SessionRepository
	categories CategoryProvider
	questions  QuestionProvider
	scores     ScoreStore
	now        func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSessionService(sessions SessionRepository, categories CategoryProvider, questions QuestionProvider, scores ScoreStore) *SessionService {
	return &SessionService{
		sessions:   sessions,
		categories: categories,
		questions:  questions,
		scores:     scores,
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadCategories runs the startup category fetch for a session. Cancellation
// is silent: a torn-down session must not be mutated by a late response.
func (s *SessionService) LoadCategories(ctx context.Context, sessionID string) error {
	session := s.sessions.GetOrCreate(sessionID)
	session.beginCategoryLoad()

	categories, err := s.categories.Categories(ctx)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil
		}
		session.failCategoryLoad(MsgCategoriesFailed)
		return err
	}
	session.setCategories(categories)
	return nil
}

// Submit starts a new quiz: any prior in-flight question load is cancelled,
// the session is fully reset, and the question bank is fetched and built.
// The loading state is cleared on every path out.
func (s *SessionService) Submit(ctx context.Context, sessionID string, opts domain.QuizOptions) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	loadCtx, gen := session.beginQuestionLoad(ctx, opts.Category)
	records, err := s.questions.Questions(loadCtx, opts)
	if err != nil {
		if isCanceled(loadCtx, err) {
			// Superseded by a newer submit or session teardown.
			return nil
		}
		session.failQuestionLoad(gen, MsgQuestionsFailed)
		return err
	}
	if len(records) == 0 {
		session.failQuestionLoad(gen, MsgNoQuestions)
		return nil
	}

	s.mu.Lock()
	bank := BuildQuestionSet(s.rnd, records)
	s.mu.Unlock()

	// startQuiz drops the bank if this load was superseded in the meantime.
	session.startQuiz(gen, bank)
	return nil
}

// RecordAnswer buffers an answer for the current question; nil means the
// question was skipped or timed out. Scoring and advancement happen after
// the session's deferred-scoring delay.
func (s *SessionService) RecordAnswer(sessionID string, answer *domain.Answer) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.recordAnswer(answer)
}

// SaveScore validates the player name, appends the finished game to the
// score store, and resets the session back to the leaderboard screen.
func (s *SessionService) SaveScore(ctx context.Context, sessionID, playerName string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	name := strings.TrimSpace(playerName)
	if name == "" {
		session.raiseError(MsgNameRequired)
		return domain.ErrNameRequired
	}

	state := session.Snapshot()
	entry := domain.ScoreEntry{
		Name:      name,
		Score:     state.Score.Value,
		Category:  state.CurrentCategory,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.scores.Append(ctx, entry); err != nil {
		session.raiseError(MsgScoreSaveFailed)
		return err
	}
	session.reset()
	return nil
}

// Leaderboard returns the top saved scores.
func (s *SessionService) Leaderboard(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	return s.scores.List(ctx, limit)
}

// Reset returns a session to idle, e.g. when the player goes back to the
// leaderboard from the end-of-game screen.
func (s *SessionService) Reset(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.reset()
	return nil
}

// SetTimer records the elapsed per-question time reported by the
// presentation layer.
func (s *SessionService) SetTimer(sessionID string, seconds int) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.setTimer(seconds)
	return nil
}

// SetWithTimer toggles the countdown-timer mode for a session.
func (s *SessionService) SetWithTimer(sessionID string, enabled bool) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.setWithTimer(enabled)
	return nil
}

// Subscribe returns a channel of state snapshots for a session. The caller
// must invoke the returned cancel function to avoid leaks.
func (s *SessionService) Subscribe(sessionID string) (<-chan domain.SessionState, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Join creates (or returns) the session and hands back its current state.
func (s *SessionService) Join(sessionID string) domain.SessionState {
	return s.sessions.GetOrCreate(sessionID).Snapshot()
}

// Leave tears the session down and removes it from the repository.
func (s *SessionService) Leave(sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
}

// isCanceled reports whether a provider error is a cancellation of the
// request's own context, which is explicitly not a failure.
func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, ctx.Err()))
}
