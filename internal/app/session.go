package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"trivia-session-service/internal/domain"
)

// DefaultCategory is the label shown before a category filter is applied.
const DefaultCategory = "General Knowledge"

const pointsPerCorrectAnswer = 100

// Timing groups the session's timer windows so tests can shorten them.
type Timing struct {
	// ScoreDelay is the quiet period between the last recorded answer and
	// the deferred scoring pass that advances the quiz.
	ScoreDelay time.Duration
	// ErrorTTL is how long a transient error stays visible.
	ErrorTTL time.Duration
}

// DefaultTiming matches the windows the quiz UI was designed around.
func DefaultTiming() Timing {
	return Timing{
		ScoreDelay: 1500 * time.Millisecond,
		ErrorTTL:   5 * time.Second,
	}
}

// Session owns the state of one quiz run. All mutation goes through its
// methods under the mutex; consumers observe immutable snapshots.
type Session struct {
	id     string
	timing Timing
	now    func() time.Time

	mu     sync.Mutex
	closed bool

	categories        []domain.Category
	loadingCategories bool
	loadingQuestions  bool
	withTimer         bool
	timer             int
	bank              []domain.Question
	currentCategory   string
	current           *domain.Question
	questionNum       int
	total             int
	answers           []*domain.Answer
	score             domain.Score
	quizInProgress    bool
	gameEnded         bool
	errMsg            string

	// Timer handles are debounced: scheduling stops the previous handle and
	// bumps the generation so a handle that already fired becomes a no-op.
	scoreTimer *time.Timer
	scoreGen   int
	errTimer   *time.Timer
	errGen     int

	// loadGen invalidates in-flight question loads: reset, supersession,
	// and teardown all bump it, so a late response (success or failure)
	// can never land on newer state.
	loadGen     int
	cancelLoad  context.CancelFunc
	subscribers map[chan domain.SessionState]struct{}
}

func NewSession(id string, timing Timing) *Session {
	return NewSessionWithClock(id, timing, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, timing Timing, now func() time.Time) *Session {
	return &Session{
		id:              id,
		timing:          timing,
		now:             now,
		currentCategory: DefaultCategory,
		subscribers:     make(map[chan domain.SessionState]struct{}),
	}
}

// Close tears the session down: in-flight loads are cancelled, pending
// timers are disarmed, and subscriber channels are closed. No state is
// mutated afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.stopTimersLocked()
	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = make(map[chan domain.SessionState]struct{})
}

func (s *Session) stopTimersLocked() {
	s.scoreGen++
	s.errGen++
	if s.scoreTimer != nil {
		s.scoreTimer.Stop()
		s.scoreTimer = nil
	}
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

func (s *Session) beginCategoryLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingCategories = true
	s.broadcastLocked()
}

// setCategories stores the loaded categories sorted ascending by name.
func (s *Session) setCategories(categories []domain.Category) {
	sorted := make([]domain.Category, len(categories))
	copy(sorted, categories)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = sorted
	s.loadingCategories = false
	s.broadcastLocked()
}

func (s *Session) failCategoryLoad(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingCategories = false
	s.raiseErrorLocked(msg)
	s.broadcastLocked()
}

// beginQuestionLoad supersedes any in-flight question request, fully resets
// the session, resolves the category label, and enters the loading state.
// The returned context is cancelled when a newer submit arrives or the
// session is torn down; the returned generation must accompany the load's
// outcome so a superseded response is dropped even when it was already in
// flight when the cancel landed.
func (s *Session) beginQuestionLoad(parent context.Context, categoryID int) (context.Context, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	ctx, cancel := context.WithCancel(parent)
	s.resetLocked()
	s.cancelLoad = cancel
	if categoryID != 0 {
		for _, c := range s.categories {
			if c.ID == categoryID {
				s.currentCategory = c.Name
				break
			}
		}
	}
	s.loadingQuestions = true
	s.broadcastLocked()
	return ctx, s.loadGen
}

func (s *Session) failQuestionLoad(gen int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.loadGen {
		return
	}
	s.loadingQuestions = false
	s.raiseErrorLocked(msg)
	s.broadcastLocked()
}

// startQuiz installs the question bank and exposes the first question.
// A stale generation means the load was superseded or the session reset
// while the response was in flight; the result is discarded.
func (s *Session) startQuiz(gen int, bank []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.loadGen {
		return
	}
	s.loadingQuestions = false
	s.bank = bank
	s.total = len(bank)
	if s.total > 0 {
		q := bank[0]
		s.current = &q
		s.questionNum = 1
		s.quizInProgress = true
	}
	s.broadcastLocked()
}

// recordAnswer buffers an answer (nil means skipped/timed out), marks the
// score pending, and debounces the deferred scoring pass. The question is
// never advanced here; the pause between answer and next question is part
// of the contract.
func (s *Session) recordAnswer(answer *domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.quizInProgress || s.gameEnded || len(s.answers) >= s.total {
		return domain.ErrNoActiveQuiz
	}
	s.answers = append(s.answers, answer)
	s.score = domain.PendingScore()

	s.scoreGen++
	gen := s.scoreGen
	if s.scoreTimer != nil {
		s.scoreTimer.Stop()
	}
	s.scoreTimer = time.AfterFunc(s.timing.ScoreDelay, func() {
		s.scoreAndAdvance(gen)
	})
	s.broadcastLocked()
	return nil
}

// scoreAndAdvance recomputes the score from scratch and either exposes the
// next question or ends the game. Recomputation is idempotent, so a repeat
// pass over an unchanged answer sequence yields the same score.
func (s *Session) scoreAndAdvance(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.scoreGen {
		return
	}
	score := 0
	for _, answer := range s.answers {
		if answer != nil && answer.IsCorrectAnswer {
			score += pointsPerCorrectAnswer
		}
	}
	s.score = domain.ScoreValue(score)

	// Both branches compare the pre-advance index; equality, not >=, is the
	// terminal test, so the index can never overshoot the total.
	num := s.questionNum
	if num < s.total {
		q := s.bank[num]
		s.current = &q
		s.questionNum = num + 1
	}
	if num == s.total {
		s.gameEnded = true
	}
	s.broadcastLocked()
}

// raiseErrorLocked replaces the visible transient error and re-arms its
// auto-clear window from scratch.
func (s *Session) raiseErrorLocked(msg string) {
	s.errMsg = msg
	s.errGen++
	gen := s.errGen
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	s.errTimer = time.AfterFunc(s.timing.ErrorTTL, func() {
		s.clearError(gen)
	})
}

func (s *Session) raiseError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raiseErrorLocked(msg)
	s.broadcastLocked()
}

func (s *Session) clearError(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.errGen {
		return
	}
	s.errMsg = ""
	s.broadcastLocked()
}

func (s *Session) setTimer(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = seconds
	s.broadcastLocked()
}

func (s *Session) setWithTimer(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withTimer = enabled
	s.broadcastLocked()
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.broadcastLocked()
}

// resetLocked returns the session to its idle defaults. Loaded categories,
// the timer toggle, and any visible transient error are deliberately kept;
// the error clears on its own window.
func (s *Session) resetLocked() {
	s.scoreGen++
	s.loadGen++
	if s.scoreTimer != nil {
		s.scoreTimer.Stop()
		s.scoreTimer = nil
	}
	s.timer = 0
	s.bank = nil
	s.currentCategory = DefaultCategory
	s.current = nil
	s.questionNum = 0
	s.total = 0
	s.answers = nil
	s.score = domain.ScoreValue(0)
	s.quizInProgress = false
	s.gameEnded = false
	s.loadingQuestions = false
}

// Snapshot returns the current state as an immutable value.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionState {
	state := domain.SessionState{
		Error:             s.errMsg,
		LoadingCategories: s.loadingCategories,
		LoadingQuestions:  s.loadingQuestions,
		Categories:        s.categories,
		WithTimer:         s.withTimer,
		Timer:             s.timer,
		CurrentCategory:   s.currentCategory,
		QuestionNum:       s.questionNum,
		TotalQuestions:    s.total,
		Answered:          len(s.answers),
		Progress:          CalculatePercentage(s.questionNum, s.total),
		Score:             s.score,
		QuizInProgress:    s.quizInProgress,
		GameEnded:         s.gameEnded,
	}
	if s.current != nil {
		q := *s.current
		state.CurrentQuestion = &q
	}
	return state
}

func (s *Session) subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	state := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// Drop the stale snapshot so a slow consumer never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
