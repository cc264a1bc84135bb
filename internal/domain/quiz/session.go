package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// Hooks let the owner of a session react to timer-driven transitions.
// They run on the timer goroutine after the session lock is released.
type Hooks struct {
	OnTimeout func(answer entities.UserAnswer)
	OnLevel   func(questionID string, level Level)
}

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	QuestionSeconds int
	TickInterval    time.Duration
	Now             func() time.Time
	NewAttemptID    func() string
}

func (o Options) withDefaults() Options {
	if o.QuestionSeconds <= 0 {
		o.QuestionSeconds = QuestionSeconds
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewAttemptID == nil {
		o.NewAttemptID = uuid.NewString
	}
	return o
}

// Session owns one user's quiz state and its countdown. All transitions are
// serialized by mu and applied as whole-state replacements.
type Session struct {
	opts  Options
	hooks Hooks
	timer *Timer

	mu           sync.Mutex
	state        State
	saved        bool
	lastActivity time.Time
}

// NewSession creates an idle session.
func NewSession(opts Options, hooks Hooks) *Session {
	return Restore(Snapshot{}, opts, hooks)
}

// Restore creates an idle session hydrated from snap.
func Restore(snap Snapshot, opts Options, hooks Hooks) *Session {
	opts = opts.withDefaults()

	s := &Session{
		opts:         opts,
		hooks:        hooks,
		state:        Hydrate(snap),
		lastActivity: opts.Now(),
	}
	s.timer = NewTimer(opts.QuestionSeconds, opts.TickInterval, TimerHooks{
		OnLevel:  s.onLevel,
		OnExpire: s.onExpire,
	})

	return s
}

// Start begins a new attempt. The previous attempt, its timer and its
// "saved" guard are discarded in the same transition.
func (s *Session) Start(category *entities.Category) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, Start{
		Category:  category,
		AttemptID: s.opts.NewAttemptID(),
		At:        s.opts.Now(),
	})
	if err != nil {
		return s.state.clone(), err
	}

	s.state = next
	s.saved = false
	s.touch()

	q, _ := next.CurrentQuestion()
	s.timer.Start(q.ID)

	return next.clone(), nil
}

// Submit records an answer using the session's own countdown. Once the
// countdown for the question has run out, the answer is recorded as a
// timeout whatever was selected.
func (s *Session) Submit(questionID string, selected *int) (entities.UserAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer.Expired(questionID) {
		selected = nil
	}
	return s.answerLocked(questionID, selected, s.timer.Remaining())
}

func (s *Session) answerLocked(questionID string, selected *int, timeRemaining int) (entities.UserAnswer, error) {
	next, err := Reduce(s.state, Answer{
		QuestionID:    questionID,
		Selected:      selected,
		TimeRemaining: timeRemaining,
		At:            s.opts.Now(),
	})
	if err != nil {
		return entities.UserAnswer{}, err
	}

	s.state = next
	s.touch()
	s.timer.Stop()

	return next.Answers[len(next.Answers)-1], nil
}

// Next advances to the following question or completes the attempt.
// The timer for the new question starts only after the new index is set.
func (s *Session) Next() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, Next{At: s.opts.Now()})
	if err != nil {
		return s.state.clone(), err
	}

	s.timer.Stop()
	s.state = next
	s.touch()

	if q, ok := next.CurrentQuestion(); ok {
		s.timer.Sync(q.ID, next.TimerRunning)
	}

	return next.clone(), nil
}

// Complete finalizes the attempt. It is safe to call repeatedly.
func (s *Session) Complete() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, Complete{At: s.opts.Now()})
	if err != nil {
		return s.state.clone(), err
	}

	s.state = next
	s.touch()
	s.timer.Stop()

	return next.clone(), nil
}

// Reset returns to idle and keeps the last played category id.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state, _ = Reduce(s.state, Reset{})
	s.saved = false
	s.touch()
	s.timer.Clear()

	return s.state.clone()
}

// Close stops the countdown without changing the state.
func (s *Session) Close() {
	s.timer.Stop()
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Snapshot returns the durable subset of the state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Durable()
}

// TimeRemaining returns the seconds left on the current question.
func (s *Session) TimeRemaining() int {
	return s.timer.Remaining()
}

// TimerLevel returns the urgency level of the current countdown.
func (s *Session) TimerLevel() Level {
	return s.timer.Level()
}

// MarkSaved claims the right to persist the current attempt's result.
// It returns true exactly once per completed attempt.
func (s *Session) MarkSaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved || s.state.Status() != StatusComplete {
		return false
	}
	s.saved = true
	return true
}

// LastActivity returns the time of the last transition.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) touch() {
	s.lastActivity = s.opts.Now()
}

func (s *Session) onExpire(tick Tick) {
	s.mu.Lock()

	if !s.timer.IsCurrent(tick.Generation) {
		s.mu.Unlock()
		return
	}

	q, ok := s.state.CurrentQuestion()
	if !ok || q.ID != tick.QuestionID {
		s.mu.Unlock()
		return
	}

	answer, err := s.answerLocked(q.ID, nil, 0)
	s.mu.Unlock()

	if err != nil {
		return
	}
	if s.hooks.OnTimeout != nil {
		s.hooks.OnTimeout(answer)
	}
}

func (s *Session) onLevel(tick Tick) {
	if !s.timer.IsCurrent(tick.Generation) {
		return
	}
	if s.hooks.OnLevel != nil {
		s.hooks.OnLevel(tick.QuestionID, tick.Level)
	}
}
