package quiz

import (
	"errors"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

var (
	ErrNoQuestions     = errors.New("category has no questions")
	ErrNotInProgress   = errors.New("no quiz in progress")
	ErrWrongQuestion   = errors.New("question is not the current question")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrInvalidOption   = errors.New("selected option is out of range")
)

// Status is the lifecycle phase of a session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// State is the whole state of one quiz attempt. Transitions never mutate a
// State in place: Reduce returns a new value, so a reader holding the
// previous State never sees a partially applied transition.
type State struct {
	Category       *entities.Category
	AttemptID      string
	Index          int // 0-based, frozen once Complete
	Answers        []entities.UserAnswer
	TimerRunning   bool
	Complete       bool
	LastCategoryID string // survives Reset
	StartedAt      time.Time
	Result         *entities.QuizResult // set once, on completion
}

// Status derives the lifecycle phase.
func (s State) Status() Status {
	switch {
	case s.Category == nil:
		return StatusIdle
	case s.Complete:
		return StatusComplete
	default:
		return StatusInProgress
	}
}

// CurrentQuestion returns the question under the pointer.
func (s State) CurrentQuestion() (entities.Question, bool) {
	return s.Category.QuestionAt(s.Index)
}

// AnswerFor returns the recorded answer for questionID.
func (s State) AnswerFor(questionID string) (entities.UserAnswer, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return entities.UserAnswer{}, false
}

// CurrentAnswer returns the recorded answer for the current question.
func (s State) CurrentAnswer() (entities.UserAnswer, bool) {
	q, ok := s.CurrentQuestion()
	if !ok {
		return entities.UserAnswer{}, false
	}
	return s.AnswerFor(q.ID)
}

// TotalQuestions returns the size of the loaded category.
func (s State) TotalQuestions() int {
	return s.Category.TotalQuestions()
}

// Score counts correct answers.
func (s State) Score() int {
	score := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			score++
		}
	}
	return score
}

// ResultPercentage returns score/totalQuestions*100, 0 for an empty category.
func (s State) ResultPercentage() float64 {
	return entities.Percentage(s.Score(), s.TotalQuestions())
}

func (s State) clone() State {
	if s.Answers != nil {
		s.Answers = append([]entities.UserAnswer(nil), s.Answers...)
	}
	if s.Result != nil {
		r := *s.Result
		r.Answers = append([]entities.UserAnswer(nil), r.Answers...)
		s.Result = &r
	}
	return s
}

// Snapshot is the durable subset of a session kept across restarts.
type Snapshot struct {
	LastCategoryID string `json:"lastCategoryId"`
}

// Durable projects the state onto its durable subset.
func (s State) Durable() Snapshot {
	return Snapshot{LastCategoryID: s.LastCategoryID}
}

// Hydrate rebuilds an idle state from a snapshot.
func Hydrate(snap Snapshot) State {
	return State{LastCategoryID: snap.LastCategoryID}
}

// Action is a state transition.
type Action interface {
	apply(s State) (State, error)
}

// Reduce applies a to s. On error the returned state is s unchanged.
func Reduce(s State, a Action) (State, error) {
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// Start begins a new attempt on Category, discarding everything from the
// previous one except LastCategoryID, which it overwrites.
type Start struct {
	Category  *entities.Category
	AttemptID string
	At        time.Time
}

func (a Start) apply(_ State) (State, error) {
	if a.Category.TotalQuestions() == 0 {
		return State{}, ErrNoQuestions
	}

	return State{
		Category:       a.Category,
		AttemptID:      a.AttemptID,
		Index:          0,
		TimerRunning:   true,
		LastCategoryID: a.Category.ID,
		StartedAt:      a.At,
	}, nil
}

// Answer records the answer to the current question. Selected == nil
// records a timeout.
type Answer struct {
	QuestionID    string
	Selected      *int
	TimeRemaining int
	At            time.Time
}

func (a Answer) apply(s State) (State, error) {
	if s.Status() != StatusInProgress {
		return s, ErrNotInProgress
	}

	q, _ := s.CurrentQuestion()
	if q.ID != a.QuestionID {
		return s, ErrWrongQuestion
	}
	if _, answered := s.AnswerFor(q.ID); answered {
		return s, ErrAlreadyAnswered
	}

	var selected *int
	if a.Selected != nil {
		if !q.ValidOption(*a.Selected) {
			return s, ErrInvalidOption
		}
		v := *a.Selected
		selected = &v
	}

	remaining := a.TimeRemaining
	if remaining < 0 || selected == nil {
		remaining = 0
	}

	next := s.clone()
	next.Answers = append(next.Answers, entities.UserAnswer{
		QuestionID:     q.ID,
		SelectedOption: selected,
		IsCorrect:      q.IsCorrect(selected),
		TimeRemaining:  remaining,
		AnsweredAt:     a.At,
	})
	next.TimerRunning = false

	return next, nil
}

// Next moves to the following question, or completes the attempt when the
// current question is the last one.
type Next struct {
	At time.Time
}

func (a Next) apply(s State) (State, error) {
	if s.Status() != StatusInProgress {
		return s, ErrNotInProgress
	}

	if s.Index >= s.TotalQuestions()-1 {
		return complete(s, a.At), nil
	}

	next := s.clone()
	next.Index++
	next.TimerRunning = true

	return next, nil
}

// Complete finalizes the attempt. Completing a completed attempt is a no-op.
type Complete struct {
	At time.Time
}

func (a Complete) apply(s State) (State, error) {
	switch s.Status() {
	case StatusIdle:
		return s, ErrNotInProgress
	case StatusComplete:
		return s, nil
	default:
		return complete(s, a.At), nil
	}
}

// Reset returns to idle, keeping only LastCategoryID.
type Reset struct{}

func (Reset) apply(s State) (State, error) {
	return State{LastCategoryID: s.LastCategoryID}, nil
}

func complete(s State, at time.Time) State {
	next := s.clone()
	next.Complete = true
	next.TimerRunning = false

	next.Result = &entities.QuizResult{
		AttemptID:      s.AttemptID,
		CategoryID:     s.Category.ID,
		CategoryName:   s.Category.Name,
		Answers:        append([]entities.UserAnswer(nil), s.Answers...),
		Score:          s.Score(),
		TotalQuestions: s.TotalQuestions(),
		CompletedAt:    at,
	}

	return next
}
