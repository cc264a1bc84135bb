package quiz

import (
	"context"
	"sync"
	"time"
)

const (
	QuestionSeconds   = 120 // per-question countdown
	WarningThreshold  = 30
	CriticalThreshold = 10
)

// Level is the urgency band of the remaining time.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// LevelFor maps remaining seconds to a level.
func LevelFor(remaining int) Level {
	switch {
	case remaining <= CriticalThreshold:
		return LevelCritical
	case remaining <= WarningThreshold:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// countdown is the clock-free counting core of Timer.
type countdown struct {
	remaining int
	level     Level
	expired   bool
}

func newCountdown(seconds int) countdown {
	if seconds < 0 {
		seconds = 0
	}
	return countdown{remaining: seconds, level: LevelFor(seconds)}
}

// tick decrements by one second. levelChanged is true only on the tick that
// crosses into a new level; expired is true only on the tick reaching zero.
func (c *countdown) tick() (levelChanged, expired bool) {
	if c.expired {
		return false, false
	}

	if c.remaining > 0 {
		c.remaining--
	}

	if lvl := LevelFor(c.remaining); lvl != c.level {
		c.level = lvl
		levelChanged = true
	}

	if c.remaining == 0 {
		c.expired = true
		expired = true
	}

	return levelChanged, expired
}

// Tick describes one timer event.
type Tick struct {
	QuestionID string
	Generation uint64
	Remaining  int
	Level      Level
}

// TimerHooks are invoked from the timer goroutine, outside the timer lock.
type TimerHooks struct {
	OnLevel  func(Tick)
	OnExpire func(Tick)
}

// Timer counts down once per interval for a single question. Every Start or
// Stop bumps the generation and cancels the running goroutine, so a tick from
// a previous question is never delivered as current.
type Timer struct {
	seconds  int
	interval time.Duration
	hooks    TimerHooks

	mu         sync.Mutex
	generation uint64
	questionID string
	running    bool
	cd         countdown
	cancel     context.CancelFunc
}

// NewTimer creates a stopped timer.
func NewTimer(seconds int, interval time.Duration, hooks TimerHooks) *Timer {
	if interval <= 0 {
		interval = time.Second
	}

	return &Timer{
		seconds:  seconds,
		interval: interval,
		hooks:    hooks,
		cd:       newCountdown(seconds),
	}
}

// Start restarts the countdown from the full duration for questionID.
func (t *Timer) Start(questionID string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	t.generation++
	t.questionID = questionID
	t.running = true
	t.cd = newCountdown(t.seconds)

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go t.run(ctx, t.generation, questionID)

	return t.generation
}

// Sync keys the timer on (questionID, running): a change of either restarts
// or stops it, an unchanged key leaves it counting.
func (t *Timer) Sync(questionID string, running bool) {
	t.mu.Lock()
	same := t.running && t.questionID == questionID
	t.mu.Unlock()

	switch {
	case !running:
		t.Stop()
	case !same:
		t.Start(questionID)
	}
}

// Stop cancels the countdown. The remaining time is kept for reading.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.generation++
	t.running = false
}

// IsCurrent reports whether gen belongs to the latest countdown, i.e. no
// Start or Stop happened since it was issued.
func (t *Timer) IsCurrent(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation == gen
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cd.remaining
}

// Level returns the current urgency level.
func (t *Timer) Level() Level {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cd.level
}

// Expired reports whether the countdown for questionID has reached zero.
func (t *Timer) Expired(questionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.questionID == questionID && t.cd.expired
}

// Clear stops the countdown and forgets its question, leaving 0 seconds at
// the normal level.
func (t *Timer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.questionID = ""
	t.cd = countdown{level: LevelNormal}
}

func (t *Timer) run(ctx context.Context, gen uint64, questionID string) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			if !t.running || t.generation != gen {
				t.mu.Unlock()
				return
			}

			levelChanged, expired := t.cd.tick()
			if expired {
				t.running = false
			}
			tick := Tick{
				QuestionID: questionID,
				Generation: gen,
				Remaining:  t.cd.remaining,
				Level:      t.cd.level,
			}
			t.mu.Unlock()

			if levelChanged && t.hooks.OnLevel != nil {
				t.hooks.OnLevel(tick)
			}
			if expired {
				if t.hooks.OnExpire != nil {
					t.hooks.OnExpire(tick)
				}
				return
			}
		}
	}
}
