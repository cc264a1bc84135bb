package quiz_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
)

func TestSession_TimeoutRecordsNullAnswer(t *testing.T) {
	timedOut := make(chan entities.UserAnswer, 1)

	s := quiz.NewSession(quiz.Options{
		QuestionSeconds: 2,
		TickInterval:    time.Millisecond,
	}, quiz.Hooks{
		OnTimeout: func(a entities.UserAnswer) { timedOut <- a },
	})

	if _, err := s.Start(newCategory("c", 1, 0)); err != nil {
		t.Fatalf("start: %v", err)
	}

	var a entities.UserAnswer
	select {
	case a = <-timedOut:
	case <-time.After(time.Second):
		t.Fatal("expected timeout")
	}

	if a.QuestionID != "c-q1" || a.SelectedOption != nil || a.IsCorrect || a.TimeRemaining != 0 {
		t.Errorf("unexpected timeout answer %+v", a)
	}

	st := s.State()
	if len(st.Answers) != 1 || st.TimerRunning {
		t.Errorf("expected one answer and stopped timer, got %+v", st)
	}

	if _, err := s.Submit("c-q1", intPtr(1)); !errors.Is(err, quiz.ErrAlreadyAnswered) {
		t.Errorf("expected late answer to be rejected, got %v", err)
	}
}

func TestSession_AnswerStopsTimerBeforeExpiry(t *testing.T) {
	timedOut := make(chan entities.UserAnswer, 1)

	s := quiz.NewSession(quiz.Options{
		QuestionSeconds: 3,
		TickInterval:    5 * time.Millisecond,
	}, quiz.Hooks{
		OnTimeout: func(a entities.UserAnswer) { timedOut <- a },
	})

	if _, err := s.Start(newCategory("c", 2)); err != nil {
		t.Fatalf("start: %v", err)
	}

	a, err := s.Submit("c-q1", intPtr(2))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !a.IsCorrect || a.TimeRemaining <= 0 {
		t.Errorf("expected correct answer with time left, got %+v", a)
	}

	select {
	case a := <-timedOut:
		t.Errorf("unexpected timeout after answering: %+v", a)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSession_NextStartsFreshCountdown(t *testing.T) {
	s := quiz.NewSession(quiz.Options{QuestionSeconds: 120, TickInterval: time.Hour}, quiz.Hooks{})

	if _, err := s.Start(newCategory("c", 0, 1)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Submit("c-q1", intPtr(0)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	st, err := s.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if st.Index != 1 || !st.TimerRunning {
		t.Errorf("expected index 1 with running timer, got %+v", st)
	}
	if s.TimeRemaining() != 120 {
		t.Errorf("expected fresh countdown, got %d", s.TimeRemaining())
	}

	s.Close()
}

func TestSession_MarkSavedOncePerAttempt(t *testing.T) {
	s := quiz.NewSession(quiz.Options{TickInterval: time.Hour}, quiz.Hooks{})
	defer s.Close()

	if s.MarkSaved() {
		t.Error("expected no save claim while idle")
	}

	cat := newCategory("c", 0)
	if _, err := s.Start(cat); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.MarkSaved() {
		t.Error("expected no save claim while in progress")
	}

	if _, err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !s.MarkSaved() {
		t.Fatal("expected first claim to succeed")
	}
	if s.MarkSaved() {
		t.Error("expected second claim to fail")
	}

	if _, err := s.Complete(); err != nil {
		t.Fatalf("repeat complete: %v", err)
	}
	if s.MarkSaved() {
		t.Error("expected repeated completion to keep the guard")
	}

	if _, err := s.Start(cat); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := s.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !s.MarkSaved() {
		t.Error("expected new attempt to clear the guard")
	}
}

func TestSession_ResetClearsCountdown(t *testing.T) {
	s := quiz.NewSession(quiz.Options{QuestionSeconds: 20, TickInterval: time.Hour}, quiz.Hooks{})
	defer s.Close()

	if _, err := s.Start(newCategory("c", 0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.TimeRemaining() != 20 || s.TimerLevel() != quiz.LevelWarning {
		t.Fatalf("expected 20s at warning, got %d at %s", s.TimeRemaining(), s.TimerLevel())
	}

	s.Reset()

	if s.TimeRemaining() != 0 || s.TimerLevel() != quiz.LevelNormal {
		t.Errorf("expected 0s at normal after reset, got %d at %s", s.TimeRemaining(), s.TimerLevel())
	}
}

func TestSession_RestoreKeepsLastCategory(t *testing.T) {
	s := quiz.Restore(quiz.Snapshot{LastCategoryID: "curriculum"}, quiz.Options{}, quiz.Hooks{})
	defer s.Close()

	if got := s.State().LastCategoryID; got != "curriculum" {
		t.Errorf("expected curriculum, got %q", got)
	}
	if got := s.Reset().LastCategoryID; got != "curriculum" {
		t.Errorf("expected reset to keep curriculum, got %q", got)
	}
}
