package storage_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/storage"
)

func TestSessionStorage_GetOrCreateOnce(t *testing.T) {
	s := storage.NewSessionStorage()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		got     = make(map[*quiz.Session]bool)
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, _ := s.GetOrCreate("u1", func() *quiz.Session {
				mu.Lock()
				created++
				mu.Unlock()
				return quiz.NewSession(quiz.Options{}, quiz.Hooks{})
			})
			mu.Lock()
			got[sess] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if created != 1 || len(got) != 1 {
		t.Errorf("expected a single session, created=%d distinct=%d", created, len(got))
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 held session, got %d", s.Len())
	}
}

func TestSessionStorage_IdleSince(t *testing.T) {
	s := storage.NewSessionStorage()
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.GetOrCreate("idle", func() *quiz.Session {
		return quiz.NewSession(quiz.Options{Now: func() time.Time { return old }}, quiz.Hooks{})
	})
	s.GetOrCreate("active", func() *quiz.Session {
		return quiz.NewSession(quiz.Options{}, quiz.Hooks{})
	})

	ids := s.IdleSince(time.Now().Add(-time.Minute))
	if len(ids) != 1 || ids[0] != "idle" {
		t.Fatalf("expected [idle], got %v", ids)
	}

	if _, ok := s.Delete("idle"); !ok {
		t.Error("expected delete to return the session")
	}
	if _, ok := s.Get("idle"); ok {
		t.Error("expected session to be gone")
	}
}

func TestMessageStorage_GetForQuestion(t *testing.T) {
	s := storage.NewMessageStorage()
	s.Store("u", 10, 99, "q1")

	if _, ok := s.GetForQuestion("u", "q2"); ok {
		t.Error("expected no message for another question")
	}
	msg, ok := s.GetForQuestion("u", "q1")
	if !ok || msg.ChatID != 10 || msg.MessageID != 99 {
		t.Errorf("unexpected message %+v", msg)
	}

	s.Delete("u")
	if _, ok := s.Get("u"); ok {
		t.Error("expected message to be deleted")
	}
}
