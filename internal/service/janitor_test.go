package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeSweeper struct {
	cutoff     time.Time
	flushLimit int
}

func (f *fakeSweeper) EvictIdle(_ context.Context, cutoff time.Time) int {
	f.cutoff = cutoff
	return 1
}

func (f *fakeSweeper) FlushStash(_ context.Context, limit int) (int, error) {
	f.flushLimit = limit
	return 0, errStore
}

func TestJanitor_RunOnce(t *testing.T) {
	sweeper := &fakeSweeper{}
	j := NewJanitor(sweeper, "@every 1m", 30*time.Minute, zap.NewNop())

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return now }

	j.RunOnce(context.Background())

	if want := now.Add(-30 * time.Minute); !sweeper.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", sweeper.cutoff, want)
	}
	if sweeper.flushLimit != flushBatch {
		t.Errorf("flush limit = %d, want %d", sweeper.flushLimit, flushBatch)
	}
}

func TestJanitor_StartStopsWithContext(t *testing.T) {
	j := NewJanitor(&fakeSweeper{}, "@every 1h", time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
