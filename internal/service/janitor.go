package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const flushBatch = 50

// SessionSweeper is the part of QuizService the janitor drives.
type SessionSweeper interface {
	EvictIdle(ctx context.Context, cutoff time.Time) int
	FlushStash(ctx context.Context, limit int) (int, error)
}

// Janitor periodically evicts idle quiz sessions and retries stashed
// results.
type Janitor struct {
	sweeper     SessionSweeper
	schedule    string
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewJanitor(
	sweeper SessionSweeper,
	schedule string,
	idleTimeout time.Duration,
	logger *zap.Logger,
) *Janitor {
	return &Janitor{
		sweeper:     sweeper,
		schedule:    schedule,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Start runs the schedule until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, func() {
		j.RunOnce(ctx)
	})
	if err != nil {
		j.logger.Error("failed to add janitor job", zap.String("schedule", j.schedule), zap.Error(err))
		return
	}

	c.Start()
	j.logger.Info("janitor started", zap.String("schedule", j.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("janitor stopped")
}

// RunOnce performs a single sweep.
func (j *Janitor) RunOnce(ctx context.Context) {
	if evicted := j.sweeper.EvictIdle(ctx, j.now().Add(-j.idleTimeout)); evicted > 0 {
		j.logger.Info("evicted idle sessions", zap.Int("count", evicted))
	}

	flushed, err := j.sweeper.FlushStash(ctx, flushBatch)
	if flushed > 0 {
		j.logger.Info("flushed stashed results", zap.Int("count", flushed))
	}
	if err != nil {
		j.logger.Warn("flush stashed results", zap.Error(err))
	}
}
