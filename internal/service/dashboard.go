package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/metrics"
)

const recentResultsLimit = 5

type DashboardConfig struct {
	HistoryLimit int // submissions fed to the aggregates
}

// dashboardSlot tracks the refreshes of one user. It lives only while a
// computation for that user is in flight.
type dashboardSlot struct {
	generation uint64
	applied    uint64
	inflight   int
	dashboard  analytics.Dashboard
	ok         bool
}

// DashboardService computes the performance dashboard from stored history.
type DashboardService struct {
	results ResultRepository
	cache   DashboardCache
	logger  *zap.Logger
	cfg     DashboardConfig

	mu    sync.Mutex
	slots map[string]*dashboardSlot
}

func NewDashboardService(
	results ResultRepository,
	cache DashboardCache,
	logger *zap.Logger,
	cfg DashboardConfig,
) *DashboardService {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 100
	}

	return &DashboardService{
		results: results,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
		slots:   make(map[string]*dashboardSlot),
	}
}

// Load returns the memoized dashboard or computes it.
func (s *DashboardService) Load(ctx context.Context, id entities.Identity) (analytics.Dashboard, error) {
	if err := requireSignedIn(id); err != nil {
		return analytics.Dashboard{}, err
	}

	d, ok, err := s.cache.Get(ctx, id.UserID)
	if err != nil {
		s.logger.Warn("read dashboard cache", zap.String("user_id", id.UserID), zap.Error(err))
	}
	if ok {
		return d, nil
	}

	return s.recompute(ctx, id.UserID)
}

// Refresh drops the memo and recomputes. When several refreshes overlap,
// a computation that finishes after a newer one is discarded and the newer
// dashboard is returned instead.
func (s *DashboardService) Refresh(ctx context.Context, id entities.Identity) (analytics.Dashboard, error) {
	if err := requireSignedIn(id); err != nil {
		return analytics.Dashboard{}, err
	}

	if err := s.cache.Invalidate(ctx, id.UserID); err != nil {
		s.logger.Warn("invalidate dashboard cache", zap.String("user_id", id.UserID), zap.Error(err))
	}

	return s.recompute(ctx, id.UserID)
}

// RecentResults returns the newest results and the all-time count.
func (s *DashboardService) RecentResults(ctx context.Context, id entities.Identity, limit int) ([]entities.ResultSummary, int, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, 0, err
	}
	switch {
	case limit <= 0:
		limit = recentResultsLimit
	case limit > s.cfg.HistoryLimit:
		limit = s.cfg.HistoryLimit
	}

	results, total, err := s.results.Recent(ctx, id.UserID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("recent results: %w", err)
	}
	return results, total, nil
}

func (s *DashboardService) recompute(ctx context.Context, userID string) (analytics.Dashboard, error) {
	gen := s.begin(userID)
	defer s.release(userID)

	start := time.Now()
	d, err := s.compute(ctx, userID)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	metrics.DashboardBuild.Observe(time.Since(start).Seconds())

	latest, applied := s.apply(userID, gen, d)
	if !applied {
		s.logger.Debug("discarding stale dashboard",
			zap.String("user_id", userID),
			zap.Uint64("generation", gen),
		)
		return latest, nil
	}

	if err := s.cache.Set(ctx, userID, d); err != nil {
		s.logger.Warn("write dashboard cache", zap.String("user_id", userID), zap.Error(err))
	}

	return d, nil
}

func (s *DashboardService) compute(ctx context.Context, userID string) (analytics.Dashboard, error) {
	var in analytics.Input

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		recent, total, err := s.results.Recent(ctx, userID, recentResultsLimit)
		if err != nil {
			return fmt.Errorf("recent results: %w", err)
		}
		in.Recent, in.TotalResults = recent, total
		return nil
	})
	p.Go(func(ctx context.Context) error {
		history, _, err := s.results.Recent(ctx, userID, s.cfg.HistoryLimit)
		if err != nil {
			return fmt.Errorf("result history: %w", err)
		}
		in.Results = history
		return nil
	})
	p.Go(func(ctx context.Context) error {
		answers, err := s.results.DetailedAnswers(ctx, userID, s.cfg.HistoryLimit)
		if err != nil {
			return fmt.Errorf("detailed answers: %w", err)
		}
		in.Answers = answers
		return nil
	})

	if err := p.Wait(); err != nil {
		return analytics.Dashboard{}, err
	}

	return analytics.Build(in), nil
}

func (s *DashboardService) begin(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[userID]
	if !ok {
		slot = &dashboardSlot{}
		s.slots[userID] = slot
	}
	slot.generation++
	slot.inflight++
	return slot.generation
}

// release ends one computation started by begin and drops the slot when
// none is left.
func (s *DashboardService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[userID]
	if !ok {
		return
	}
	slot.inflight--
	if slot.inflight <= 0 {
		delete(s.slots, userID)
	}
}

// apply records d as the user's latest dashboard unless a newer generation
// was applied already, in which case that one is returned.
func (s *DashboardService) apply(userID string, gen uint64, d analytics.Dashboard) (analytics.Dashboard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[userID]
	if !ok {
		return d, true
	}
	if slot.ok && slot.applied > gen {
		return slot.dashboard, false
	}

	slot.applied = gen
	slot.dashboard = d
	slot.ok = true

	return d, true
}
