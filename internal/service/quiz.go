package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
	"github.com/aliskhannn/nqesh-reviewer/internal/metrics"
	"github.com/aliskhannn/nqesh-reviewer/internal/storage"
)

// SaveStatus tracks persistence of a completed attempt.
type SaveStatus string

const (
	SaveNone    SaveStatus = "none"
	SavePending SaveStatus = "pending"
	SaveSaved   SaveStatus = "saved"
	SaveFailed  SaveStatus = "failed"
)

type QuizConfig struct {
	QuestionSeconds int
	TickInterval    time.Duration
	SaveRetryDelay  time.Duration
	SaveTimeout     time.Duration
}

func (c QuizConfig) withDefaults() QuizConfig {
	if c.QuestionSeconds <= 0 {
		c.QuestionSeconds = quiz.QuestionSeconds
	}
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.SaveRetryDelay <= 0 {
		c.SaveRetryDelay = 500 * time.Millisecond
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = 10 * time.Second
	}
	return c
}

// TimeoutListener is told when a user's question timed out.
type TimeoutListener func(userID string, answer entities.UserAnswer)

// LevelListener is told when a user's countdown crosses a threshold.
type LevelListener func(userID, questionID string, level quiz.Level)

type saveRecord struct {
	attemptID string
	status    SaveStatus
}

// QuizService drives per-user quiz sessions and persists their results.
type QuizService struct {
	categories CategoryRepository
	results    ResultRepository
	snapshots  SnapshotStore
	stash      ResultStash
	dashboards DashboardCache
	publisher  EventPublisher
	sessions   *storage.SessionStorage
	logger     *zap.Logger
	cfg        QuizConfig

	// spawn runs background persistence.
	spawn func(func())

	mu    sync.Mutex
	saves map[string]saveRecord

	listenersMu sync.RWMutex
	onTimeout   []TimeoutListener
	onLevel     []LevelListener
}

func NewQuizService(
	categories CategoryRepository,
	results ResultRepository,
	snapshots SnapshotStore,
	stash ResultStash,
	dashboards DashboardCache,
	publisher EventPublisher,
	sessions *storage.SessionStorage,
	logger *zap.Logger,
	cfg QuizConfig,
) *QuizService {
	if publisher == nil {
		publisher = NopPublisher{}
	}

	return &QuizService{
		categories: categories,
		results:    results,
		snapshots:  snapshots,
		stash:      stash,
		dashboards: dashboards,
		publisher:  publisher,
		sessions:   sessions,
		logger:     logger,
		cfg:        cfg.withDefaults(),
		spawn:      func(fn func()) { go fn() },
		saves:      make(map[string]saveRecord),
	}
}

// OnTimeout registers a listener for timed-out questions.
func (s *QuizService) OnTimeout(l TimeoutListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.onTimeout = append(s.onTimeout, l)
}

// OnLevel registers a listener for countdown threshold crossings.
func (s *QuizService) OnLevel(l LevelListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.onLevel = append(s.onLevel, l)
}

// Categories lists the categories without their questions.
func (s *QuizService) Categories(ctx context.Context) ([]entities.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// StartQuiz loads the category and begins a new attempt, discarding any
// previous one.
func (s *QuizService) StartQuiz(ctx context.Context, id entities.Identity, categoryID string) (QuizView, error) {
	if err := requireSignedIn(id); err != nil {
		return QuizView{}, err
	}

	category, err := s.categories.GetWithQuestions(ctx, categoryID)
	if err != nil {
		return QuizView{}, fmt.Errorf("load category: %w", err)
	}

	sess := s.session(ctx, id.UserID)

	st, err := sess.Start(category)
	if err != nil {
		return QuizView{}, fmt.Errorf("start quiz: %w", err)
	}

	metrics.QuizzesStarted.WithLabelValues(category.ID).Inc()
	s.saveSnapshot(ctx, id.UserID, sess)

	s.logger.Info("quiz started",
		zap.String("user_id", id.UserID),
		zap.String("category_id", category.ID),
		zap.String("attempt_id", st.AttemptID),
		zap.Int("questions", st.TotalQuestions()),
	)

	return s.view(id.UserID, sess, st), nil
}

// Answer records the user's choice for the current question using the
// server-side countdown for the remaining time.
func (s *QuizService) Answer(ctx context.Context, id entities.Identity, questionID string, selected *int) (QuizView, error) {
	sess, err := s.active(id)
	if err != nil {
		return QuizView{}, err
	}

	a, err := sess.Submit(questionID, selected)
	if err != nil {
		return QuizView{}, fmt.Errorf("answer: %w", err)
	}

	metrics.Answers.WithLabelValues(metrics.AnswerOutcome(a.IsCorrect, a.TimedOut())).Inc()

	return s.view(id.UserID, sess, sess.State()), nil
}

// Next moves to the following question, completing the attempt after the
// last one.
func (s *QuizService) Next(ctx context.Context, id entities.Identity) (QuizView, error) {
	sess, err := s.active(id)
	if err != nil {
		return QuizView{}, err
	}

	st, err := sess.Next()
	if err != nil {
		return QuizView{}, fmt.Errorf("next question: %w", err)
	}

	if st.Complete {
		s.finish(id.UserID, sess, st)
	}

	return s.view(id.UserID, sess, st), nil
}

// Complete finalizes the attempt early. Repeated calls are harmless.
func (s *QuizService) Complete(ctx context.Context, id entities.Identity) (QuizView, error) {
	sess, err := s.active(id)
	if err != nil {
		return QuizView{}, err
	}

	st, err := sess.Complete()
	if err != nil {
		return QuizView{}, fmt.Errorf("complete quiz: %w", err)
	}

	s.finish(id.UserID, sess, st)

	return s.view(id.UserID, sess, st), nil
}

// Reset returns the session to idle, keeping the last category.
func (s *QuizService) Reset(ctx context.Context, id entities.Identity) (QuizView, error) {
	if err := requireSignedIn(id); err != nil {
		return QuizView{}, err
	}

	sess := s.session(ctx, id.UserID)
	st := sess.Reset()
	s.saveSnapshot(ctx, id.UserID, sess)

	return s.view(id.UserID, sess, st), nil
}

// Current returns the user's session as it is now.
func (s *QuizService) Current(ctx context.Context, id entities.Identity) (QuizView, error) {
	if err := requireSignedIn(id); err != nil {
		return QuizView{}, err
	}

	sess := s.session(ctx, id.UserID)
	return s.view(id.UserID, sess, sess.State()), nil
}

// Result returns the completed attempt. It stays readable whether or not it
// was persisted.
func (s *QuizService) Result(ctx context.Context, id entities.Identity) (QuizView, error) {
	sess, err := s.active(id)
	if err != nil {
		if errors.Is(err, ErrQuizNotLoaded) {
			return QuizView{}, ErrNoResult
		}
		return QuizView{}, err
	}

	st := sess.State()
	if st.Result == nil {
		return QuizView{}, ErrNoResult
	}

	return s.view(id.UserID, sess, st), nil
}

// Abandon stops the user's timer and drops the in-memory session.
func (s *QuizService) Abandon(ctx context.Context, id entities.Identity) error {
	if err := requireSignedIn(id); err != nil {
		return err
	}

	s.drop(ctx, id.UserID)
	return nil
}

// EvictIdle drops sessions without activity since cutoff.
func (s *QuizService) EvictIdle(ctx context.Context, cutoff time.Time) int {
	ids := s.sessions.IdleSince(cutoff)
	for _, userID := range ids {
		s.drop(ctx, userID)
	}
	return len(ids)
}

// FlushStash retries up to limit stashed results. A result that fails again
// is pushed back and flushing stops.
func (s *QuizService) FlushStash(ctx context.Context, limit int) (int, error) {
	defer s.reportStash(ctx)

	flushed := 0

	for flushed < limit {
		p, ok, err := s.stash.Pop(ctx)
		if err != nil {
			return flushed, fmt.Errorf("pop stash: %w", err)
		}
		if !ok {
			return flushed, nil
		}

		err = s.results.Save(ctx, p.UserID, p.Result)
		if err != nil && !errors.Is(err, repository.ErrResultExists) {
			if perr := s.stash.Push(ctx, p.UserID, p.Result); perr != nil {
				err = multierr.Append(err, perr)
			}
			return flushed, fmt.Errorf("flush result %s: %w", p.Result.AttemptID, err)
		}

		flushed++
		metrics.ResultSaves.WithLabelValues("flushed").Inc()
		s.setSaveStatus(p.UserID, p.Result.AttemptID, SaveSaved)
		s.afterSave(ctx, p.UserID, p.Result)
	}

	return flushed, nil
}

func (s *QuizService) active(id entities.Identity) (*quiz.Session, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, err
	}

	sess, ok := s.sessions.Get(id.UserID)
	if !ok {
		return nil, ErrQuizNotLoaded
	}
	return sess, nil
}

func (s *QuizService) session(ctx context.Context, userID string) *quiz.Session {
	if sess, ok := s.sessions.Get(userID); ok {
		return sess
	}

	snap, err := s.snapshots.Load(ctx, userID)
	if err != nil {
		s.logger.Warn("load session snapshot", zap.String("user_id", userID), zap.Error(err))
	}

	sess, created := s.sessions.GetOrCreate(userID, func() *quiz.Session {
		return quiz.Restore(snap, quiz.Options{
			QuestionSeconds: s.cfg.QuestionSeconds,
			TickInterval:    s.cfg.TickInterval,
		}, s.hooksFor(userID))
	})
	if created {
		metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	}

	return sess
}

func (s *QuizService) drop(ctx context.Context, userID string) {
	sess, ok := s.sessions.Delete(userID)
	if !ok {
		return
	}

	sess.Close()
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	s.saveSnapshot(ctx, userID, sess)
}

func (s *QuizService) saveSnapshot(ctx context.Context, userID string, sess *quiz.Session) {
	if err := s.snapshots.Save(ctx, userID, sess.Snapshot()); err != nil {
		s.logger.Warn("save session snapshot", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *QuizService) hooksFor(userID string) quiz.Hooks {
	return quiz.Hooks{
		OnTimeout: func(a entities.UserAnswer) {
			metrics.Answers.WithLabelValues(metrics.AnswerOutcome(false, true)).Inc()

			s.listenersMu.RLock()
			listeners := append([]TimeoutListener(nil), s.onTimeout...)
			s.listenersMu.RUnlock()

			for _, l := range listeners {
				l(userID, a)
			}
		},
		OnLevel: func(questionID string, level quiz.Level) {
			s.listenersMu.RLock()
			listeners := append([]LevelListener(nil), s.onLevel...)
			s.listenersMu.RUnlock()

			for _, l := range listeners {
				l(userID, questionID, level)
			}
		},
	}
}

// finish hands a completed attempt to background persistence, at most once.
func (s *QuizService) finish(userID string, sess *quiz.Session, st quiz.State) {
	if st.Result == nil || !sess.MarkSaved() {
		return
	}

	result := *st.Result
	metrics.QuizzesCompleted.WithLabelValues(result.CategoryID).Inc()
	s.setSaveStatus(userID, result.AttemptID, SavePending)

	s.logger.Info("quiz completed",
		zap.String("user_id", userID),
		zap.String("attempt_id", result.AttemptID),
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions),
	)

	s.spawn(func() { s.persist(userID, result) })
}

func (s *QuizService) persist(userID string, result entities.QuizResult) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
	defer cancel()

	err := retryOnce(ctx, s.cfg.SaveRetryDelay, func(ctx context.Context) error {
		err := s.results.Save(ctx, userID, result)
		if errors.Is(err, repository.ErrResultExists) {
			return nil
		}
		if err != nil {
			metrics.ResultSaves.WithLabelValues("error").Inc()
		}
		return err
	})
	if err != nil {
		s.logger.Warn("save quiz result failed, stashing",
			zap.String("user_id", userID),
			zap.String("attempt_id", result.AttemptID),
			zap.Error(err),
		)
		metrics.ResultSaves.WithLabelValues("failed").Inc()
		s.setSaveStatus(userID, result.AttemptID, SaveFailed)

		stashCtx, stashCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stashCancel()
		if serr := s.stash.Push(stashCtx, userID, result); serr != nil {
			s.logger.Error("stash quiz result",
				zap.String("user_id", userID),
				zap.String("attempt_id", result.AttemptID),
				zap.Error(serr),
			)
			return
		}
		metrics.ResultSaves.WithLabelValues("stashed").Inc()
		s.reportStash(stashCtx)
		return
	}

	metrics.ResultSaves.WithLabelValues("saved").Inc()
	s.setSaveStatus(userID, result.AttemptID, SaveSaved)
	s.afterSave(ctx, userID, result)
}

func (s *QuizService) reportStash(ctx context.Context) {
	n, err := s.stash.Len(ctx)
	if err != nil {
		s.logger.Warn("read stash length", zap.Error(err))
		return
	}
	metrics.PendingResults.Set(float64(n))
}

func (s *QuizService) afterSave(ctx context.Context, userID string, result entities.QuizResult) {
	if err := s.dashboards.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("invalidate dashboard", zap.String("user_id", userID), zap.Error(err))
	}

	err := s.publisher.Publish(ctx, EventQuizCompleted, QuizCompletedEvent{
		UserID:         userID,
		AttemptID:      result.AttemptID,
		CategoryID:     result.CategoryID,
		CategoryName:   result.CategoryName,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage(),
		CompletedAt:    result.CompletedAt,
	})
	if err != nil {
		s.logger.Warn("publish quiz completed", zap.String("attempt_id", result.AttemptID), zap.Error(err))
	}
}

func (s *QuizService) setSaveStatus(userID, attemptID string, status SaveStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.saves[userID]
	if status != SavePending && ok && rec.attemptID != attemptID {
		// A newer attempt owns the record.
		return
	}
	s.saves[userID] = saveRecord{attemptID: attemptID, status: status}
}

// SaveStatus reports how persistence of attemptID went.
func (s *QuizService) SaveStatus(userID, attemptID string) SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.saves[userID]
	if !ok || rec.attemptID != attemptID {
		return SaveNone
	}
	return rec.status
}
