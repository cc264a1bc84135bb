package service

import (
	"context"
	"errors"
	"sync"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
)

var errStore = errors.New("store unavailable")

type fakeCategories struct {
	categories map[string]*entities.Category
}

func newFakeCategories(cats ...*entities.Category) *fakeCategories {
	f := &fakeCategories{categories: make(map[string]*entities.Category)}
	for _, c := range cats {
		f.categories[c.ID] = c
	}
	return f
}

func (f *fakeCategories) List(context.Context) ([]entities.Category, error) {
	var out []entities.Category
	for _, c := range f.categories {
		out = append(out, entities.Category{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (f *fakeCategories) GetWithQuestions(_ context.Context, id string) (*entities.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategories) GetQuestion(_ context.Context, id string) (*entities.Question, error) {
	for _, c := range f.categories {
		for _, q := range c.Questions {
			if q.ID == id {
				q := q
				return &q, nil
			}
		}
	}
	return nil, repository.ErrQuestionNotFound
}

type fakeResults struct {
	mu       sync.Mutex
	failures int // Save calls left that fail
	calls    int
	saved    map[string]entities.QuizResult
	owners   map[string]string

	recentCalls int
	recentErr   error
	summaries   []entities.ResultSummary
	answers     []entities.AnswerRecord
}

func newFakeResults() *fakeResults {
	return &fakeResults{
		saved:  make(map[string]entities.QuizResult),
		owners: make(map[string]string),
	}
}

func (f *fakeResults) Save(_ context.Context, userID string, r entities.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failures > 0 {
		f.failures--
		return errStore
	}
	if _, ok := f.saved[r.AttemptID]; ok {
		return repository.ErrResultExists
	}
	f.saved[r.AttemptID] = r
	f.owners[r.AttemptID] = userID
	return nil
}

func (f *fakeResults) Recent(_ context.Context, _ string, limit int) ([]entities.ResultSummary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recentCalls++
	if f.recentErr != nil {
		return nil, 0, f.recentErr
	}
	out := f.summaries
	if len(out) > limit {
		out = out[:limit]
	}
	return out, len(f.summaries), nil
}

func (f *fakeResults) DetailedAnswers(context.Context, string, int) ([]entities.AnswerRecord, error) {
	return f.answers, nil
}

func (f *fakeResults) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeResults) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSnapshots struct {
	mu    sync.Mutex
	snaps map[string]quiz.Snapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{snaps: make(map[string]quiz.Snapshot)}
}

func (f *fakeSnapshots) Load(_ context.Context, userID string) (quiz.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snaps[userID], nil
}

func (f *fakeSnapshots) Save(_ context.Context, userID string, snap quiz.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[userID] = snap
	return nil
}

type fakeStash struct {
	mu      sync.Mutex
	pending []entities.PendingResult
}

func (f *fakeStash) Push(_ context.Context, userID string, r entities.QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, entities.PendingResult{UserID: userID, Result: r})
	return nil
}

func (f *fakeStash) Pop(context.Context) (entities.PendingResult, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return entities.PendingResult{}, false, nil
	}
	p := f.pending[0]
	f.pending = f.pending[1:]
	return p, true, nil
}

func (f *fakeStash) Len(context.Context) (int64, error) {
	return int64(f.len()), nil
}

func (f *fakeStash) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

type fakeDashboards struct {
	mu          sync.Mutex
	cached      map[string]analytics.Dashboard
	invalidated int
}

func newFakeDashboards() *fakeDashboards {
	return &fakeDashboards{cached: make(map[string]analytics.Dashboard)}
}

func (f *fakeDashboards) Get(_ context.Context, userID string) (analytics.Dashboard, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.cached[userID]
	return d, ok, nil
}

func (f *fakeDashboards) Set(_ context.Context, userID string, d analytics.Dashboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached[userID] = d
	return nil
}

func (f *fakeDashboards) Invalidate(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cached, userID)
	f.invalidated++
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	return nil
}

type fakeBookmarks struct {
	failures int
	items    map[string]entities.Question
}

func newFakeBookmarks() *fakeBookmarks {
	return &fakeBookmarks{items: make(map[string]entities.Question)}
}

func (f *fakeBookmarks) Add(_ context.Context, userID string, q entities.Question) (*entities.Bookmark, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errStore
	}
	f.items[q.ID] = q
	return &entities.Bookmark{UserID: userID, QuestionID: q.ID, Kind: entities.BookmarkVerified, Question: q}, nil
}

func (f *fakeBookmarks) Remove(_ context.Context, _ string, questionID string) error {
	if f.failures > 0 {
		f.failures--
		return errStore
	}
	delete(f.items, questionID)
	return nil
}

func (f *fakeBookmarks) List(_ context.Context, userID string) ([]entities.Bookmark, error) {
	var out []entities.Bookmark
	for id, q := range f.items {
		out = append(out, entities.Bookmark{UserID: userID, QuestionID: id, Question: q, Kind: entities.BookmarkVerified})
	}
	return out, nil
}

func (f *fakeBookmarks) QuestionIDs(context.Context, string) ([]string, error) {
	var ids []string
	for id := range f.items {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeBookmarkCache struct {
	sets map[string]map[string]bool
}

func newFakeBookmarkCache() *fakeBookmarkCache {
	return &fakeBookmarkCache{sets: make(map[string]map[string]bool)}
}

func (f *fakeBookmarkCache) Members(_ context.Context, userID string) ([]string, bool, error) {
	set, ok := f.sets[userID]
	if !ok {
		return nil, false, nil
	}
	var ids []string
	for id := range set {
		ids = append(ids, id)
	}
	return ids, true, nil
}

func (f *fakeBookmarkCache) Replace(_ context.Context, userID string, ids []string) error {
	set := make(map[string]bool)
	for _, id := range ids {
		set[id] = true
	}
	f.sets[userID] = set
	return nil
}

// Add only touches a cached set, like the redis cache.
func (f *fakeBookmarkCache) Add(_ context.Context, userID, questionID string) error {
	if set, ok := f.sets[userID]; ok {
		set[questionID] = true
	}
	return nil
}

func (f *fakeBookmarkCache) Remove(_ context.Context, userID, questionID string) error {
	delete(f.sets[userID], questionID)
	return nil
}

func (f *fakeBookmarkCache) has(userID, questionID string) bool {
	return f.sets[userID][questionID]
}
