package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
)

func newBookmarkFixture() (*BookmarkService, *fakeBookmarks, *fakeBookmarkCache) {
	repo := newFakeBookmarks()
	cache := newFakeBookmarkCache()
	svc := NewBookmarkService(repo, cache, newFakeCategories(testCategory("c1", 2)), zap.NewNop(), time.Millisecond)
	return svc, repo, cache
}

func TestBookmarkService_Add(t *testing.T) {
	svc, repo, cache := newBookmarkFixture()
	ctx := context.Background()
	id := entities.SignedInAs("u1")

	b, err := svc.Add(ctx, id, "c1-q1")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Kind != entities.BookmarkVerified || b.Question.Prompt == "" {
		t.Errorf("unexpected bookmark: %+v", b)
	}
	if _, ok := repo.items["c1-q1"]; !ok || !cache.has("u1", "c1-q1") {
		t.Error("bookmark missing from store or cache")
	}

	ok, err := svc.IsBookmarked(ctx, id, "c1-q1")
	if err != nil || !ok {
		t.Errorf("IsBookmarked = %v, %v", ok, err)
	}
}

func TestBookmarkService_AddRetriesThenRollsBack(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		wantErr  bool
	}{
		{name: "succeeds on retry", failures: 1},
		{name: "rolled back", failures: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newBookmarkFixture()
			repo.failures = tt.failures

			_, err := svc.Add(context.Background(), entities.SignedInAs("u1"), "c1-q2")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Add error = %v, wantErr %v", err, tt.wantErr)
			}
			if cache.has("u1", "c1-q2") == tt.wantErr {
				t.Errorf("cache membership = %v after wantErr=%v", cache.has("u1", "c1-q2"), tt.wantErr)
			}
		})
	}
}

func TestBookmarkService_RemoveRollsBack(t *testing.T) {
	svc, repo, cache := newBookmarkFixture()
	ctx := context.Background()
	id := entities.SignedInAs("u1")

	if _, err := svc.Add(ctx, id, "c1-q1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo.failures = 2
	if err := svc.Remove(ctx, id, "c1-q1"); err == nil {
		t.Fatal("want error")
	}
	if !cache.has("u1", "c1-q1") {
		t.Error("failed remove not rolled back in cache")
	}

	if err := svc.Remove(ctx, id, "c1-q1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if cache.has("u1", "c1-q1") {
		t.Error("removed bookmark still cached")
	}
}

func TestBookmarkService_AddUnknownQuestion(t *testing.T) {
	svc, _, cache := newBookmarkFixture()

	_, err := svc.Add(context.Background(), entities.SignedInAs("u1"), "nope")
	if !errors.Is(err, repository.ErrQuestionNotFound) {
		t.Errorf("want ErrQuestionNotFound, got %v", err)
	}
	if cache.has("u1", "nope") {
		t.Error("unknown question cached")
	}
}

func TestBookmarkService_AddOnColdCacheKeepsStoredBookmarks(t *testing.T) {
	svc, repo, cache := newBookmarkFixture()
	ctx := context.Background()
	id := entities.SignedInAs("u1")
	repo.items["c1-q1"] = entities.Question{ID: "c1-q1"}

	if _, err := svc.Add(ctx, id, "c1-q2"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, qid := range []string{"c1-q1", "c1-q2"} {
		ok, err := svc.IsBookmarked(ctx, id, qid)
		if err != nil || !ok {
			t.Errorf("IsBookmarked(%s) = %v, %v", qid, ok, err)
		}
		if !cache.has("u1", qid) {
			t.Errorf("%s missing from cache", qid)
		}
	}
}

func TestBookmarkService_IsBookmarkedFillsCache(t *testing.T) {
	svc, repo, cache := newBookmarkFixture()
	repo.items["c1-q2"] = entities.Question{ID: "c1-q2"}

	ok, err := svc.IsBookmarked(context.Background(), entities.SignedInAs("u1"), "c1-q2")
	if err != nil || !ok {
		t.Fatalf("IsBookmarked = %v, %v", ok, err)
	}
	if !cache.has("u1", "c1-q2") {
		t.Error("cache not filled on miss")
	}
}
