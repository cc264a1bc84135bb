package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// BookmarkService saves questions for later review. Writes are applied to
// the cached id set first and rolled back if the store rejects them.
type BookmarkService struct {
	repo       BookmarkRepository
	cache      BookmarkCache
	categories CategoryRepository
	logger     *zap.Logger
	retryDelay time.Duration
}

func NewBookmarkService(
	repo BookmarkRepository,
	cache BookmarkCache,
	categories CategoryRepository,
	logger *zap.Logger,
	retryDelay time.Duration,
) *BookmarkService {
	return &BookmarkService{
		repo:       repo,
		cache:      cache,
		categories: categories,
		logger:     logger,
		retryDelay: retryDelay,
	}
}

// Add bookmarks a question with a snapshot of its current content.
func (s *BookmarkService) Add(ctx context.Context, id entities.Identity, questionID string) (*entities.Bookmark, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, err
	}

	q, err := s.categories.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}

	s.warm(ctx, id.UserID)
	s.optimistic(ctx, id.UserID, func(ctx context.Context) error {
		return s.cache.Add(ctx, id.UserID, questionID)
	})

	var b *entities.Bookmark
	err = retryOnce(ctx, s.retryDelay, func(ctx context.Context) error {
		var err error
		b, err = s.repo.Add(ctx, id.UserID, *q)
		return err
	})
	if err != nil {
		s.optimistic(ctx, id.UserID, func(ctx context.Context) error {
			return s.cache.Remove(ctx, id.UserID, questionID)
		})
		return nil, fmt.Errorf("add bookmark: %w", err)
	}

	return b, nil
}

// Remove deletes a bookmark.
func (s *BookmarkService) Remove(ctx context.Context, id entities.Identity, questionID string) error {
	if err := requireSignedIn(id); err != nil {
		return err
	}

	s.warm(ctx, id.UserID)
	s.optimistic(ctx, id.UserID, func(ctx context.Context) error {
		return s.cache.Remove(ctx, id.UserID, questionID)
	})

	err := retryOnce(ctx, s.retryDelay, func(ctx context.Context) error {
		return s.repo.Remove(ctx, id.UserID, questionID)
	})
	if err != nil {
		s.optimistic(ctx, id.UserID, func(ctx context.Context) error {
			return s.cache.Add(ctx, id.UserID, questionID)
		})
		return fmt.Errorf("remove bookmark: %w", err)
	}

	return nil
}

// List returns the user's bookmarks. Snapshots that cannot be decoded come
// back as placeholders.
func (s *BookmarkService) List(ctx context.Context, id entities.Identity) ([]entities.Bookmark, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, err
	}

	bookmarks, err := s.repo.List(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	ids := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.QuestionID)
	}
	s.optimistic(ctx, id.UserID, func(ctx context.Context) error {
		return s.cache.Replace(ctx, id.UserID, ids)
	})

	return bookmarks, nil
}

// IsBookmarked answers from the cached set, filling it on a miss.
func (s *BookmarkService) IsBookmarked(ctx context.Context, id entities.Identity, questionID string) (bool, error) {
	if err := requireSignedIn(id); err != nil {
		return false, err
	}

	ids, err := s.members(ctx, id.UserID)
	if err != nil {
		return false, err
	}

	for _, qid := range ids {
		if qid == questionID {
			return true, nil
		}
	}
	return false, nil
}

// members reads the cached id set, loading it from the store on a miss.
func (s *BookmarkService) members(ctx context.Context, userID string) ([]string, error) {
	ids, ok, err := s.cache.Members(ctx, userID)
	if err != nil {
		s.logger.Warn("read bookmark cache", zap.String("user_id", userID), zap.Error(err))
	}
	if ok {
		return ids, nil
	}

	ids, err = s.repo.QuestionIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bookmark ids: %w", err)
	}
	s.optimistic(ctx, userID, func(ctx context.Context) error {
		return s.cache.Replace(ctx, userID, ids)
	})
	return ids, nil
}

// warm makes sure the cached set holds every stored bookmark before a write
// is applied to it.
func (s *BookmarkService) warm(ctx context.Context, userID string) {
	if _, err := s.members(ctx, userID); err != nil {
		s.logger.Warn("warm bookmark cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// optimistic applies a cache change; a cache failure never fails the call.
func (s *BookmarkService) optimistic(ctx context.Context, userID string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		s.logger.Warn("bookmark cache", zap.String("user_id", userID), zap.Error(err))
	}
}
