package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// BookmarkCache holds the set of bookmarked question ids per user.
type BookmarkCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewBookmarkCache(client *goredis.Client, ttl time.Duration) *BookmarkCache {
	return &BookmarkCache{client: client, ttl: ttl}
}

// Members returns the cached ids; ok is false when the set is not cached.
func (c *BookmarkCache) Members(ctx context.Context, userID string) ([]string, bool, error) {
	k := key("bookmarks", userID)

	n, err := c.client.Exists(ctx, k).Result()
	if err != nil {
		return nil, false, fmt.Errorf("bookmark cache exists: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}

	members, err := c.client.SMembers(ctx, k).Result()
	if err != nil {
		return nil, false, fmt.Errorf("bookmark cache members: %w", err)
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m != "" {
			ids = append(ids, m)
		}
	}

	return ids, true, nil
}

// Replace overwrites the cached set. The empty placeholder member keeps an
// empty set distinguishable from a miss.
func (c *BookmarkCache) Replace(ctx context.Context, userID string, ids []string) error {
	k := key("bookmarks", userID)

	members := make([]any, 0, len(ids)+1)
	members = append(members, "")
	for _, id := range ids {
		members = append(members, id)
	}

	_, err := c.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, k)
		p.SAdd(ctx, k, members...)
		p.Expire(ctx, k, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bookmark cache replace: %w", err)
	}
	return nil
}

// Add puts questionID into a cached set. A set that is not cached stays
// absent so the next read loads the full list from the store.
func (c *BookmarkCache) Add(ctx context.Context, userID, questionID string) error {
	if err := c.update(ctx, userID, func(p goredis.Pipeliner, k string) {
		p.SAdd(ctx, k, questionID)
	}); err != nil {
		return fmt.Errorf("bookmark cache add: %w", err)
	}
	return nil
}

func (c *BookmarkCache) Remove(ctx context.Context, userID, questionID string) error {
	if err := c.update(ctx, userID, func(p goredis.Pipeliner, k string) {
		p.SRem(ctx, k, questionID)
	}); err != nil {
		return fmt.Errorf("bookmark cache remove: %w", err)
	}
	return nil
}

func (c *BookmarkCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, key("bookmarks", userID)).Err(); err != nil {
		return fmt.Errorf("bookmark cache invalidate: %w", err)
	}
	return nil
}

// update applies fn to the user's set only while the set exists. A set
// changed concurrently is dropped instead.
func (c *BookmarkCache) update(ctx context.Context, userID string, fn func(p goredis.Pipeliner, k string)) error {
	k := key("bookmarks", userID)

	err := c.client.Watch(ctx, func(tx *goredis.Tx) error {
		n, err := tx.Exists(ctx, k).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			fn(p, k)
			p.Expire(ctx, k, c.ttl)
			return nil
		})
		return err
	}, k)
	if errors.Is(err, goredis.TxFailedErr) {
		return c.Invalidate(ctx, userID)
	}
	return err
}
