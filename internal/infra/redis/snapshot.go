package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
)

// SnapshotStore keeps the durable part of each user's quiz session.
type SnapshotStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *goredis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

// Load returns the stored snapshot, or an empty one when none exists.
func (s *SnapshotStore) Load(ctx context.Context, userID string) (quiz.Snapshot, error) {
	var snap quiz.Snapshot

	raw, err := s.client.Get(ctx, key("session", userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return snap, nil
		}
		return snap, fmt.Errorf("load snapshot: %w", err)
	}

	if err := json.Unmarshal(raw, &snap); err != nil {
		return quiz.Snapshot{}, nil
	}

	return snap, nil
}

func (s *SnapshotStore) Save(ctx context.Context, userID string, snap quiz.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.client.Set(ctx, key("session", userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
