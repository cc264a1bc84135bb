package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// ResultStash is a FIFO of results that could not be persisted.
type ResultStash struct {
	client *goredis.Client
	logger *zap.Logger
}

func NewResultStash(client *goredis.Client, logger *zap.Logger) *ResultStash {
	return &ResultStash{client: client, logger: logger}
}

func (s *ResultStash) Push(ctx context.Context, userID string, result entities.QuizResult) error {
	raw, err := json.Marshal(entities.PendingResult{UserID: userID, Result: result})
	if err != nil {
		return fmt.Errorf("encode pending result: %w", err)
	}

	if err := s.client.RPush(ctx, key("pending_results"), raw).Err(); err != nil {
		return fmt.Errorf("stash result: %w", err)
	}
	return nil
}

// Pop removes the oldest pending result; ok is false when the stash is empty.
// Entries that do not decode are logged and skipped.
func (s *ResultStash) Pop(ctx context.Context) (entities.PendingResult, bool, error) {
	for {
		raw, err := s.client.LPop(ctx, key("pending_results")).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return entities.PendingResult{}, false, nil
			}
			return entities.PendingResult{}, false, fmt.Errorf("pop pending result: %w", err)
		}

		var p entities.PendingResult
		if err := json.Unmarshal(raw, &p); err != nil {
			s.logger.Warn("dropping undecodable pending result",
				zap.ByteString("payload", raw),
				zap.Error(err),
			)
			continue
		}

		return p, true, nil
	}
}

func (s *ResultStash) Len(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, key("pending_results")).Result()
	if err != nil {
		return 0, fmt.Errorf("stash length: %w", err)
	}
	return n, nil
}
