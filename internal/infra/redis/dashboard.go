package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
)

// DashboardCache memoizes computed dashboards per user.
type DashboardCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewDashboardCache(client *goredis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

// Get returns the memoized dashboard; ok is false on a miss.
func (c *DashboardCache) Get(ctx context.Context, userID string) (d analytics.Dashboard, ok bool, err error) {
	raw, err := c.client.Get(ctx, key("dashboard", userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return d, false, nil
		}
		return d, false, fmt.Errorf("get dashboard: %w", err)
	}

	if err := json.Unmarshal(raw, &d); err != nil {
		// A payload from an older layout is treated as a miss.
		return analytics.Dashboard{}, false, nil
	}

	return d, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, userID string, d analytics.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}

	if err := c.client.Set(ctx, key("dashboard", userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard: %w", err)
	}
	return nil
}

func (c *DashboardCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, key("dashboard", userID)).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard: %w", err)
	}
	return nil
}
