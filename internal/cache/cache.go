// Package cache is a best-effort redis layer for the dashboard summary.
// Misses and redis failures both fall through to a fresh computation;
// nothing here is load-bearing for correctness.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pocketsalon/salon-manager/internal/config"
)

const dashboardTTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
}

func New(cfg *config.Config) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
	}
}

func dashboardKey(userID uint) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

// GetDashboard unmarshals a cached summary into dest. Returns false on
// miss or any redis/decoding failure.
func (c *Cache) GetDashboard(ctx context.Context, userID uint, dest any) bool {
	raw, err := c.client.Get(ctx, dashboardKey(userID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) SetDashboard(ctx context.Context, userID uint, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, dashboardKey(userID), raw, dashboardTTL)
}

// InvalidateDashboard drops the cached summary after any record write.
func (c *Cache) InvalidateDashboard(ctx context.Context, userID uint) {
	c.client.Del(ctx, dashboardKey(userID))
}
