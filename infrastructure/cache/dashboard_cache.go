package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type IDashboardCache interface {
	GetDashboard(ctx context.Context, userID int64, dest interface{}) (bool, error)
	SetDashboard(ctx context.Context, userID int64, value interface{}) error
	InvalidateDashboard(ctx context.Context, userID int64) error
}

// dashboardTTL keeps stats fresh within one scheduler tick
const dashboardTTL = 60 * time.Second

type DashboardCache struct {
	RedisClient *redis.Client
}

func NewDashboardCache(redisClient *redis.Client) IDashboardCache {
	return &DashboardCache{
		RedisClient: redisClient,
	}
}

func dashboardKey(userID int64) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

func (dashboardCache *DashboardCache) GetDashboard(ctx context.Context, userID int64, dest interface{}) (bool, error) {
	if dashboardCache.RedisClient == nil {
		return false, nil
	}
	val, err := dashboardCache.RedisClient.Get(ctx, dashboardKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (dashboardCache *DashboardCache) SetDashboard(ctx context.Context, userID int64, value interface{}) error {
	if dashboardCache.RedisClient == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return dashboardCache.RedisClient.Set(ctx, dashboardKey(userID), payload, dashboardTTL).Err()
}

func (dashboardCache *DashboardCache) InvalidateDashboard(ctx context.Context, userID int64) error {
	if dashboardCache.RedisClient == nil {
		return nil
	}
	return dashboardCache.RedisClient.Del(ctx, dashboardKey(userID)).Err()
}
