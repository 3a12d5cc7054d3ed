package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/config"
	"github.com/Rsgr172026/KanbanMate/internal/model"
	"github.com/Rsgr172026/KanbanMate/pkg/metrics"
)

const taskListTTL = 60 * time.Second

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// TaskCache is a read-through cache for an owner's full task list.
// Every mutation invalidates the owner's entry, so a stale read window
// is bounded by the TTL only when invalidation itself fails.
type TaskCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewTaskCache(rdb *redis.Client, logger *zap.Logger) *TaskCache {
	return &TaskCache{rdb: rdb, logger: logger}
}

func key(ownerID string) string {
	return "tasks:" + ownerID
}

// Get returns the cached task list for an owner and whether it was present.
func (c *TaskCache) Get(ctx context.Context, ownerID string) ([]model.Task, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.IncrementTaskCacheLookup("miss")
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Task cache read failed",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		metrics.IncrementTaskCacheLookup("miss")
		return nil, false
	}

	var tasks []model.Task
	if err := json.Unmarshal(val, &tasks); err != nil {
		c.logger.Warn("Task cache entry is corrupt, dropping it",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		c.rdb.Del(ctx, key(ownerID))
		metrics.IncrementTaskCacheLookup("miss")
		return nil, false
	}

	metrics.IncrementTaskCacheLookup("hit")
	return tasks, true
}

// Set stores the task list for an owner.
func (c *TaskCache) Set(ctx context.Context, ownerID string, tasks []model.Task) {
	if c == nil {
		return
	}
	val, err := json.Marshal(tasks)
	if err != nil {
		c.logger.Warn("Failed to marshal task list for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key(ownerID), val, taskListTTL).Err(); err != nil {
		c.logger.Warn("Task cache write failed",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
	}
}

// Invalidate drops the cached list for an owner.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(ownerID)).Err(); err != nil {
		c.logger.Warn("Task cache invalidation failed",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
	}
}
