package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard/domain"
)

type taskBackend interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, id int, u domain.TaskUpdate) (domain.Task, error)
	Delete(ctx context.Context, id int) error
}

const tasksCacheKey = "tasks"

// TaskCache wraps a task store with Redis-backed caching for the list
// path. Every mutation evicts the cached snapshot so reads never serve a
// stale board after a write this process accepted.
type TaskCache struct {
	base  taskBackend
	redis *redis.Client
	ttl   time.Duration
}

// NewTaskCache creates a caching wrapper using the provided Redis client
// and TTL. A nil client degrades to a pass-through.
func NewTaskCache(base taskBackend, client *redis.Client, ttl time.Duration) *TaskCache {
	if base == nil {
		panic("storage.NewTaskCache: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &TaskCache{base: base, redis: client, ttl: ttl}
}

func (c *TaskCache) List(ctx context.Context) ([]domain.Task, error) {
	if tasks, ok := c.loadFromCache(ctx); ok {
		return tasks, nil
	}
	tasks, err := c.base.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, tasks)
	return tasks, nil
}

func (c *TaskCache) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	created, err := c.base.Create(ctx, t)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return created, nil
}

func (c *TaskCache) Update(ctx context.Context, id int, u domain.TaskUpdate) (domain.Task, error) {
	updated, err := c.base.Update(ctx, id, u)
	if err != nil {
		return domain.Task{}, err
	}
	c.evict(ctx)
	return updated, nil
}

func (c *TaskCache) Delete(ctx context.Context, id int) error {
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *TaskCache) loadFromCache(ctx context.Context) ([]domain.Task, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, tasksCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing store without failing.
			_ = c.redis.Del(ctx, tasksCacheKey).Err()
		}
		return nil, false
	}
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, tasksCacheKey).Err()
		return nil, false
	}
	return tasks, true
}

func (c *TaskCache) store(ctx context.Context, tasks []domain.Task) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, tasksCacheKey, data, c.ttl).Err()
}

func (c *TaskCache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, tasksCacheKey).Result()
}
