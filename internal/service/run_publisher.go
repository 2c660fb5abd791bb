package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/model"
)

// RunPublisher hands validation runs to the persistence worker.
type RunPublisher interface {
	Publish(ctx context.Context, run *model.ValidationRun) error
}

// RedisRunPublisher pushes runs onto the validation run queue.
type RedisRunPublisher struct {
	rdb *redis.Client
}

func NewRedisRunPublisher(rdb *redis.Client) *RedisRunPublisher {
	return &RedisRunPublisher{rdb: rdb}
}

func (p *RedisRunPublisher) Publish(ctx context.Context, run *model.ValidationRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return p.rdb.RPush(ctx, config.WorkerKey.PersistValidationRunsQueue, data).Err()
}
