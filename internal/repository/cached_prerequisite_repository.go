package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/model"
)

// PrerequisiteStore is the backing store behind the Redis cache.
type PrerequisiteStore interface {
	GetParsedPrereqData(ctx context.Context, courseIDs []string) (map[string]model.ParsedPrereqData, error)
	GetAll(ctx context.Context) ([]model.ParsedPrereqData, error)
}

// CachedPrerequisiteRepository serves parsed prerequisite records from Redis,
// filling misses from the store. Redis failures fall back to the store.
type CachedPrerequisiteRepository struct {
	store PrerequisiteStore
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedPrerequisiteRepository(
	store PrerequisiteStore,
	rdb *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *CachedPrerequisiteRepository {
	return &CachedPrerequisiteRepository{
		store: store,
		rdb:   rdb,
		ttl:   ttl,
		log:   log.With().Str("component", "prereq_cache").Logger(),
	}
}

func (r *CachedPrerequisiteRepository) GetParsedPrereqData(ctx context.Context, courseIDs []string) (map[string]model.ParsedPrereqData, error) {
	out := make(map[string]model.ParsedPrereqData, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		keys[i] = config.CacheKey.ParsedPrereqKey(id)
	}

	cached, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		r.log.Warn().Err(err).Msg("Cache read failed, falling back to database")
		return r.store.GetParsedPrereqData(ctx, courseIDs)
	}

	var misses []string
	for i, v := range cached {
		raw, ok := v.(string)
		if !ok {
			misses = append(misses, courseIDs[i])
			continue
		}
		var p model.ParsedPrereqData
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			r.log.Warn().Err(err).Str("course_id", courseIDs[i]).Msg("Corrupt cache entry")
			misses = append(misses, courseIDs[i])
			continue
		}
		out[courseIDs[i]] = p
	}

	if len(misses) == 0 {
		return out, nil
	}

	loaded, err := r.store.GetParsedPrereqData(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, p := range loaded {
		out[id] = p
	}

	if err := r.cache(ctx, loaded); err != nil {
		r.log.Warn().Err(err).Int("count", len(loaded)).Msg("Cache write failed")
	}

	r.log.Debug().
		Int("requested", len(courseIDs)).
		Int("misses", len(misses)).
		Int("loaded", len(loaded)).
		Msg("Prerequisite cache filled")
	return out, nil
}

// Prewarm loads every prerequisite record into Redis.
func (r *CachedPrerequisiteRepository) Prewarm(ctx context.Context) error {
	records, err := r.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list prerequisites: %w", err)
	}
	if len(records) == 0 {
		r.log.Info().Msg("No prerequisite records to prewarm")
		return nil
	}

	byID := make(map[string]model.ParsedPrereqData, len(records))
	for _, p := range records {
		byID[p.CourseID] = p
	}
	if err := r.cache(ctx, byID); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	r.log.Info().Int("count", len(records)).Msg("Prewarming complete")
	return nil
}

// Invalidate drops the cached records of courseIDs.
func (r *CachedPrerequisiteRepository) Invalidate(ctx context.Context, courseIDs ...string) error {
	if len(courseIDs) == 0 {
		return nil
	}
	keys := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		keys[i] = config.CacheKey.ParsedPrereqKey(id)
	}
	err := r.rdb.Del(ctx, keys...).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (r *CachedPrerequisiteRepository) cache(ctx context.Context, records map[string]model.ParsedPrereqData) error {
	if len(records) == 0 {
		return nil
	}
	pipe := r.rdb.Pipeline()
	for id, p := range records {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", id, err)
		}
		pipe.Set(ctx, config.CacheKey.ParsedPrereqKey(id), data, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
