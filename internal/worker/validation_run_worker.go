package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/model"
)

const retryDelay = 5 * time.Second

type runStore interface {
	Insert(ctx context.Context, run *model.ValidationRun) error
}

// ValidationRunWorker consumes persist_validation_runs_queue and inserts runs
// into PostgreSQL.
type ValidationRunWorker struct {
	store runStore
	rdb   *redis.Client
	queue string
	log   zerolog.Logger
}

// NewValidationRunWorker creates a new ValidationRunWorker.
func NewValidationRunWorker(store runStore, rdb *redis.Client, log zerolog.Logger) *ValidationRunWorker {
	return &ValidationRunWorker{
		store: store,
		rdb:   rdb,
		queue: config.WorkerKey.PersistValidationRunsQueue,
		log:   log.With().Str("component", "validation_run_worker").Logger(),
	}
}

// Start begins the worker loop and blocks until ctx is cancelled. Call in a goroutine.
func (w *ValidationRunWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ValidationRunWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or the one second timeout.
	result, err := w.rdb.BLPop(ctx, time.Second, w.queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
			sleep(ctx, time.Second)
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying in 5s")
		w.rdb.RPush(context.Background(), w.queue, result[1])
		sleep(ctx, retryDelay)
	}
}

// handle persists one queued payload. Malformed payloads are logged and
// dropped; only store errors are returned for retry.
func (w *ValidationRunWorker) handle(ctx context.Context, raw string) error {
	var run model.ValidationRun
	if err := json.Unmarshal([]byte(raw), &run); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping payload")
		return nil
	}
	if err := w.store.Insert(ctx, &run); err != nil {
		return err
	}
	w.log.Debug().
		Str("run_id", run.ID.String()).
		Str("degree", run.Degree).
		Bool("overall_result", run.OverallResult).
		Msg("Validation run persisted")
	return nil
}

// drain persists every item left in the queue before shutdown.
func (w *ValidationRunWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, w.queue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, raw); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, w.queue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
