package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/response"
)

const healthTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus the state of PostgreSQL, Redis and the
// validation run queue.
type HealthHandler struct {
	db        pinger
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler creates a HealthHandler. Nil dependencies are skipped.
func NewHealthHandler(db pinger, rdb *redis.Client, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

type healthStatus struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	Goroutines int               `json:"goroutines"`
	HeapAlloc  uint64            `json:"heap_alloc"`
	GoVersion  string            `json:"go_version"`
	Checks     map[string]string `json:"checks"`
	// QueueValidationRuns is the backlog of runs waiting to be persisted.
	QueueValidationRuns int64 `json:"queue_validation_runs"`
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := healthStatus{
		Status:     "ok",
		Uptime:     time.Since(h.startTime).Truncate(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  mem.HeapAlloc,
		GoVersion:  runtime.Version(),
		Checks:     map[string]string{},
	}

	if h.db != nil {
		status.Checks["postgres"] = h.check("postgres", h.db.Ping(ctx))
	}
	if h.rdb != nil {
		status.Checks["redis"] = h.check("redis", h.rdb.Ping(ctx).Err())
		status.QueueValidationRuns, _ = h.rdb.LLen(ctx, config.WorkerKey.PersistValidationRunsQueue).Result()
	}

	for _, v := range status.Checks {
		if v != "ok" {
			status.Status = "degraded"
			response.FailWithData(c, http.StatusServiceUnavailable, response.ErrUnavailable, status)
			return
		}
	}
	response.Success(c, http.StatusOK, status)
}

func (h *HealthHandler) check(name string, err error) string {
	if err != nil {
		h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
		return "unavailable"
	}
	return "ok"
}
