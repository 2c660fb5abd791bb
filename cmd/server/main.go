package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/database"
	"github.com/uwplan/planner-backend/internal/handler"
	"github.com/uwplan/planner-backend/internal/logger"
	"github.com/uwplan/planner-backend/internal/middleware"
	"github.com/uwplan/planner-backend/internal/repository"
	"github.com/uwplan/planner-backend/internal/router"
	"github.com/uwplan/planner-backend/internal/schedule"
	"github.com/uwplan/planner-backend/internal/sequence"
	"github.com/uwplan/planner-backend/internal/service"
	"github.com/uwplan/planner-backend/internal/validator"
	"github.com/uwplan/planner-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Planner Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Load Co-op Sequences ──────────────────────────────────────────
	sequences := sequence.Default()
	if _, err := sequences.GenerateSequence(cfg.DefaultSequence); err != nil {
		log.Fatal().Err(err).Str("sequence", cfg.DefaultSequence).Msg("Invalid DEFAULT_SEQUENCE")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(pool)
	prereqRepo := repository.NewPrerequisiteRepository(pool)
	cachedPrereqRepo := repository.NewCachedPrerequisiteRepository(prereqRepo, rdb, cfg.PrereqCacheTTL, log)
	programRepo := repository.NewProgramRepository(pool)
	requirementRepo := repository.NewRequirementRepository(pool)
	communicationRepo := repository.NewCommunicationRepository(pool)
	runRepo := repository.NewValidationRunRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	programService := service.NewProgramService(programRepo, requirementRepo, rdb, cfg.PrereqCacheTTL, log)
	scheduleValidator := schedule.NewValidator(cachedPrereqRepo, programService, log)
	scheduleService := service.NewScheduleService(
		scheduleValidator, sequences, cfg.DefaultSequence, service.NewRedisRunPublisher(rdb), log,
	)
	catalogService := service.NewCatalogService(
		courseRepo, cachedPrereqRepo, programRepo, communicationRepo, sequences, log,
	)

	// ─── Initialize Rate Limiter ──────────────────────────────────────
	validateLimiter := middleware.NewRateLimiter("validate", cfg.ValidateRateLimit, time.Minute, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health:   handler.NewHealthHandler(pool, rdb, log),
		Catalog:  handler.NewCatalogHandler(catalogService, programService, log),
		Schedule: handler.NewScheduleHandler(scheduleService, log),
		WS:       handler.NewWSHandler(scheduleService, validateLimiter, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	runWorker := worker.NewValidationRunWorker(runRepo, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		runWorker.Start(workerCtx)
	}()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every prerequisite record before accepting traffic so the first
	// validations do not all miss at once.
	if err := cachedPrereqRepo.Prewarm(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		validateLimiter.Cleanup(workerCtx.Done())
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, validateLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
