package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/uwplan/planner-backend/internal/catalog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/database"
	"github.com/uwplan/planner-backend/internal/logger"
	"github.com/uwplan/planner-backend/internal/repository"
	"github.com/uwplan/planner-backend/internal/service"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "seeds/catalog.yaml", "Path to the catalog YAML file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open catalog")
	}
	cat, err := catalog.Load(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Invalid catalog")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Seed everything or nothing.
	var stats catalog.Stats
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		stats, err = catalog.Seed(ctx, tx, cat, log)
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed, nothing was written")
	}

	fmt.Printf("Seed completed: %d courses, %d communication courses, %d programs.\n",
		stats.Courses, stats.Communications, stats.Programs)

	// ─── Invalidate Redis Caches ──────────────────────────────────────
	// Drop cached prerequisites and programs so running servers read the
	// new catalog instead of waiting out the TTL.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cached entries expire after PREREQ_CACHE_TTL_MINUTES")
		return
	}
	defer rdb.Close()

	prereqs := repository.NewCachedPrerequisiteRepository(
		repository.NewPrerequisiteRepository(pool), rdb, cfg.PrereqCacheTTL, log,
	)
	if err := prereqs.Invalidate(ctx, cat.CourseIDs()...); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate cached prerequisites")
	}

	programs := service.NewProgramService(
		repository.NewProgramRepository(pool), repository.NewRequirementRepository(pool), rdb, cfg.PrereqCacheTTL, log,
	)
	if err := programs.Invalidate(ctx, cat.ProgramNames()...); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate cached programs")
	}

	log.Info().
		Int("courses", len(cat.CourseIDs())).
		Int("programs", len(cat.ProgramNames())).
		Msg("Cache invalidated")
}
