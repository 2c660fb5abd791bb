package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/handler"
	"github.com/uwplan/planner-backend/internal/middleware"
	"github.com/uwplan/planner-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health   *handler.HealthHandler
	Catalog  *handler.CatalogHandler
	Schedule *handler.ScheduleHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	validateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Catalog Group (Read-only, Cacheable) ───────────────────────
	catalog := router.Group("/api/v1")
	catalog.Use(middleware.CacheControl(cfg.CatalogCacheMaxAge))
	{
		catalog.GET("/courses", handlers.Catalog.ListCourses)
		catalog.GET("/courses/:id", handlers.Catalog.GetCourse)
		catalog.GET("/programs/:name", handlers.Catalog.GetProgram)
		catalog.GET("/communications", handlers.Catalog.ListCommunications)
		catalog.GET("/plans", handlers.Catalog.GetPlans)
		catalog.GET("/sequences", handlers.Catalog.ListSequences)
		catalog.GET("/sequences/:name", handlers.Catalog.GetSequence)
	}

	// ─── 2. Schedule Group (Rate Limited) ──────────────────────────────
	schedules := router.Group("/api/v1/schedules")
	schedules.Use(validateLimiter.Middleware())
	{
		schedules.POST("/validate", handlers.Schedule.Validate)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	// The WS handler charges validateLimiter per validate message.
	ws := router.Group("/ws/v1")
	{
		ws.GET("/schedules/validate", handlers.WS.ValidateStream)
	}

	return router
}
