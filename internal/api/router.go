package api

import (
	"log/slog"
	"net/http"
	"time"

	"captable/internal/api/handlers"
	"captable/internal/api/middleware"
	"captable/internal/captable"
	"captable/internal/metrics"
	"captable/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Store          store.Store
	Log            *slog.Logger
	ShareLinkTTL   time.Duration
	AllowedOrigins []string
	ScenarioDir    string
}

// NewRouter wires middleware and routes. The caller sets the gin mode.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler(opts.Log))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Logger(opts.Log))
	router.Use(metrics.Middleware())

	engine := captable.New()
	capTableHandler := handlers.NewCapTableHandler(engine, opts.Log)
	scenarioHandler := handlers.NewScenarioHandler(opts.Store, engine, opts.Log, opts.ShareLinkTTL)
	exampleHandler := handlers.NewExampleHandler(opts.ScenarioDir, opts.Log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/captable/validate", capTableHandler.Validate)
		v1.POST("/captable/calculate", capTableHandler.Calculate)
		v1.POST("/captable/compare", capTableHandler.Compare)

		v1.GET("/examples", exampleHandler.List)
		v1.GET("/examples/:id", exampleHandler.Get)

		v1.GET("/shared/:token", scenarioHandler.Shared)

		scenarios := v1.Group("/scenarios", middleware.RequireUser())
		scenarios.GET("", scenarioHandler.List)
		scenarios.POST("", scenarioHandler.Create)
		scenarios.GET("/:id", scenarioHandler.Get)
		scenarios.PUT("/:id", scenarioHandler.Update)
		scenarios.DELETE("/:id", scenarioHandler.Delete)
		scenarios.POST("/:id/share", scenarioHandler.Share)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}
