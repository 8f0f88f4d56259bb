package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/internal/interfaces/http/handlers"
	"github.com/juberis/reqtrack/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree
// is built from.  Nil handlers leave their routes unregistered, which
// keeps tests free to wire only the surface under test.
type RouterConfig struct {
	Mode string // gin mode: "debug" | "release" | "test"

	DeadlineHandler *handlers.DeadlineHandler
	HolidayHandler  *handlers.HolidayHandler
	HealthHandler   *handlers.HealthHandler
	MetricsHandler  http.Handler

	Logger  logging.Logger
	Metrics middleware.HTTPMetrics
	CORS    *middleware.CORSConfig
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics, "/healthz", "/readyz", "/metrics"))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	if cfg.DeadlineHandler != nil {
		deadlines := api.Group("/deadlines")
		deadlines.GET("/inputs", cfg.DeadlineHandler.Inputs)
		deadlines.POST("/compute", cfg.DeadlineHandler.Compute)
	}
	if cfg.HolidayHandler != nil {
		holidays := api.Group("/holidays")
		holidays.GET("", cfg.HolidayHandler.List)
		holidays.POST("", cfg.HolidayHandler.Create)
		holidays.DELETE("/:holidayID", cfg.HolidayHandler.Delete)
	}

	return r
}
