// Package router assembles the gin engine and HTTP server.
package router

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/promoflow/threshold-service/internal/config"
	"github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/internal/interfaces/http/handlers"
	"github.com/promoflow/threshold-service/internal/interfaces/http/middleware"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// Handlers bundles every endpoint handler the router mounts.
type Handlers struct {
	Threshold     *handlers.ThresholdHandler
	Configuration *handlers.ConfigurationHandler
	Statistics    *handlers.StatisticsHandler
	Suggestion    *handlers.SuggestionHandler
	Transfer      *handlers.TransferHandler
	Dashboard     *handlers.DashboardHandler
	Enforcement   *handlers.EnforcementHandler
	Health        *handlers.HealthHandler
}

// Router owns the gin engine and its HTTP server lifecycle.
type Router struct {
	engine *gin.Engine
	server *http.Server
	cfg    *config.ServerConfig
	log    logger.Logger
}

// New builds the router with the full middleware chain and route table.
func New(cfg *config.ServerConfig, h Handlers, metrics service.Metrics, log logger.Logger) *Router {
	gin.SetMode(ginMode(cfg.Mode))
	engine := gin.New()

	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing("threshold-service"))
	engine.Use(middleware.Logging(log, metrics))
	engine.Use(cors.Default())

	r := &Router{
		engine: engine,
		cfg:    cfg,
		log:    log.WithComponent("router"),
	}
	r.mountRoutes(h)

	if cfg.EnablePprof {
		pprof.Register(engine)
	}
	return r
}

func (r *Router) mountRoutes(h Handlers) {
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	{
		thresholds := api.Group("/thresholds")
		{
			thresholds.GET("", h.Threshold.List)
			thresholds.GET("/category/:category", h.Threshold.ListByCategory)
			thresholds.GET("/:id", h.Threshold.Get)
			thresholds.PUT("/:id", h.Threshold.Update)
			thresholds.POST("/:id/adjust", h.Threshold.Adjust)
			thresholds.POST("/:id/reset", h.Threshold.Reset)
			thresholds.PATCH("/:id/active", h.Threshold.SetActive)
			thresholds.GET("/:id/history", h.Threshold.History)
		}

		configurations := api.Group("/configurations")
		{
			configurations.GET("/:section", h.Configuration.ListSection)
			configurations.GET("/:section/:key", h.Configuration.Get)
			configurations.PUT("/:section/:key", h.Configuration.Set)
		}

		api.GET("/statistics/thresholds", h.Statistics.Get)
		api.GET("/suggestions", h.Suggestion.List)
		api.GET("/export", h.Transfer.Export)
		api.POST("/import", h.Transfer.Import)
		api.GET("/dashboard", h.Dashboard.Get)
		api.GET("/enforcement/thresholds", h.Enforcement.ActiveThresholds)
	}
}

// Start begins serving and blocks until the listener fails or closes.
func (r *Router) Start() error {
	r.server = &http.Server{
		Addr:    r.cfg.Addr(),
		Handler: r.engine,
	}
	r.log.Info(context.Background(), "HTTP server listening",
		logger.String("addr", r.cfg.Addr()))
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (r *Router) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ShutdownTimeout)
	defer cancel()
	return r.server.Shutdown(ctx)
}

// Engine exposes the underlying gin engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}
