package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/controllers"
	"go.uber.org/zap"
)

// Controllers bundles what the router needs.
type Controllers struct {
	Quote   *controllers.QuoteController
	Catalog *controllers.CatalogController
	Admin   *controllers.AdminController
	Health  *controllers.HealthController
	Broker  *controllers.BrokerAuth
	Limiter *controllers.RateLimiter
	Metrics http.Handler
}

// SetupAPIRoutes registers the /v1 API.
func SetupAPIRoutes(router *gin.Engine, ctl Controllers) {
	v1 := router.Group("/v1")
	{
		quotes := v1.Group("/quotes")
		{
			quotes.POST("", ctl.Limiter.Limit(), ctl.Broker.Detect(), ctl.Quote.CreateQuote)
			quotes.GET("", ctl.Broker.Require(), ctl.Quote.ListQuotes)
			quotes.GET("/:id", ctl.Broker.Require(), ctl.Quote.GetQuote)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/classes", ctl.Catalog.Classes)
			catalog.GET("/vehicles", ctl.Catalog.Vehicles)
			catalog.GET("/search", ctl.Catalog.Search)
		}

		admin := v1.Group("/admin", ctl.Broker.Require())
		{
			admin.POST("/reload", ctl.Admin.Reload)
			admin.GET("/campaigns/audit", ctl.Admin.AuditCampaigns)
			admin.POST("/catalog/index", ctl.Admin.IndexCatalog)
			admin.GET("/stats", ctl.Admin.Stats)
		}

		v1.GET("/health", ctl.Health.Health)
	}
}

func SetupHealthRoutes(router *gin.Engine, health *controllers.HealthController) {
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/live", health.Live)
}

// SetupMetricsRoutes exposes Prometheus metrics.
func SetupMetricsRoutes(router *gin.Engine, metrics http.Handler) {
	router.GET("/metrics", gin.WrapH(metrics))
}

// SetupAllRoutes installs middleware and every route group.
func SetupAllRoutes(router *gin.Engine, ctl Controllers, logger *zap.Logger) {
	setupMiddleware(router, logger)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, ctl.Health)
	SetupAPIRoutes(router, ctl)
	SetupMetricsRoutes(router, ctl.Metrics)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}
