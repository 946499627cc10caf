package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "SOAT Quoter",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api": "SOAT Quoter API v1",
				"endpoints": map[string]string{
					"quote":          "POST /v1/quotes",
					"quote_get":      "GET /v1/quotes/:id (broker)",
					"quote_list":     "GET /v1/quotes?limit=N (broker)",
					"classes":        "GET /v1/catalog/classes",
					"vehicles":       "GET /v1/catalog/vehicles",
					"search":         "GET /v1/catalog/search?q=&brand=&limit=",
					"reload":         "POST /v1/admin/reload (broker)",
					"campaign_audit": "GET /v1/admin/campaigns/audit (broker)",
					"catalog_index":  "POST /v1/admin/catalog/index (broker)",
					"stats":          "GET /v1/admin/stats (broker)",
					"health":         "GET /health",
					"metrics":        "GET /metrics",
				},
				"broker_header": "X-Broker-Code",
			})
		})
	}
}
