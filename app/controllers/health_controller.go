package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/services"
)

type HealthController struct {
	quoteService *services.QuoteService
	startTime    time.Time
}

func NewHealthController(quoteService *services.QuoteService) *HealthController {
	return &HealthController{quoteService: quoteService, startTime: time.Now()}
}

// Live answers as long as the process serves HTTP.
func (hc *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready requires at least one loaded insurer.
func (hc *HealthController) Ready(c *gin.Context) {
	e := hc.quoteService.Engine()
	if e == nil || len(e.Registry().Insurers()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"insurers": e.Registry().Insurers(),
	})
}

func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "soat-quoter",
		"uptime":  time.Since(hc.startTime).Round(time.Second).String(),
	})
}
