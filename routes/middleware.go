package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupMiddleware(router *gin.Engine, logger *zap.Logger) {
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
}

// requestLogger logs one line per request; 5xx at error level.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
