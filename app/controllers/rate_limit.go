package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/soat-quoter/app/responses"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// RateLimiter throttles requests per client IP. A nil limiter or a zero
// rate lets everything through.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients *lru.Cache[string, *rate.Limiter]
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	clients, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return &RateLimiter{limit: rate.Limit(perSecond), burst: burst, clients: clients}
}

func (r *RateLimiter) allow(client string) bool {
	l, ok := r.clients.Get(client)
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.clients.Add(client, l)
	}
	return l.Allow()
}

// Limit answers 429 once a client exceeds its budget.
func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil || r.allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, responses.ErrorResponse{
			Error:   "RATE_LIMITED",
			Message: "too many quote requests, try again shortly",
		})
	}
}
