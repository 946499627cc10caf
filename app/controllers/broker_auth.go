package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/responses"
)

// BrokerHeader carries the brokerage access code.
const BrokerHeader = "X-Broker-Code"

const brokerKey = "broker"

// BrokerAuth recognises broker requests by a shared code. An empty code
// disables the broker view.
type BrokerAuth struct {
	code string
}

func NewBrokerAuth(code string) *BrokerAuth {
	return &BrokerAuth{code: code}
}

func (b *BrokerAuth) matches(header string) bool {
	if b.code == "" || header == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(b.code)) == 1
}

// Detect marks the request as broker or client.
func (b *BrokerAuth) Detect() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(brokerKey, b.matches(c.GetHeader(BrokerHeader)))
		c.Next()
	}
}

// Require rejects non-broker requests.
func (b *BrokerAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !b.matches(c.GetHeader(BrokerHeader)) {
			c.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{
				Error:   "FORBIDDEN",
				Message: "broker access code required",
			})
			return
		}
		c.Set(brokerKey, true)
		c.Next()
	}
}

// IsBroker reports what Detect or Require decided.
func IsBroker(c *gin.Context) bool {
	return c.GetBool(brokerKey)
}
