package middleware

import (
	"github.com/allinsys/contactforms/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests by method, matched route and status
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
