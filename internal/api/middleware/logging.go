package middleware

import (
	"time"

	"github.com/allinsys/contactforms/internal/api/constants"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger is a middleware that logs request information.
// It is a no-op unless enabled (LOG_REQUESTS=true).
func RequestLogger(enabled bool) gin.HandlerFunc {
	logger := logging.GetGlobalLogger()
	logger.Debug("RequestLogger middleware initialized (enabled=%v)", enabled)

	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
