package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/allinsys/contactforms/internal/api/constants"
	"github.com/allinsys/contactforms/internal/api/dto/common"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 response and logs the stack
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.GetGlobalLogger().Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					utils.GetRealIP(c),
					c.GetString(constants.ContextKeyRequestID),
					fmt.Sprint(err),
					debug.Stack(),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(
					common.ErrCodeInternalServer, "Internal server error", nil,
				))
			}
		}()

		c.Next()
	}
}
