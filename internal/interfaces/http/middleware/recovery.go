package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// Recovery converts panics into 500 responses and logs the stack trace.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if logger != nil {
					logger.Error("panic recovered",
						logging.String("path", c.Request.URL.Path),
						logging.String("request_id", GetRequestID(c)),
						logging.Err(fmt.Errorf("%v", r)),
						logging.String("stack", string(debug.Stack())),
					)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    errors.ErrCodeInternal.String(),
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
