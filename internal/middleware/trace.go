package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceContextKey = "traceID"
	TraceHeader     = "X-Trace-Id"
)

// TraceMiddleware reprend le X-Trace-Id du client ou en génère un
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" || len(traceID) > 64 {
			traceID = strings.ReplaceAll(uuid.New().String(), "-", "")
		}

		c.Set(TraceContextKey, traceID)
		c.Header(TraceHeader, traceID)

		c.Next()
	}
}
