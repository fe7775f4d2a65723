package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/logging"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// RequestContext tags the request context with a request id and the client
// address, then logs the outcome once the handler chain returns.
func RequestContext(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)

		ctx := logging.WithRequestID(c.Request.Context(), rid)
		ctx = domain.WithClientContext(ctx, &domain.ClientContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}
		switch {
		case status >= 500:
			log.Error(c.Request.Context(), "request", args...)
		case status >= 400:
			log.Warn(c.Request.Context(), "request", args...)
		default:
			log.Info(c.Request.Context(), "request", args...)
		}
	}
}
