package opslog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerErrorMiddleware reports every 5xx response to the ops log. The relay
// only serves reads, so client errors are left to the access log. Register it
// ahead of gin.Recovery so recovered panics are reported too. Reports are sent
// in the background and never hold up the response.
func ServerErrorMiddleware(p *Client, logger *zap.Logger) gin.HandlerFunc {
	if p == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusInternalServerError {
			return
		}
		details := map[string]any{
			"method":     strings.ToUpper(c.Request.Method),
			"path":       c.Request.URL.Path,
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": c.GetString("request_id"),
		}
		level := levelFromStatus(status)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := p.Report(ctx, "relay_http_error", level, details); err != nil && logger != nil {
				logger.Debug("ops log report failed", zap.Error(err))
			}
		}()
	}
}

func levelFromStatus(status int) string {
	if status >= 500 {
		return "error"
	}
	if status >= 400 {
		return "warn"
	}
	return "info"
}
