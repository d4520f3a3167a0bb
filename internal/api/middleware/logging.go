package middleware

import (
    "time"

    "github.com/gin-gonic/gin"

    "github.com/local/vibedoc/internal/logger"
)

// RequestLogger writes one line per request. Health checks are logged at debug.
func RequestLogger() gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        c.Next()

        status := c.Writer.Status()
        l := logger.Component("http")
        ev := l.Info()
        switch {
        case status >= 500:
            ev = l.Error()
        case status >= 400:
            ev = l.Warn()
        case c.Request.URL.Path == "/health" || c.Request.URL.Path == "/ready" || c.Request.URL.Path == "/metrics":
            ev = l.Debug()
        }
        route := c.FullPath()
        if route == "" { route = c.Request.URL.Path }
        ev.Str("method", c.Request.Method).
            Str("route", route).
            Int("status", status).
            Int("bytes", c.Writer.Size()).
            Dur("took", time.Since(start)).
            Str("client_ip", c.ClientIP()).
            Msg("request")
    }
}
