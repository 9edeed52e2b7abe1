package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/logger"
	"github.com/guttosm/packgenius/internal/service"
)

// unpersistedPaths are written to the process log only; probes and scrapes
// would otherwise dominate the logs collection.
var unpersistedPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger logs one line per request with its ID, route, status,
// latency and caller. When loggingService is set the entry is also
// persisted through the async logger.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		level := statusLevel(statusCode)
		path := c.Request.URL.Path

		log := logger.Logger()
		event := log.WithLevel(level).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status_code", statusCode).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())
		if route := c.FullPath(); route != "" && route != path {
			event = event.Str("route", route)
		}
		if subject := GetAuthSubject(c); subject != "" {
			event = event.Str("subject", subject)
		}
		event.Msg("HTTP request")

		if loggingService == nil || unpersistedPaths[path] {
			return
		}
		entry := &model.LogEntry{
			Timestamp:  start,
			Level:      level.String(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       path,
			StatusCode: statusCode,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Subject:    GetAuthSubject(c),
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.Last().Error()
		}
		enqueueLog(loggingService, entry)
	}
}

func statusLevel(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
