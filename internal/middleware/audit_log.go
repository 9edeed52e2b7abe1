package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/service"
)

// Audit action types.
const (
	ActionPlanCalculate   = "plan.calculate"
	ActionInventoryUpsert = "inventory.upsert"
	ActionInventoryImport = "inventory.import"
	ActionInventoryDelete = "inventory.delete"
	ActionHistoryDelete   = "history.delete"
	ActionHistoryClear    = "history.clear"
)

// LoggingServiceKey is the gin context key holding the service.LoggingService.
const LoggingServiceKey ContextKey = "logging_service"

// WithLoggingService stores loggingService on every request so handlers can audit.
func WithLoggingService(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if loggingService != nil {
			c.Set(string(LoggingServiceKey), loggingService)
		}
		c.Next()
	}
}

// LoggingServiceFrom returns the logging service stored by WithLoggingService.
func LoggingServiceFrom(c *gin.Context) service.LoggingService {
	if v, ok := c.Get(string(LoggingServiceKey)); ok {
		if ls, ok := v.(service.LoggingService); ok {
			return ls
		}
	}
	return nil
}

// AuditLog records a state-changing action.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType string, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	enqueueLog(loggingService, newAuditEntry(c, "info", actionType, message, fields))
}

// AuditLogError records a failed state-changing action.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType string, message string, err error, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := newAuditEntry(c, "error", actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	enqueueLog(loggingService, entry)
}

func newAuditEntry(c *gin.Context, level, actionType, message string, fields map[string]interface{}) *model.LogEntry {
	return &model.LogEntry{
		Timestamp:  time.Now(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Subject:    GetAuthSubject(c),
		ActionType: actionType,
		Fields:     fields,
	}
}
