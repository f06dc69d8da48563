package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/models"
)

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

var auditActions = map[string]string{
	http.MethodPost:   models.AuditActionCreate,
	http.MethodPut:    models.AuditActionUpdate,
	http.MethodPatch:  models.AuditActionUpdate,
	http.MethodDelete: models.AuditActionDelete,
}

// Audit records successful writes on resource. Reads are not audited.
func Audit(recorder auditRecorder, resource string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		action, mutating := auditActions[c.Request.Method]
		if !mutating {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			return
		}
		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			Path:      c.FullPath(),
			Status:    status,
			LatencyMS: time.Since(start).Milliseconds(),
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if p := Principal(c); p != nil {
			userID := p.UserID
			entry.UserID = &userID
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}
		if err := recorder.CreateAuditLog(c.Request.Context(), entry); err != nil {
			log.Warn("failed to record audit log", zap.String("resource", resource), zap.String("action", action), zap.Error(err))
		}
	}
}
