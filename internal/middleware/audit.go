package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

// AuditContextFromGin collects the caller and request details of an audited action
func AuditContextFromGin(c *gin.Context) utils.AuditContext {
	audit := utils.AuditContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: RequestIDFromContext(c),
	}
	if identity, err := IdentityFromContext(c); err == nil {
		audit.UserID = identity.ID
		audit.UserEmail = identity.Email
	}
	return audit
}

// AdminReadAudit records every successful admin read of onboarding data. Writes
// are audited by the services that perform them.
func AdminReadAudit(queue utils.AuditQueue[models.AuditLog]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || queue == nil {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		path := c.Request.URL.Path
		audit := AuditContextFromGin(c)
		entry := models.AuditLog{
			ID:         uuid.NewString(),
			Action:     utils.AuditActionRead,
			Resource:   extractResourceFromPath(path),
			ResourceID: extractResourceID(c),
			UserID:     audit.UserID,
			UserEmail:  audit.UserEmail,
			IPAddress:  audit.IPAddress,
			UserAgent:  audit.UserAgent,
			RequestID:  audit.RequestID,
			Metadata: map[string]interface{}{
				"endpoint":        path,
				"route":           c.FullPath(),
				"response_status": status,
			},
			Timestamp: time.Now().UTC(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			entry.Metadata["query_params"] = query
		}

		if err := queue.Enqueue(c.Request.Context(), entry); err != nil {
			observability.Logger().Warn("failed to log audit event",
				zap.Error(err),
				zap.String("endpoint", path))
		}
	}
}

// extractResourceFromPath maps an admin path to its audited resource type
func extractResourceFromPath(path string) string {
	path = strings.TrimPrefix(path, "/v1/admin/")
	switch {
	case strings.HasPrefix(path, "registrations"):
		return utils.AuditResourceRegistration
	case strings.HasPrefix(path, "cnpj"):
		return utils.AuditResourceCNPJLookup
	}
	if resource, _, _ := strings.Cut(path, "/"); resource != "" {
		return resource
	}
	return "unknown"
}

// extractResourceID extracts the resource identifier from the route params
func extractResourceID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if cnpj := c.Param("cnpj"); cnpj != "" {
		return utils.NormalizeDigits(cnpj)
	}
	return ""
}
