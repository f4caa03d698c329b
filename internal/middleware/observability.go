package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"go.uber.org/zap"
)

const requestIDKey = "RequestID"

const (
	flowWizard    = "wizard"
	flowAddress   = "address_autofill"
	flowCNPJ      = "cnpj_lookup"
	flowAdmin     = "admin"
	flowSystem    = "system"
	flowUnmatched = "unmatched"
)

// requestFlow names the part of the onboarding product a route belongs to.
// The CNPJ lookup sits under /v1/admin but is called by the wizard.
func requestFlow(route string) string {
	switch {
	case route == "":
		return flowUnmatched
	case strings.HasPrefix(route, "/v1/onboarding/"), route == "/v1/registrations":
		return flowWizard
	case strings.HasPrefix(route, "/v1/address/"):
		return flowAddress
	case strings.HasPrefix(route, "/v1/admin/cnpj/"):
		return flowCNPJ
	case strings.HasPrefix(route, "/v1/admin/"):
		return flowAdmin
	default:
		return flowSystem
	}
}

// RequestLogger logs each request with its onboarding flow. Server errors are
// logged at error level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("flow", requestFlow(c.FullPath())),
		}
		if identity, err := IdentityFromContext(c); err == nil {
			fields = append(fields, zap.String("user_id", identity.ID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= 500 {
			observability.Logger().Error("request failed", fields...)
			return
		}
		observability.Logger().Info("request completed", fields...)
	}
}

// RequestTracker tracks active connections
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.ActiveConnections.Inc()
		defer observability.ActiveConnections.Dec()
		c.Next()
	}
}

// RequestID adds a unique request ID to the context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestIDFromContext returns the id set by RequestID, or ""
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func statusLabel(status int) string {
	return strconv.Itoa(status)
}
