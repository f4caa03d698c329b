package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RequestTiming wraps the request in a span named after its onboarding flow
// and records its duration per route
func RequestTiming() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set("request_start_time", start)

		route := c.FullPath()
		flow := requestFlow(route)

		ctx, span := observability.Tracer("http").Start(c.Request.Context(), "onboarding."+flow,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", c.Request.UserAgent()),
				attribute.String("onboarding.flow", flow),
				attribute.String("onboarding.request_id", RequestIDFromContext(c)),
			),
		)
		defer span.End()

		if accountType := c.Query("account_type"); accountType != "" {
			span.SetAttributes(attribute.String("onboarding.account_type", accountType))
		}
		if step := c.Param("step"); step != "" {
			span.SetAttributes(attribute.String("onboarding.step", step))
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int64("http.duration_ms", latency.Milliseconds()),
		)
		if identity, err := IdentityFromContext(c); err == nil {
			span.SetAttributes(attribute.String("enduser.id", identity.ID))
		}
		switch {
		case status >= 500:
			span.SetStatus(codes.Error, "server error")
		case status == 422:
			span.SetAttributes(attribute.Bool("onboarding.validation_failed", true))
		}

		// unmatched routes share one label
		if route == "" {
			route = flowUnmatched
		}
		observability.RequestDuration.WithLabelValues(
			route,
			c.Request.Method,
			statusLabel(status),
		).Observe(latency.Seconds())
	}
}
