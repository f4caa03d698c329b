package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

// HealthResponse reports the API status and each dependency
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// PingFunc checks one dependency
type PingFunc func(ctx context.Context) error

// HealthHandlers pings the configured dependencies
type HealthHandlers struct {
	checks  map[string]PingFunc
	timeout time.Duration
	logger  *logging.SafeLogger
}

// NewHealthHandlers creates a health handler. Nil checks are skipped.
func NewHealthHandlers(checks map[string]PingFunc, logger *logging.SafeLogger) *HealthHandlers {
	active := make(map[string]PingFunc, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthHandlers{
		checks:  active,
		timeout: 2 * time.Second,
		logger:  logger.Named("health"),
	}
}

// HealthCheck godoc
// @Summary Verificação de saúde
// @Description Verifica a saúde da API e suas dependências (MongoDB e Redis, quando configurados). Retorna status detalhado para cada serviço.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Todos os serviços estão saudáveis"
// @Failure 503 {object} HealthResponse "Um ou mais serviços estão indisponíveis"
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string, len(h.checks)),
	}

	for name, check := range h.checks {
		_, span := utils.TraceExternalService(ctx, name, "ping")
		if err := check(ctx); err != nil {
			utils.RecordErrorInSpan(span, err, map[string]interface{}{
				"service.name":      name,
				"service.operation": "ping",
			})
			h.logger.Warn("dependency unhealthy", zap.String("service", name), zap.Error(err))
			health.Status = "unhealthy"
			health.Services[name] = "unhealthy"
		} else {
			utils.AddSpanAttribute(span, "service.status", "healthy")
			health.Services[name] = "healthy"
		}
		span.End()
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
