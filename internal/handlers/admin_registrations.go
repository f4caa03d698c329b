package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/middleware"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
	"github.com/nova-solidum/app-onboarding/internal/storage"
	"go.uber.org/zap"
)

// AdminRegistrationHandlers serves the registration review dashboard
type AdminRegistrationHandlers struct {
	service      *services.RegistrationService
	logger       *logging.SafeLogger
	heartbeat    time.Duration
	pollInterval time.Duration

	closing   chan struct{}
	closeOnce sync.Once
}

// NewAdminRegistrationHandlers creates the admin registration handlers
func NewAdminRegistrationHandlers(service *services.RegistrationService, logger *logging.SafeLogger) *AdminRegistrationHandlers {
	return &AdminRegistrationHandlers{
		service:      service,
		logger:       logger.Named("admin_registrations"),
		heartbeat:    15 * time.Second,
		pollInterval: 5 * time.Second,
		closing:      make(chan struct{}),
	}
}

// CloseStreams ends every open registration stream. Used on server shutdown.
func (h *AdminRegistrationHandlers) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// RegistrationListResponse is a page of registrations, newest first
type RegistrationListResponse struct {
	Data  []models.RegistrationRecord `json:"data"`
	Count int                         `json:"count"`
}

// UpdateStatusRequest changes the review status of a registration
type UpdateStatusRequest struct {
	Status models.RegistrationStatus `json:"status" binding:"required"`
}

func listLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return services.DefaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return limit, nil
}

// ListRegistrations godoc
// @Summary Listar cadastros
// @Description Lista os cadastros mais recentes, ordenados pela data de criação (mais novo primeiro)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Quantidade máxima (padrão 20, máximo 100)"
// @Success 200 {object} RegistrationListResponse
// @Failure 400 {object} ErrorResponse "Parâmetros inválidos"
// @Failure 401 {object} ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} ErrorResponse "Usuário não é administrador"
// @Failure 503 {object} ErrorResponse "Armazenamento indisponível"
// @Router /admin/registrations [get]
func (h *AdminRegistrationHandlers) ListRegistrations(c *gin.Context) {
	limit, err := listLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	records, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RegistrationListResponse{Data: records, Count: len(records)})
}

// StreamRegistrations godoc
// @Summary Acompanhar cadastros em tempo real
// @Description Abre um stream SSE que envia a lista dos cadastros mais recentes a cada alteração (evento "registrations") e um evento "heartbeat" periódico
// @Tags admin
// @Produce text/event-stream
// @Security BearerAuth
// @Param limit query int false "Quantidade máxima (padrão 20, máximo 100)"
// @Success 200 {object} RegistrationListResponse "Eventos SSE com a lista atualizada"
// @Failure 400 {object} ErrorResponse "Parâmetros inválidos"
// @Failure 503 {object} ErrorResponse "Armazenamento indisponível"
// @Router /admin/registrations/stream [get]
func (h *AdminRegistrationHandlers) StreamRegistrations(c *gin.Context) {
	limit, err := listLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	ctx := c.Request.Context()

	// holds only the newest snapshot; a slow client skips intermediate ones
	updates := make(chan []models.RegistrationRecord, 1)
	var pushMu sync.Mutex
	push := func(records []models.RegistrationRecord) {
		pushMu.Lock()
		defer pushMu.Unlock()
		select {
		case <-updates:
		default:
		}
		updates <- records
	}

	stop, err := h.service.Watch(ctx, limit, push)
	var poll <-chan time.Time
	switch {
	case errors.Is(err, storage.ErrWatchUnsupported):
		h.logger.Info("change streams unavailable, polling registrations",
			zap.Duration("interval", h.pollInterval))
		records, listErr := h.service.List(ctx, limit)
		if listErr != nil {
			respondError(c, listErr)
			return
		}
		push(records)
		ticker := time.NewTicker(h.pollInterval)
		defer ticker.Stop()
		poll = ticker.C
	case err != nil:
		respondError(c, err)
		return
	default:
		defer stop()
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.closing:
			return
		case records := <-updates:
			c.SSEvent("registrations", RegistrationListResponse{Data: records, Count: len(records)})
		case <-poll:
			records, err := h.service.List(ctx, limit)
			if err != nil {
				if ctx.Err() == nil {
					h.logger.Warn("failed to poll registrations", zap.Error(err))
				}
				continue
			}
			c.SSEvent("registrations", RegistrationListResponse{Data: records, Count: len(records)})
		case now := <-heartbeat.C:
			c.SSEvent("heartbeat", now.UTC().Format(time.RFC3339))
		}
		c.Writer.Flush()
	}
}

// GetRegistrationStats godoc
// @Summary Indicadores de cadastros
// @Description Retorna o total de cadastros, os pendentes, aprovados, rejeitados e os criados no mês corrente
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.RegistrationStats
// @Failure 401 {object} ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} ErrorResponse "Usuário não é administrador"
// @Failure 503 {object} ErrorResponse "Armazenamento indisponível"
// @Router /admin/registrations/stats [get]
func (h *AdminRegistrationHandlers) GetRegistrationStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRegistration godoc
// @Summary Detalhar cadastro
// @Description Retorna os dados de um cadastro com links temporários para download dos documentos
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cadastro"
// @Success 200 {object} models.RegistrationRecord
// @Failure 401 {object} ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} ErrorResponse "Usuário não é administrador"
// @Failure 404 {object} ErrorResponse "Cadastro não encontrado"
// @Failure 503 {object} ErrorResponse "Armazenamento indisponível"
// @Router /admin/registrations/{id} [get]
func (h *AdminRegistrationHandlers) GetRegistration(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateRegistrationStatus godoc
// @Summary Atualizar status do cadastro
// @Description Altera o status de análise do cadastro (pending, approved ou rejected). A alteração é auditada.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cadastro"
// @Param data body UpdateStatusRequest true "Novo status"
// @Success 200 {object} models.RegistrationRecord
// @Failure 400 {object} ErrorResponse "Status inválido"
// @Failure 401 {object} ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} ErrorResponse "Usuário não é administrador"
// @Failure 404 {object} ErrorResponse "Cadastro não encontrado"
// @Failure 503 {object} ErrorResponse "Armazenamento indisponível"
// @Router /admin/registrations/{id}/status [put]
func (h *AdminRegistrationHandlers) UpdateRegistrationStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	status := models.RegistrationStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))

	record, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), status, middleware.AuditContextFromGin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
