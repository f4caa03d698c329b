package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/middleware"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
)

// CNPJHandlers serves company lookups for admins
type CNPJHandlers struct {
	service *services.CNPJLookupService
}

// NewCNPJHandlers creates the CNPJ handlers
func NewCNPJHandlers(service *services.CNPJLookupService) *CNPJHandlers {
	return &CNPJHandlers{service: service}
}

// CNPJLookupResponse wraps a lookup result
type CNPJLookupResponse struct {
	Found bool             `json:"found"`
	Data  *models.CNPJData `json:"data,omitempty"`
}

// LookupCNPJ godoc
// @Summary Consultar CNPJ
// @Description Consulta os dados cadastrais de uma empresa. Usa o cache de 30 dias e, se necessário, a BrasilAPI. Toda consulta é auditada.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param cnpj path string true "CNPJ (14 dígitos, com ou sem máscara)"
// @Success 200 {object} CNPJLookupResponse "Empresa encontrada"
// @Failure 400 {object} ValidationErrorResponse "CNPJ inválido"
// @Failure 401 {object} ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} ErrorResponse "Usuário não é administrador"
// @Failure 404 {object} CNPJLookupResponse "CNPJ não encontrado"
// @Failure 503 {object} ErrorResponse "Consulta indisponível"
// @Failure 504 {object} ErrorResponse "Tempo de consulta esgotado"
// @Router /admin/cnpj/{cnpj} [get]
func (h *CNPJHandlers) LookupCNPJ(c *gin.Context) {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	data, err := h.service.Lookup(c.Request.Context(), c.Param("cnpj"), identity)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			respondBadIdentifier(c, err)
			return
		}
		respondError(c, err)
		return
	}
	if data == nil {
		c.JSON(http.StatusNotFound, CNPJLookupResponse{Found: false})
		return
	}
	c.JSON(http.StatusOK, CNPJLookupResponse{Found: true, Data: data})
}
