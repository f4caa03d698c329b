package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
)

// AddressHandlers serves CEP autofill
type AddressHandlers struct {
	service *services.AddressService
}

// NewAddressHandlers creates the address handlers
func NewAddressHandlers(service *services.AddressService) *AddressHandlers {
	return &AddressHandlers{service: service}
}

// AddressLookupResponse wraps a CEP suggestion
type AddressLookupResponse struct {
	Found   bool                      `json:"found"`
	Address *models.AddressSuggestion `json:"address,omitempty"`
}

// LookupCEP godoc
// @Summary Consultar CEP
// @Description Retorna logradouro, bairro, cidade e UF de um CEP para preenchimento automático do endereço
// @Tags address
// @Produce json
// @Param cep path string true "CEP (8 dígitos, com ou sem máscara)"
// @Success 200 {object} AddressLookupResponse "Endereço encontrado"
// @Failure 400 {object} ValidationErrorResponse "CEP inválido"
// @Failure 404 {object} AddressLookupResponse "CEP não encontrado"
// @Failure 503 {object} ErrorResponse "Serviço de CEP indisponível"
// @Router /address/cep/{cep} [get]
func (h *AddressHandlers) LookupCEP(c *gin.Context) {
	address, err := h.service.LookupCEP(c.Request.Context(), c.Param("cep"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			respondBadIdentifier(c, err)
			return
		}
		respondError(c, err)
		return
	}
	if address == nil {
		c.JSON(http.StatusNotFound, AddressLookupResponse{Found: false})
		return
	}
	c.JSON(http.StatusOK, AddressLookupResponse{Found: true, Address: address})
}
