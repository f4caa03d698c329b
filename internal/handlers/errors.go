package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries the per-field errors of an invalid draft or id
type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Errors []utils.ValidationError `json:"errors"`
}

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationErrors
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Error: "validation failed", Errors: validationErr.Errors})
	case errors.Is(err, models.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, models.ErrInvalidStep), errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrSubmissionInProgress), errors.Is(err, models.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrLookupTimeout):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "upstream lookup timed out, try again"})
	case models.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service temporarily unavailable, try again"})
	default:
		observability.Logger().Error("unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
	_ = c.Error(err)
}

// respondBadIdentifier answers 400 for a malformed CNPJ or CEP
func respondBadIdentifier(c *gin.Context, err error) {
	var validationErr *utils.ValidationErrors
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "invalid identifier", Errors: validationErr.Errors})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
