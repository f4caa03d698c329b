package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

// OnboardingHandlers serves the onboarding wizard
type OnboardingHandlers struct {
	validator *services.OnboardingValidator
	submitter services.RegistrationSubmitter
	logger    *logging.SafeLogger
	maxBody   int64
}

// NewOnboardingHandlers creates the wizard handlers. submitter may be nil, in
// which case submissions fail as not configured.
func NewOnboardingHandlers(validator *services.OnboardingValidator, submitter services.RegistrationSubmitter, logger *logging.SafeLogger) *OnboardingHandlers {
	return &OnboardingHandlers{
		validator: validator,
		submitter: submitter,
		logger:    logger.Named("onboarding_handlers"),
		maxBody:   MaxDraftBody,
	}
}

// StepsResponse lists the wizard steps of a branch
type StepsResponse struct {
	AccountType models.AccountType    `json:"account_type"`
	IsForeigner bool                  `json:"is_foreigner"`
	Steps       []services.WizardStep `json:"steps"`
}

// StepValidationResponse is returned when a step passes validation
type StepValidationResponse struct {
	Step     int  `json:"step"`
	NextStep int  `json:"next_step"`
	Valid    bool `json:"valid"`
}

// ReviewResponse holds the review sections of a draft
type ReviewResponse struct {
	Sections []services.ReviewSection `json:"sections"`
}

// SubmitResponse is returned for an accepted registration
type SubmitResponse struct {
	ID     string                    `json:"id"`
	Status models.RegistrationStatus `json:"status"`
}

// GetSteps godoc
// @Summary Listar etapas do cadastro
// @Description Retorna as cinco etapas do assistente de cadastro para o tipo de conta e residência informados
// @Tags onboarding
// @Produce json
// @Param account_type query string false "Tipo de conta (PF ou PJ, padrão PF)"
// @Param is_foreigner query bool false "Residente no exterior (apenas PF)"
// @Success 200 {object} StepsResponse
// @Failure 400 {object} ErrorResponse "Parâmetros inválidos"
// @Router /onboarding/steps [get]
func (h *OnboardingHandlers) GetSteps(c *gin.Context) {
	accountType := models.AccountType(strings.ToUpper(c.DefaultQuery("account_type", string(models.AccountTypeIndividual))))
	if !accountType.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: services.MsgInvalidAccountType})
		return
	}

	foreigner := false
	if raw := c.Query("is_foreigner"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "is_foreigner must be true or false"})
			return
		}
		foreigner = parsed
	}

	c.JSON(http.StatusOK, StepsResponse{
		AccountType: accountType,
		IsForeigner: foreigner,
		Steps:       services.ComputeSteps(accountType, foreigner),
	})
}

// ValidateStep godoc
// @Summary Validar etapa do cadastro
// @Description Valida apenas os campos da etapa informada. Usado para liberar o avanço no assistente.
// @Tags onboarding
// @Accept multipart/form-data
// @Produce json
// @Param step path int true "Índice da etapa (0 a 4)"
// @Success 200 {object} StepValidationResponse
// @Failure 400 {object} ErrorResponse "Etapa ou formulário inválido"
// @Failure 422 {object} ValidationErrorResponse "Campos da etapa inválidos"
// @Router /onboarding/steps/{step}/validate [post]
func (h *OnboardingHandlers) ValidateStep(c *gin.Context) {
	ctx, span := utils.TraceBusinessLogic(c.Request.Context(), "validate_step")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 0 || step > services.StepReview {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: models.ErrInvalidStep.Error()})
		return
	}

	draft, err := parseDraftForm(c, h.maxBody)
	if err != nil {
		respondError(c, err)
		return
	}

	steps := services.ComputeSteps(draft.AccountType, draft.IsForeigner)
	result := h.validator.ValidateFields(draft, steps[step].Fields)
	if !result.IsValid {
		utils.AddSpanAttribute(span, "validation.errors", len(result.Errors))
		respondError(c, result.Err())
		return
	}

	next := step
	if step < services.StepReview {
		next = step + 1
	}
	c.JSON(http.StatusOK, StepValidationResponse{Step: step, NextStep: next, Valid: true})
}

// Review godoc
// @Summary Revisar cadastro
// @Description Monta as seções de revisão com os valores preenchidos já formatados (CPF, CNPJ, CEP e telefone)
// @Tags onboarding
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} ErrorResponse "Formulário inválido"
// @Router /onboarding/review [post]
func (h *OnboardingHandlers) Review(c *gin.Context) {
	draft, err := parseDraftForm(c, h.maxBody)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{Sections: services.BuildReview(draft)})
}

// Submit godoc
// @Summary Enviar cadastro
// @Description Valida o cadastro completo, grava o registro com status pending e envia os documentos
// @Tags onboarding
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} SubmitResponse
// @Failure 400 {object} ErrorResponse "Formulário inválido"
// @Failure 413 {object} ErrorResponse "Corpo da requisição excede o limite"
// @Failure 422 {object} ValidationErrorResponse "Cadastro inválido"
// @Failure 503 {object} ErrorResponse "Armazenamento indisponível ou não configurado"
// @Router /registrations [post]
func (h *OnboardingHandlers) Submit(c *gin.Context) {
	draft, err := parseDraftForm(c, h.maxBody)
	if err != nil {
		respondError(c, err)
		return
	}

	wizard := services.NewStepWizard(h.validator, h.submitter, h.logger, services.WithDraft(draft))
	id, err := wizard.Submit(c.Request.Context())
	if err != nil {
		if id != "" {
			h.logger.Warn("registration left partially submitted",
				zap.String("record_id", id),
				zap.Error(err))
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{ID: id, Status: models.RegistrationStatusPending})
}
