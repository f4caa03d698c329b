package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
	"github.com/nova-solidum/app-onboarding/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistrations = "registrations"

func setupOnboardingRouter(t *testing.T, registrations *services.RegistrationService) *gin.Engine {
	t.Helper()
	h := NewOnboardingHandlers(services.NewOnboardingValidator(), registrations, logging.Nop())
	router := gin.New()
	v1 := router.Group("/v1")
	v1.GET("/onboarding/steps", h.GetSteps)
	v1.POST("/onboarding/steps/:step/validate", h.ValidateStep)
	v1.POST("/onboarding/review", h.Review)
	v1.POST("/registrations", h.Submit)
	return router
}

func newMemoryRegistrations() (*services.RegistrationService, *storage.MemoryBlobStore) {
	blobs := storage.NewMemoryBlobStore()
	return services.NewRegistrationService(storage.NewMemoryDocumentStore(), blobs, testRegistrations, nil, logging.Nop()), blobs
}

func postForm(router http.Handler, path string, fields map[models.Field]string, t *testing.T, files ...testFile) *httptest.ResponseRecorder {
	body, contentType := multipartBody(t, fields, files...)
	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetSteps(t *testing.T) {
	registrations, _ := newMemoryRegistrations()
	router := setupOnboardingRouter(t, registrations)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantType   models.AccountType
	}{
		{name: "default individual", query: "", wantStatus: http.StatusOK, wantType: models.AccountTypeIndividual},
		{name: "company lowercase", query: "?account_type=pj", wantStatus: http.StatusOK, wantType: models.AccountTypeCompany},
		{name: "foreign individual", query: "?account_type=PF&is_foreigner=true", wantStatus: http.StatusOK, wantType: models.AccountTypeIndividual},
		{name: "unknown account type", query: "?account_type=XX", wantStatus: http.StatusBadRequest},
		{name: "bad foreigner flag", query: "?is_foreigner=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/v1/onboarding/steps"+tt.query, nil)
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp StepsResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantType, resp.AccountType)
			assert.Len(t, resp.Steps, 5)
		})
	}
}

func TestValidateStep(t *testing.T) {
	registrations, _ := newMemoryRegistrations()
	router := setupOnboardingRouter(t, registrations)

	t.Run("valid identity step advances", func(t *testing.T) {
		w := postForm(router, "/v1/onboarding/steps/1/validate", individualFields(), t)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp StepValidationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Step)
		assert.Equal(t, 2, resp.NextStep)
		assert.True(t, resp.Valid)
	})

	t.Run("invalid cpf blocks the identity step", func(t *testing.T) {
		fields := individualFields()
		fields[models.FieldCPF] = "111.444.777-36"
		w := postForm(router, "/v1/onboarding/steps/1/validate", fields, t)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, string(models.FieldCPF), resp.Errors[0].Field)
		assert.Equal(t, services.MsgInvalidCPF, resp.Errors[0].Message)
	})

	t.Run("later step errors do not block an earlier step", func(t *testing.T) {
		w := postForm(router, "/v1/onboarding/steps/1/validate", individualFields(), t)
		assert.Equal(t, http.StatusOK, w.Code, "documents are missing but belong to step 3")
	})

	t.Run("documents step requires the id files", func(t *testing.T) {
		w := postForm(router, "/v1/onboarding/steps/3/validate", individualFields(), t)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), string(models.FieldDocumentFront))
	})

	t.Run("step out of range", func(t *testing.T) {
		w := postForm(router, "/v1/onboarding/steps/7/validate", individualFields(), t)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad flag value", func(t *testing.T) {
		fields := individualFields()
		fields[models.FieldAcceptTerms] = "yes please"
		w := postForm(router, "/v1/onboarding/steps/1/validate", fields, t)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReview(t *testing.T) {
	registrations, _ := newMemoryRegistrations()
	router := setupOnboardingRouter(t, registrations)

	fields := individualFields()
	fields[models.FieldCPF] = "11144477735"
	w := postForm(router, "/v1/onboarding/review", fields, t, individualFiles()...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ReviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Sections)
	assert.Contains(t, w.Body.String(), "111.444.777-35")
	assert.Contains(t, w.Body.String(), "front.png")
}

func TestSubmit(t *testing.T) {
	t.Run("valid individual is stored with documents", func(t *testing.T) {
		registrations, blobs := newMemoryRegistrations()
		router := setupOnboardingRouter(t, registrations)

		w := postForm(router, "/v1/registrations", individualFields(), t, individualFiles()...)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp SubmitResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.ID)
		assert.Equal(t, models.RegistrationStatusPending, resp.Status)

		record, err := registrations.Get(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AccountTypeIndividual, record.AccountType)
		assert.Len(t, record.Documents, 2)
		assert.Equal(t, 2, blobs.Len())
	})

	t.Run("invalid draft is rejected with field errors", func(t *testing.T) {
		registrations, blobs := newMemoryRegistrations()
		router := setupOnboardingRouter(t, registrations)

		fields := individualFields()
		fields[models.FieldAcceptTerms] = "false"
		w := postForm(router, "/v1/registrations", fields, t, individualFiles()...)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), string(models.FieldAcceptTerms))
		assert.Equal(t, 0, blobs.Len())
	})

	t.Run("wrong file type is rejected", func(t *testing.T) {
		registrations, _ := newMemoryRegistrations()
		router := setupOnboardingRouter(t, registrations)

		files := individualFiles()
		files[0].mimeType = "image/gif"
		w := postForm(router, "/v1/registrations", individualFields(), t, files...)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), services.MsgInvalidFileType)
	})

	t.Run("oversized certificate is rejected before storage", func(t *testing.T) {
		registrations, blobs := newMemoryRegistrations()
		router := setupOnboardingRouter(t, registrations)

		files := append(individualFiles(), testFile{
			field:    models.FieldECNPJCertificate,
			name:     "company.pfx",
			mimeType: "application/x-pkcs12",
			data:     bytes.Repeat([]byte("a"), int(services.MaxDocumentSize)+10),
		})
		w := postForm(router, "/v1/registrations", individualFields(), t, files...)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, string(models.FieldECNPJCertificate), resp.Errors[0].Field)
		assert.Equal(t, services.MsgFileTooLarge, resp.Errors[0].Message)
		assert.Equal(t, 0, blobs.Len())

		records, err := registrations.List(context.Background(), 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("body over the request limit", func(t *testing.T) {
		registrations, blobs := newMemoryRegistrations()
		h := NewOnboardingHandlers(services.NewOnboardingValidator(), registrations, logging.Nop())
		h.maxBody = 512
		router := gin.New()
		router.POST("/v1/registrations", h.Submit)

		w := postForm(router, "/v1/registrations", individualFields(), t, individualFiles()...)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
		assert.Equal(t, 0, blobs.Len())
	})

	t.Run("missing document store blocks submission", func(t *testing.T) {
		registrations := services.NewRegistrationService(nil, storage.NewMemoryBlobStore(), testRegistrations, nil, logging.Nop())
		router := setupOnboardingRouter(t, registrations)

		w := postForm(router, "/v1/registrations", individualFields(), t, individualFiles()...)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
