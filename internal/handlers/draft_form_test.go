package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/services"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRequest(t *testing.T, req *http.Request) (*models.RegistrationDraft, error) {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return parseDraftForm(c, MaxDraftBody)
}

func TestParseDraftForm_Multipart(t *testing.T) {
	body, contentType := multipartBody(t, individualFields(), individualFiles()...)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	draft, err := parseRequest(t, req)
	require.NoError(t, err)

	assert.Equal(t, models.AccountTypeIndividual, draft.AccountType)
	assert.Equal(t, "111.444.777-35", draft.Get(models.FieldCPF))
	assert.True(t, draft.Flag(models.FieldAcceptTerms))
	assert.False(t, draft.Flag(models.FieldIsForeigner))

	front := draft.File(models.FieldDocumentFront)
	assert.True(t, front.IsPresent())
	assert.Equal(t, "front.png", front.Name)
	assert.Equal(t, "image/png", front.MimeType)
	assert.Equal(t, []byte("\x89PNG front"), front.Bytes)
	assert.Equal(t, int64(len("\x89PNG front")), front.SizeBytes)
	assert.False(t, draft.File(models.FieldSelfie).IsPresent())
}

func TestParseDraftForm_URLEncoded(t *testing.T) {
	form := url.Values{}
	form.Set("account_type", "pj")
	form.Set("cnpj", "11.222.333/0001-81")
	form.Set("admin_id_front", "not-a-file.png")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	draft, err := parseRequest(t, req)
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeCompany, draft.AccountType)
	assert.Equal(t, "11.222.333/0001-81", draft.Get(models.FieldCNPJ))
	assert.False(t, draft.File(models.FieldAdminIDFront).IsPresent(), "file slots only come from file parts")
}

func TestParseDraftForm_InvalidFlag(t *testing.T) {
	form := url.Values{}
	form.Set("accept_terms", "sure")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := parseRequest(t, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestParseDraftForm_OversizedFilesRejected(t *testing.T) {
	big := bytes.Repeat([]byte("a"), int(services.MaxDocumentSize)+1)
	body, contentType := multipartBody(t, map[models.Field]string{models.FieldAccountType: "PJ"},
		testFile{field: models.FieldECNPJCertificate, name: "company.pfx", mimeType: "application/x-pkcs12", data: big},
		testFile{field: models.FieldCNPJCard, name: "card.pdf", mimeType: "application/pdf", data: []byte("%PDF-1.4 card")})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	draft, err := parseRequest(t, req)
	require.Error(t, err)
	assert.Nil(t, draft)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	var validationErr *utils.ValidationErrors
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, string(models.FieldECNPJCertificate), validationErr.Errors[0].Field)
	assert.Equal(t, services.MsgFileTooLarge, validationErr.Errors[0].Message)
}

func TestParseDraftForm_BodyLimit(t *testing.T) {
	body, contentType := multipartBody(t, individualFields(), individualFiles()...)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	_, err := parseDraftForm(c, 64)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPayloadTooLarge))
}
