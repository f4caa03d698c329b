package handlers

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSecret = "handlers-test-secret"
	adminEmail = "admin@novasolidum.com.br"
)

// createTestJWT signs an HS256 token for the given caller
func createTestJWT(t *testing.T, subject, email string) string {
	t.Helper()
	claims := models.IdentityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

type testFile struct {
	field    models.Field
	name     string
	mimeType string
	data     []byte
}

// multipartBody encodes text fields and files the way the onboarding form posts them
func multipartBody(t *testing.T, fields map[models.Field]string, files ...testFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range fields {
		require.NoError(t, writer.WriteField(string(field), value))
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+string(f.field)+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func individualFields() map[models.Field]string {
	return map[models.Field]string{
		models.FieldAccountType: "pf",
		models.FieldFullName:    "Maria da Silva",
		models.FieldCPF:         "111.444.777-35",
		models.FieldBirthDate:   "1990-05-20",
		models.FieldUserEmail:   "maria@example.com",
		models.FieldUserPhone:   "+5511999999999",
		models.FieldCEP:         "01310-100",
		models.FieldStreet:      "Avenida Paulista",
		models.FieldNumber:      "1000",
		models.FieldDistrict:    "Bela Vista",
		models.FieldCity:        "São Paulo",
		models.FieldState:       "SP",
		models.FieldIsForeigner: "false",
		models.FieldPEPStatus:   "false",
		models.FieldAcceptTerms: "true",
	}
}

func individualFiles() []testFile {
	return []testFile{
		{field: models.FieldDocumentFront, name: "front.png", mimeType: "image/png", data: []byte("\x89PNG front")},
		{field: models.FieldDocumentBack, name: "back.pdf", mimeType: "application/pdf", data: []byte("%PDF-1.4 back")},
	}
}

// individualDraft mirrors individualFields for seeding stores directly
func individualDraft() *models.RegistrationDraft {
	d := models.NewRegistrationDraft()
	for field, value := range individualFields() {
		switch {
		case field == models.FieldAccountType:
			d.AccountType = models.AccountTypeIndividual
		case models.IsFlagField(field):
			d.SetFlag(field, value == "true")
		default:
			d.Set(field, value)
		}
	}
	return d
}
