package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationResult(t *testing.T) {
	result := NewValidationResult()

	require.NotNil(t, result)
	assert.True(t, result.IsValid)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
}

func TestValidationResult_AddError(t *testing.T) {
	result := NewValidationResult()

	result.AddError("cpf", "CPF inválido")
	result.AddError("selfie", "Arquivo deve ter no máximo 10MB")
	result.AddError("selfie", "Formato não suportado")

	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3)
	assert.True(t, result.HasError("cpf"))
	assert.False(t, result.HasError("cnpj"))
	assert.Equal(t, []string{"Arquivo deve ter no máximo 10MB", "Formato não suportado"}, result.FieldErrors("selfie"))
	assert.Equal(t, []string{"cpf", "selfie"}, result.Fields())
}

func TestValidationResult_Merge(t *testing.T) {
	a := NewValidationResult()
	b := NewValidationResult()
	b.AddError("cep", "CEP inválido")

	a.Merge(b)
	a.Merge(nil)

	assert.False(t, a.IsValid)
	assert.Equal(t, []string{"cep"}, a.Fields())
}

func TestValidationResult_Err(t *testing.T) {
	result := NewValidationResult()
	result.AddError("cnpj", "CNPJ inválido")

	err := result.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Equal(t, "validation failed: cnpj: CNPJ inválido", err.Error())

	var verrs *ValidationErrors
	require.True(t, errors.As(fmt.Errorf("submit: %w", err), &verrs))
	assert.Len(t, verrs.Errors, 1)

	result.AddError("cep", "later error")
	assert.Len(t, verrs.Errors, 1, "returned error must not alias the result")
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("cnpj", "CNPJ inválido")

	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Equal(t, "cnpj", err.Errors[0].Field)
}
