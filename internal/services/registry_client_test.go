package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brasilAPIBody = `{
  "cnpj": "11222333000181",
  "razao_social": "SOLIDUM COMERCIO LTDA",
  "nome_fantasia": null,
  "descricao_situacao_cadastral": "ATIVA",
  "data_inicio_atividade": "2010-01-15",
  "codigo_natureza_juridica": 2062,
  "cnae_fiscal": 6201501,
  "cnae_fiscal_descricao": "Desenvolvimento de programas de computador sob encomenda",
  "descricao_tipo_de_logradouro": "AVENIDA",
  "logradouro": "PAULISTA",
  "numero": "1000",
  "complemento": "",
  "bairro": "BELA VISTA",
  "cep": 1310100,
  "uf": "SP",
  "municipio": "SAO PAULO",
  "ddd_telefone_1": "1133334444",
  "cnaes_secundarios": [{"codigo": 0, "descricao": ""}]
}`

func TestBrasilAPIClient_FetchByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cnpj/v1/11222333000181", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(brasilAPIBody))
	}))
	defer server.Close()

	client := NewBrasilAPIClient(server.URL+"/api/cnpj/v1/", server.Client(), logging.Nop())
	raw, err := client.FetchByID(context.Background(), testCNPJ)
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, models.FlexString("2062"), raw.CodigoNaturezaJuridica)
	assert.Equal(t, models.FlexString("1310100"), raw.CEP)

	data := TransformRegistryResponse(raw, testCNPJ, time.Now())
	assert.Nil(t, data.NomeFantasia)
	assert.Equal(t, "01310100", *data.Endereco.CEP)
	assert.Equal(t, "6201501", data.CNAEPrincipal.Codigo)
	assert.Empty(t, data.CNAEsSecundarios)
	assert.Equal(t, "AVENIDA PAULISTA", *data.Endereco.Logradouro)
}

func TestBrasilAPIClient_StatusHandling(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantNil   bool
		transient bool
	}{
		{"not found", http.StatusNotFound, true, false},
		{"rate limited", http.StatusTooManyRequests, true, true},
		{"server error", http.StatusBadGateway, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewBrasilAPIClient(server.URL, server.Client(), logging.Nop())
			raw, err := client.FetchByID(context.Background(), testCNPJ)
			assert.Equal(t, tt.wantNil, raw == nil)
			assert.Equal(t, tt.transient, models.IsTransient(err))
			if !tt.transient {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBrasilAPIClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	client := NewBrasilAPIClient(server.URL, server.Client(), logging.Nop())
	_, err := client.FetchByID(context.Background(), testCNPJ)
	assert.True(t, models.IsTransient(err))
}

func TestCNPJLookupService_WithHTTPTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	client := NewBrasilAPIClient(server.URL, server.Client(), logging.Nop())
	s := NewCNPJLookupService(nil, client, nil, time.Hour, 30*time.Millisecond, logging.Nop())

	_, err := s.Lookup(context.Background(), testCNPJ, lookupActor)
	assert.ErrorIs(t, err, models.ErrLookupTimeout)
}
