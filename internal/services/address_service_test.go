package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViaCEPServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ws/01310100/json/":
			_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","complemento":"de 612 a 1510 - lado par","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
		case "/ws/99999999/json/":
			_, _ = w.Write([]byte(`{"erro": "true"}`))
		case "/ws/88888888/json/":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestAddressService_LookupCEP(t *testing.T) {
	var hits int32
	server := newViaCEPServer(t, &hits)
	defer server.Close()
	service := NewAddressService(server.URL+"/ws", server.Client(), nil, time.Hour, logging.Nop())
	ctx := context.Background()

	tests := []struct {
		name      string
		cep       string
		want      *models.AddressSuggestion
		invalid   bool
		transient bool
	}{
		{
			name: "known cep with mask",
			cep:  "01310-100",
			want: &models.AddressSuggestion{CEP: "01310100", Street: "Avenida Paulista", District: "Bela Vista", City: "São Paulo", State: "SP"},
		},
		{name: "unknown cep", cep: "99999-999"},
		{name: "upstream failure", cep: "88888888", transient: true},
		{name: "short cep", cep: "1234", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.LookupCEP(ctx, tt.cep)
			switch {
			case tt.invalid:
				assert.ErrorIs(t, err, models.ErrInvalidInput)
			case tt.transient:
				assert.True(t, models.IsTransient(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}

	// invalid input never reaches the upstream
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}
