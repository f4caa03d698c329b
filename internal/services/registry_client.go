package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/models"
	"github.com/nova-solidum/app-onboarding/internal/utils"
	"go.uber.org/zap"
)

// RegistryClient fetches a company from the national registry. A company that
// does not exist is (nil, nil).
type RegistryClient interface {
	FetchByID(ctx context.Context, cnpj string) (*models.BrasilAPICNPJ, error)
}

// BrasilAPIClient reads the BrasilAPI CNPJ endpoint
type BrasilAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.SafeLogger
}

// NewBrasilAPIClient creates a registry client. The per-call deadline comes
// from the context.
func NewBrasilAPIClient(baseURL string, httpClient *http.Client, logger *logging.SafeLogger) *BrasilAPIClient {
	return &BrasilAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.Named("brasilapi_client"),
	}
}

func (c *BrasilAPIClient) FetchByID(ctx context.Context, cnpj string) (*models.BrasilAPICNPJ, error) {
	ctx, span := utils.TraceExternalService(ctx, "brasilapi", "fetch_cnpj")
	defer span.End()
	start := time.Now()
	defer utils.AddTimingToSpan(span, start)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+cnpj, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	utils.AddSpanAttribute(span, "http.status_code", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("registry returned status %d", resp.StatusCode)
		utils.RecordErrorInSpan(span, err, nil)
		c.logger.Warn("registry lookup failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, models.NewTransientIOError("registry lookup", err)
	}

	var payload models.BrasilAPICNPJ
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, models.NewTransientIOError("registry lookup", fmt.Errorf("failed to decode registry response: %w", err))
	}
	return &payload, nil
}

// TransformRegistryResponse maps the BrasilAPI payload to CNPJData. Blank
// upstream values become nil.
func TransformRegistryResponse(raw *models.BrasilAPICNPJ, requested string, now time.Time) *models.CNPJData {
	cnpj := utils.NormalizeDigits(string(raw.CNPJ))
	if cnpj == "" {
		cnpj = requested
	} else {
		cnpj = leftPad(cnpj, 14)
	}

	data := &models.CNPJData{
		CNPJ:              cnpj,
		RazaoSocial:       optional(raw.RazaoSocial),
		NomeFantasia:      optional(raw.NomeFantasia),
		SituacaoCadastral: optional(raw.DescricaoSituacaoCadastral),
		DataAbertura:      isoDate(raw.DataInicioAtividade),
		NaturezaJuridica:  optional(string(raw.CodigoNaturezaJuridica)),
		CNAEsSecundarios:  make([]models.CNAE, 0, len(raw.CNAEsSecundarios)),
		Endereco: models.CNPJEndereco{
			Logradouro:  optional(raw.StreetType() + " " + raw.Logradouro),
			Numero:      optional(raw.Numero),
			Complemento: optional(raw.Complemento),
			Bairro:      optional(raw.Bairro),
			Municipio:   optional(raw.Municipio),
			UF:          optional(raw.UF),
		},
		Contato: models.CNPJContato{
			Telefone: optional(raw.DDDTelefone1),
		},
		Fonte:        models.CNPJSourceRegistryAPI,
		AtualizadoEm: now.UTC(),
	}

	if code := strings.TrimSpace(string(raw.CNAEFiscal)); code != "" && code != "0" {
		data.CNAEPrincipal = &models.CNAE{Codigo: code, Descricao: strings.TrimSpace(raw.CNAEFiscalDescricao)}
	}
	for _, cnae := range raw.CNAEsSecundarios {
		code := strings.TrimSpace(string(cnae.Codigo))
		if code == "" || code == "0" {
			continue
		}
		data.CNAEsSecundarios = append(data.CNAEsSecundarios, models.CNAE{Codigo: code, Descricao: cnae.Descricao})
	}
	if cep := utils.NormalizeDigits(string(raw.CEP)); cep != "" {
		cep = leftPad(cep, 8)
		data.Endereco.CEP = &cep
	}
	return data
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func leftPad(digits string, n int) string {
	if len(digits) >= n {
		return digits
	}
	return strings.Repeat("0", n-len(digits)) + digits
}

// isoDate accepts YYYYMMDD and YYYY-MM-DD and returns YYYY-MM-DD
func isoDate(value string) *string {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			formatted := t.Format("2006-01-02")
			return &formatted
		}
	}
	return nil
}

// isTimeout reports whether err comes from an expired deadline
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
