package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// CNPJSource tells where a lookup payload came from
type CNPJSource string

const (
	CNPJSourceCache       CNPJSource = "cache"
	CNPJSourceRegistryAPI CNPJSource = "registry-api"
)

// CNPJLookupOutcome is the audited result of a lookup
type CNPJLookupOutcome string

const (
	CNPJLookupFound    CNPJLookupOutcome = "found"
	CNPJLookupNotFound CNPJLookupOutcome = "not_found"
	CNPJLookupError    CNPJLookupOutcome = "error"
)

// CNAE is an economic activity code with its description
type CNAE struct {
	Codigo    string `bson:"codigo" json:"codigo"`
	Descricao string `bson:"descricao" json:"descricao"`
}

// CNPJEndereco is the registered company address
type CNPJEndereco struct {
	Logradouro  *string `bson:"logradouro" json:"logradouro"`
	Numero      *string `bson:"numero" json:"numero"`
	Complemento *string `bson:"complemento" json:"complemento"`
	Bairro      *string `bson:"bairro" json:"bairro"`
	Municipio   *string `bson:"municipio" json:"municipio"`
	UF          *string `bson:"uf" json:"uf"`
	CEP         *string `bson:"cep" json:"cep"`
}

// CNPJContato is the registered company contact
type CNPJContato struct {
	Telefone *string `bson:"telefone" json:"telefone"`
	Email    *string `bson:"email" json:"email"`
}

// CNPJData is the normalized company record returned by a lookup
type CNPJData struct {
	CNPJ              string       `bson:"cnpj" json:"cnpj"`
	RazaoSocial       *string      `bson:"razao_social" json:"razao_social"`
	NomeFantasia      *string      `bson:"nome_fantasia" json:"nome_fantasia"`
	SituacaoCadastral *string      `bson:"situacao_cadastral" json:"situacao_cadastral"`
	DataAbertura      *string      `bson:"data_abertura" json:"data_abertura"`
	NaturezaJuridica  *string      `bson:"natureza_juridica" json:"natureza_juridica"`
	CNAEPrincipal     *CNAE        `bson:"cnae_principal" json:"cnae_principal"`
	CNAEsSecundarios  []CNAE       `bson:"cnaes_secundarios" json:"cnaes_secundarios"`
	Endereco          CNPJEndereco `bson:"endereco" json:"endereco"`
	Contato           CNPJContato  `bson:"contato" json:"contato"`
	Fonte             CNPJSource   `bson:"fonte" json:"fonte"`
	AtualizadoEm      time.Time    `bson:"atualizado_em" json:"atualizado_em"`
}

// Copy returns a copy that shares no slices or pointers with d
func (d *CNPJData) Copy() *CNPJData {
	if d == nil {
		return nil
	}
	out := *d
	out.RazaoSocial = copyString(d.RazaoSocial)
	out.NomeFantasia = copyString(d.NomeFantasia)
	out.SituacaoCadastral = copyString(d.SituacaoCadastral)
	out.DataAbertura = copyString(d.DataAbertura)
	out.NaturezaJuridica = copyString(d.NaturezaJuridica)
	if d.CNAEPrincipal != nil {
		cnae := *d.CNAEPrincipal
		out.CNAEPrincipal = &cnae
	}
	out.CNAEsSecundarios = append([]CNAE(nil), d.CNAEsSecundarios...)
	out.Endereco = CNPJEndereco{
		Logradouro:  copyString(d.Endereco.Logradouro),
		Numero:      copyString(d.Endereco.Numero),
		Complemento: copyString(d.Endereco.Complemento),
		Bairro:      copyString(d.Endereco.Bairro),
		Municipio:   copyString(d.Endereco.Municipio),
		UF:          copyString(d.Endereco.UF),
		CEP:         copyString(d.Endereco.CEP),
	}
	out.Contato = CNPJContato{
		Telefone: copyString(d.Contato.Telefone),
		Email:    copyString(d.Contato.Email),
	}
	return &out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// CNPJCacheEntry is a cached lookup payload. It is live while now < ExpiresAt.
type CNPJCacheEntry struct {
	CNPJ      string     `json:"cnpj"`
	Payload   CNPJData   `json:"payload"`
	Source    CNPJSource `json:"source"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// IsLive reports whether the entry can still be served at now
func (e *CNPJCacheEntry) IsLive(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// CNPJLookupLog is one append-only audit entry per lookup call
type CNPJLookupLog struct {
	UserID       string            `bson:"user_id" json:"user_id"`
	UserEmail    string            `bson:"user_email" json:"user_email"`
	CNPJ         string            `bson:"cnpj" json:"cnpj"`
	SearchedAt   time.Time         `bson:"searched_at" json:"searched_at"`
	ResultStatus CNPJLookupOutcome `bson:"result_status" json:"result_status"`
	SourceUsed   CNPJSource        `bson:"source_used,omitempty" json:"source_used,omitempty"`
	LatencyMs    int64             `bson:"latency_ms" json:"latency_ms"`
	ErrorMessage string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
}

// FlexString decodes a JSON string or number into its string form. The
// registry returns some codes (cep, cnae) as numbers and others as strings.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// BrasilAPICNPJ is the subset of the BrasilAPI CNPJ response the service reads.
// The street type has appeared under two keys.
type BrasilAPICNPJ struct {
	CNPJ                       FlexString `json:"cnpj"`
	RazaoSocial                string     `json:"razao_social"`
	NomeFantasia               string     `json:"nome_fantasia"`
	DescricaoSituacaoCadastral string     `json:"descricao_situacao_cadastral"`
	DataInicioAtividade        string     `json:"data_inicio_atividade"`
	CodigoNaturezaJuridica     FlexString `json:"codigo_natureza_juridica"`
	CNAEFiscal                 FlexString `json:"cnae_fiscal"`
	CNAEFiscalDescricao        string     `json:"cnae_fiscal_descricao"`
	DescricaoTipoLogradouro    string     `json:"descricao_tipo_logradouro"`
	DescricaoTipoDeLogradouro  string     `json:"descricao_tipo_de_logradouro"`
	Logradouro                 string     `json:"logradouro"`
	Numero                     string     `json:"numero"`
	Complemento                string     `json:"complemento"`
	Bairro                     string     `json:"bairro"`
	CEP                        FlexString `json:"cep"`
	UF                         string     `json:"uf"`
	Municipio                  string     `json:"municipio"`
	DDDTelefone1               string     `json:"ddd_telefone_1"`
	CNAEsSecundarios           []struct {
		Codigo    FlexString `json:"codigo"`
		Descricao string     `json:"descricao"`
	} `json:"cnaes_secundarios"`
}

// StreetType returns the street type under whichever key the payload used
func (b *BrasilAPICNPJ) StreetType() string {
	if b.DescricaoTipoLogradouro != "" {
		return b.DescricaoTipoLogradouro
	}
	return b.DescricaoTipoDeLogradouro
}
