package models

// ViaCEPResponse is the ViaCEP lookup payload. Erro is set for unknown CEPs.
type ViaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        Bool   `json:"erro"`
}

// Bool accepts true, "true" and absent values. ViaCEP has returned both forms.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`:
		*b = true
	default:
		*b = false
	}
	return nil
}

// AddressSuggestion is the autofill result for a CEP
type AddressSuggestion struct {
	CEP      string `json:"cep"`
	Street   string `json:"street"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
}
