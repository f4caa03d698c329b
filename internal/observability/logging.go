package observability

import (
	"strings"

	"github.com/nova-solidum/app-onboarding/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCPF masks a CPF for logging, keeping only the middle block
func MaskCPF(cpf string) string {
	if len(cpf) != 11 {
		return "***.***.***-**"
	}
	return "***." + cpf[3:6] + ".***-**"
}

// MaskCNPJ masks a CNPJ for logging, keeping the company root and hiding the branch
func MaskCNPJ(cnpj string) string {
	if len(cnpj) != 14 {
		return "**.***.***/****-**"
	}
	return cnpj[:2] + "." + cnpj[2:5] + "." + cnpj[5:8] + "/****-**"
}

// MaskEmail keeps the first character of the local part and the domain
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// sensitiveFields are registration fields never written to logs in clear
var sensitiveFields = map[string]bool{
	"cpf":                  true,
	"majority_admin_cpf":   true,
	"rg":                   true,
	"cnh":                  true,
	"user_phone":           true,
	"company_phone":        true,
	"majority_admin_phone": true,
	"birth_date":           true,
}

// MaskSensitiveData masks sensitive data in a map
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))
	for k, v := range data {
		if sensitiveFields[k] {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}
	return masked
}
