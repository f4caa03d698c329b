package utils

import (
	"regexp"
	"strings"
)

var (
	nonDigitRegex   = regexp.MustCompile(`\D`)
	brazilPhoneRe   = regexp.MustCompile(`^\+55\d{10,11}$`)
	emailShapeRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// NormalizeDigits removes every non-digit character
func NormalizeDigits(value string) string {
	return nonDigitRegex.ReplaceAllString(value, "")
}

// allSameDigit reports whether every byte of s equals the first one
func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit computes a mod-11 check digit over digits using weights
func checkDigit(digits string, weights []int) byte {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + 11 - remainder)
}

// cpfWeights returns the descending weights n..2
func cpfWeights(n int) []int {
	weights := make([]int, 0, n-1)
	for w := n; w >= 2; w-- {
		weights = append(weights, w)
	}
	return weights
}

// ValidateCPF validates a CPF number.
// It checks if the CPF has 11 digits and validates the check digits
func ValidateCPF(cpf string) bool {
	cpf = NormalizeDigits(cpf)
	if len(cpf) != 11 || allSameDigit(cpf) {
		return false
	}
	if checkDigit(cpf, cpfWeights(10)) != cpf[9] {
		return false
	}
	return checkDigit(cpf, cpfWeights(11)) == cpf[10]
}

// ValidateCNPJ validates a CNPJ number.
// It checks if the CNPJ has 14 digits and validates the check digits
func ValidateCNPJ(cnpj string) bool {
	cnpj = NormalizeDigits(cnpj)
	if len(cnpj) != 14 || allSameDigit(cnpj) {
		return false
	}
	if checkDigit(cnpj, cnpjFirstWeights) != cnpj[12] {
		return false
	}
	return checkDigit(cnpj, cnpjSecondWeights) == cnpj[13]
}

// ValidateCEP checks that a postal code has exactly 8 digits
func ValidateCEP(cep string) bool {
	return len(NormalizeDigits(cep)) == 8
}

// ValidateBrazilianPhone accepts only +55 numbers with 10 or 11 national digits
func ValidateBrazilianPhone(phone string) bool {
	return brazilPhoneRe.MatchString(strings.TrimSpace(phone))
}

// ValidateEmailShape checks the loose local@domain.tld shape
func ValidateEmailShape(email string) bool {
	return emailShapeRegex.MatchString(strings.TrimSpace(email))
}

// truncate keeps at most n leading bytes of s
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// FormatCPF masks a partial or full CPF as 000.000.000-00
func FormatCPF(value string) string {
	digits := truncate(NormalizeDigits(value), 11)
	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatCNPJ masks a partial or full CNPJ as 00.000.000/0000-00
func FormatCNPJ(value string) string {
	digits := truncate(NormalizeDigits(value), 14)
	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// FormatCEP masks a partial or full CEP as 00000-000
func FormatCEP(value string) string {
	digits := truncate(NormalizeDigits(value), 8)
	if len(digits) <= 5 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}

// FormatPhone prefixes +55 when missing and caps the result at +55 plus 11 digits
func FormatPhone(value string) string {
	digits := NormalizeDigits(value)
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	return truncate("+"+digits, 14)
}
