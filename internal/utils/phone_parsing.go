package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneComponents represents the parsed components of a Brazilian phone number
type PhoneComponents struct {
	DDI      string `json:"ddi"`
	DDD      string `json:"ddd"`
	Number   string `json:"number"`
	E164     string `json:"e164"`
	Display  string `json:"display"`
	IsMobile bool   `json:"is_mobile"`
}

// ParsePhoneNumber parses a phone string, assuming Brazil when no country code is given
func ParsePhoneNumber(phoneString string) (*PhoneComponents, error) {
	cleanPhone := strings.TrimSpace(phoneString)
	if cleanPhone == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	if !strings.HasPrefix(cleanPhone, "+") {
		digits := NormalizeDigits(cleanPhone)
		if strings.HasPrefix(digits, "55") && len(digits) >= 12 {
			cleanPhone = "+" + digits
		} else {
			cleanPhone = "+55" + digits
		}
	}

	num, err := phonenumbers.Parse(cleanPhone, "BR")
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	national := phonenumbers.GetNationalSignificantNumber(num)
	components := &PhoneComponents{
		DDI:      fmt.Sprintf("%d", num.GetCountryCode()),
		E164:     phonenumbers.Format(num, phonenumbers.E164),
		Display:  phonenumbers.Format(num, phonenumbers.INTERNATIONAL),
		IsMobile: phonenumbers.GetNumberType(num) == phonenumbers.MOBILE,
		Number:   national,
	}
	if num.GetCountryCode() == 55 && len(national) > 2 {
		components.DDD = national[:2]
		components.Number = national[2:]
	}

	return components, nil
}

// DisplayPhone renders a phone for human review, falling back to the raw value
// when the number cannot be parsed
func DisplayPhone(phoneString string) string {
	components, err := ParsePhoneNumber(phoneString)
	if err != nil {
		return strings.TrimSpace(phoneString)
	}
	return components.Display
}
