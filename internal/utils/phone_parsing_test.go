package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		phoneString string
		wantDDD     string
		wantNumber  string
		wantE164    string
		wantErr     bool
	}{
		{
			name:        "mobile with country code",
			phoneString: "+5521987654321",
			wantDDD:     "21",
			wantNumber:  "987654321",
			wantE164:    "+5521987654321",
		},
		{
			name:        "mobile without plus",
			phoneString: "5521987654321",
			wantDDD:     "21",
			wantNumber:  "987654321",
			wantE164:    "+5521987654321",
		},
		{
			name:        "mobile without country code",
			phoneString: "(21) 98765-4321",
			wantDDD:     "21",
			wantNumber:  "987654321",
			wantE164:    "+5521987654321",
		},
		{
			name:        "landline",
			phoneString: "+551133334444",
			wantDDD:     "11",
			wantNumber:  "33334444",
			wantE164:    "+551133334444",
		},
		{name: "empty", phoneString: "", wantErr: true},
		{name: "too short", phoneString: "123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhoneNumber(tt.phoneString)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "55", got.DDI)
			assert.Equal(t, tt.wantDDD, got.DDD)
			assert.Equal(t, tt.wantNumber, got.Number)
			assert.Equal(t, tt.wantE164, got.E164)
		})
	}
}

func TestDisplayPhone(t *testing.T) {
	assert.Equal(t, "+55 21 98765-4321", DisplayPhone("+5521987654321"))
	assert.Equal(t, "not a phone", DisplayPhone(" not a phone "))
}
