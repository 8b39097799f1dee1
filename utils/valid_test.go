package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWhatsapp(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		wantErr bool
	}{
		{"valid local number", "03001234567", false},
		{"valid alternate prefix", "03451234567", false},
		{"too short", "0300123456", true},
		{"too long", "030012345678", true},
		{"wrong prefix", "04001234567", true},
		{"international format", "+923001234567", true},
		{"letters", "03OO1234567", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWhatsapp(tt.number)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsWhatsapp(t *testing.T) {
	assert.True(t, IsWhatsapp("03001234567"))
	assert.False(t, IsWhatsapp("john_doe"))
	assert.False(t, IsWhatsapp("0300123"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
	assert.NoError(t, ValidatePassword("a longer password"))
}

func TestValidateRegNumber(t *testing.T) {
	assert.NoError(t, ValidateRegNumber("123456"))
	assert.NoError(t, ValidateRegNumber("000001"))
	assert.Error(t, ValidateRegNumber("12345"))
	assert.Error(t, ValidateRegNumber("1234567"))
	assert.Error(t, ValidateRegNumber("12345a"))
	assert.Error(t, ValidateRegNumber(""))
}

func TestGenerateRegNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := GenerateRegNumber()
		require.NoError(t, ValidateRegNumber(n), "generated %q", n)
	}
}

func TestValidateAccountNumber(t *testing.T) {
	assert.NoError(t, ValidateAccountNumber("1234567890"))
	assert.Error(t, ValidateAccountNumber("1234-5678"))
	assert.Error(t, ValidateAccountNumber("PK36SCBL0000001123456702"))
	assert.Error(t, ValidateAccountNumber(""))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"integer", "500", 500, false},
		{"decimal", "1250.50", 1250.50, false},
		{"padded", "  750 ", 750, false},
		{"zero", "0", 0, true},
		{"negative", "-100", 0, true},
		{"empty", "", 0, true},
		{"not a number", "five hundred", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "John Doe", SanitizeInput("  John Doe  "))
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}
