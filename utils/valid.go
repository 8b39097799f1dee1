// utils/validation.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// WhatsApp numbers use the local leading-zero format: 0, then 3, then
	// nine more digits (11 total).
	whatsappRegex = regexp.MustCompile(`^03[0-9]{9}$`)

	regNumberRegex = regexp.MustCompile(`^[0-9]{6}$`)

	accountNumberRegex = regexp.MustCompile(`^[0-9]+$`)
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// ValidateWhatsapp validates the local-format WhatsApp number
func ValidateWhatsapp(number string) error {
	if !whatsappRegex.MatchString(number) {
		return errors.New("whatsapp number must start with 03 and be 11 digits long")
	}
	return nil
}

// IsWhatsapp reports whether a login identifier looks like a WhatsApp
// number rather than a username
func IsWhatsapp(identifier string) bool {
	return whatsappRegex.MatchString(identifier)
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

// ValidateRegNumber checks the 6-digit registration number shape
func ValidateRegNumber(regNumber string) error {
	if !regNumberRegex.MatchString(regNumber) {
		return errors.New("registration number must be exactly 6 digits")
	}
	return nil
}

// ValidateAccountNumber enforces digits-only bank account numbers
func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return errors.New("account number must contain digits only")
	}
	return nil
}

// ParseAmount parses a form-submitted amount. Legacy forms post amounts as
// strings.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("amount is required")
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("amount must be a number")
	}
	if amount <= 0 {
		return 0, errors.New("amount must be positive")
	}
	return amount, nil
}
