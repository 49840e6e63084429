package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// EmailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// UUIDRegex validates UUID format
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// PhoneRegex accepts Brazilian landline and mobile numbers with or without formatting
	phoneRegex = regexp.MustCompile(`^\(?\d{2}\)?\s?9?\d{4}-?\d{4}$`)
)

// States are the Brazilian federative unit codes.
var states = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
	"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
	"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
	"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
}

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUUID checks if the string is a valid UUID format
func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// IsValidPhone checks a Brazilian phone number, e.g. "(81) 99999-0000"
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

// IsValidUF checks a two letter state code, case-insensitively
func IsValidUF(uf string) bool {
	return states[strings.ToUpper(uf)]
}

// OnlyDigits strips punctuation from documents and postal codes
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCEP checks an 8 digit postal code, formatted or not
func IsValidCEP(cep string) bool {
	digits := OnlyDigits(cep)
	return len(digits) == 8 && len(cep) <= 9
}

// IsValidCPF verifies both check digits of an individual taxpayer number
func IsValidCPF(cpf string) bool {
	d := digitsOf(cpf, 11)
	if d == nil || allSame(d) {
		return false
	}
	for n := 9; n <= 10; n++ {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != d[n] {
			return false
		}
	}
	return true
}

// IsValidCNPJ verifies both check digits of a company taxpayer number
func IsValidCNPJ(cnpj string) bool {
	d := digitsOf(cnpj, 14)
	if d == nil || allSame(d) {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for n := 12; n <= 13; n++ {
		w := weights[13-n:]
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * w[i]
		}
		check := 0
		if r := sum % 11; r >= 2 {
			check = 11 - r
		}
		if check != d[n] {
			return false
		}
	}
	return true
}

// IsValidDocument accepts either a CPF or a CNPJ
func IsValidDocument(doc string) bool {
	return IsValidCPF(doc) || IsValidCNPJ(doc)
}

func digitsOf(s string, n int) []int {
	digits := OnlyDigits(s)
	if len(digits) != n {
		return nil
	}
	d := make([]int, n)
	for i, r := range digits {
		d[i] = int(r - '0')
	}
	return d
}

func allSame(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}

// IsValidPassword checks password strength
func IsValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must be at most 72 characters"
	}

	var (
		hasLetter bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return false, "Password must contain at least one letter"
	}
	if !hasNumber {
		return false, "Password must contain at least one number"
	}

	return true, ""
}

// SanitizeString removes potentially dangerous characters for display
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Remove control characters except newlines and tabs
	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// TruncateString truncates a string to maxLen runes
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
