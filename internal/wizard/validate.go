package wizard

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizePhone strips everything but digits, so "(555) 123-4567" and
// "555.123.4567" compare equal.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone requires exactly ten digits after normalization.
func ValidatePhone(raw string) (string, error) {
	digits := NormalizePhone(raw)
	if len(digits) != 10 {
		return "", &ValidationError{Field: "phone", Message: "must be exactly 10 digits"}
	}
	return digits, nil
}

// ValidateEmail accepts empty input; a present value must be email-shaped.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

// Validate checks the customer details step: non-empty name, ten-digit
// phone, optional but well-formed email.
func (c CustomerDetails) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if _, err := ValidatePhone(c.Phone); err != nil {
		return err
	}
	return ValidateEmail(c.Email)
}
