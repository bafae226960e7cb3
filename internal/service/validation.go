package service

import (
	"regexp"
	"strings"

	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

const phoneDigits = 10

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AccountValidator checks registration and profile fields.
type AccountValidator struct {
	phonePrefixes     []string
	minPasswordLength int
}

// NewAccountValidator builds a validator. Defaults apply to empty settings.
func NewAccountValidator(phonePrefixes []string, minPasswordLength int) *AccountValidator {
	if len(phonePrefixes) == 0 {
		phonePrefixes = []string{"078", "079", "072", "073"}
	}
	if minPasswordLength <= 0 {
		minPasswordLength = 5
	}
	return &AccountValidator{phonePrefixes: phonePrefixes, minPasswordLength: minPasswordLength}
}

// ValidatePhone accepts exactly ten digits starting with an allowed prefix.
func (v *AccountValidator) ValidatePhone(phone string) error {
	trimmed := strings.TrimSpace(phone)
	if len(trimmed) != phoneDigits || !isNumeric(trimmed) {
		return apperrors.NewInvalidInput("phone must be exactly 10 digits", map[string]any{"field": "phone"})
	}
	for _, prefix := range v.phonePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return nil
		}
	}
	return apperrors.NewInvalidInput("phone prefix is not allowed", map[string]any{
		"field":    "phone",
		"prefixes": v.phonePrefixes,
	})
}

// ValidatePassword enforces the minimum length.
func (v *AccountValidator) ValidatePassword(password string) error {
	if len(password) < v.minPasswordLength {
		return apperrors.NewInvalidInput("password is too short", map[string]any{
			"field":     "password",
			"minLength": v.minPasswordLength,
		})
	}
	return nil
}

// isNumeric reports whether s is non-empty and made only of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// requireFields reports the first blank entry of fields, in the given order.
func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return apperrors.NewInvalidInput(f[0]+" is required", map[string]any{"field": f[0]})
		}
	}
	return nil
}

func field(name, value string) [2]string {
	return [2]string{name, value}
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func stringPreview(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max]) + "..."
}
