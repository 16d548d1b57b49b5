package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("username", validateUsername); err != nil {
		panic(fmt.Sprintf("failed to register username validator: %v", err))
	}
}

// validateUsername accepts non-empty names made of letters, digits,
// dots, dashes and underscores.
func validateUsername(fl validator.FieldLevel) bool {
	return ValidateUsername(fl.Field().String()) == nil
}

// ValidateUsername validates a username value.
func ValidateUsername(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("username must not be empty")
	}
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			continue
		}
		return fmt.Errorf("username contains invalid character %q", r)
	}
	return nil
}

// SanitizeText trims whitespace and strips control characters except
// newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
