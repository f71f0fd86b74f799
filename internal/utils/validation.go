package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultRegion is used to interpret phone numbers entered without a
// country prefix.
const DefaultRegion = "US"

// ValidateRequired checks that a field has a non-blank value
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ValidateEmail checks that a value looks like an email address
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ValidatePassword enforces the minimum password length accepted by the server
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// ValidatePhone checks that a value parses as a dialable phone number.
// Empty values are accepted; phone numbers are optional everywhere.
func ValidatePhone(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return fmt.Errorf("invalid phone number: %s", raw)
	}
	if !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("invalid phone number: %s", raw)
	}
	return nil
}

// NormalizePhone formats a phone number in E.164. Values that do not
// parse are returned unchanged so the server sees what the user typed.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	num, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
