package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Phone number digit bounds, overridable per field via min_digits and
// max_digits in validator_config.
const (
	DefaultPhoneMinDigits = 7
	DefaultPhoneMaxDigits = 15
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameBadChars    = regexp.MustCompile(`[0-9@#$%^&*(){}\[\]|\\<>]`)
	nonDigitPattern = regexp.MustCompile(`[^\d]`)
)

// Name validates person names: 2 to 100 characters, no digits or
// symbol characters.
func Name(value any, cfg Config) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return errors.New("Please provide your name.")
	}

	name := strings.TrimSpace(s)
	if len(name) < 2 {
		return errors.New("Name seems too short. Please provide your full name.")
	}
	if len(name) > 100 {
		return errors.New("Name seems too long. Please provide a shorter version.")
	}
	if nameBadChars.MatchString(name) {
		return errors.New("Name contains invalid characters. Please provide just your name.")
	}
	return nil
}

// Email validates email addresses against a pragmatic pattern.
func Email(value any, cfg Config) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return errors.New("Please provide a valid email address.")
	}

	addr := strings.ToLower(strings.TrimSpace(s))
	if !emailPattern.MatchString(addr) {
		return errors.New("That doesn't look like a valid email address. Please try again.")
	}
	return nil
}

// Phone validates phone numbers by digit count, ignoring formatting
// characters.
func Phone(value any, cfg Config) error {
	s := fmt.Sprint(value)
	if value == nil || s == "" {
		return errors.New("Please provide a valid phone number.")
	}

	digits := nonDigitPattern.ReplaceAllString(s, "")
	minDigits := cfgInt(cfg, "min_digits", DefaultPhoneMinDigits)
	maxDigits := cfgInt(cfg, "max_digits", DefaultPhoneMaxDigits)

	if len(digits) < minDigits {
		return fmt.Errorf("Phone number seems too short. Please provide at least %d digits.", minDigits)
	}
	if len(digits) > maxDigits {
		return errors.New("Phone number seems too long. Please check and try again.")
	}
	return nil
}

// Number validates numeric values with optional min/max bounds from
// validator_config.
func Number(value any, cfg Config) error {
	var num float64
	switch v := value.(type) {
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case float64:
		num = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return errors.New("That doesn't look like a number. Please try again.")
		}
		num = parsed
	default:
		return errors.New("Please provide a valid number.")
	}

	if min, ok := cfgFloat(cfg, "min"); ok && num < min {
		return fmt.Errorf("Value must be at least %v.", min)
	}
	if max, ok := cfgFloat(cfg, "max"); ok && num > max {
		return fmt.Errorf("Value must be at most %v.", max)
	}
	return nil
}

// Text validates free-text fields with optional length constraints
// from validator_config.
func Text(value any, cfg Config) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return errors.New("Please provide a text response.")
	}

	text := strings.TrimSpace(s)
	minLen := cfgInt(cfg, "min_length", 1)
	maxLen := cfgInt(cfg, "max_length", 5000)

	if len(text) < minLen {
		return fmt.Errorf("Response is too short. Please provide at least %d characters.", minLen)
	}
	if len(text) > maxLen {
		return fmt.Errorf("Response is too long. Please keep it under %d characters.", maxLen)
	}
	return nil
}
