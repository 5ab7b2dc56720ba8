package utils

import (
	"fmt"
	"net/url"
	"regexp"

	"golang.org/x/text/language"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// ValidateBaseURL checks that raw is an absolute http or https URL
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https: %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL has no host: %q", raw)
	}
	return nil
}

// ValidateLocale checks that tag is a well-formed BCP 47 language tag
func ValidateLocale(tag string) error {
	if _, err := language.Parse(tag); err != nil {
		return fmt.Errorf("invalid locale %q: %w", tag, err)
	}
	return nil
}

// SanitizeString removes control characters from free text such as decision reasons
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
