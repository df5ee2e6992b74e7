package util

import (
	"regexp"
)

var (
	pinRegex  = regexp.MustCompile(`^[0-9]{4}$`)
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// IsValidPin reports whether s is a 4-digit PIN. Shape is checked before any
// hashing so malformed input never reaches key derivation.
func IsValidPin(s string) bool {
	return pinRegex.MatchString(s)
}

func IsValidUUID(s string) bool {
	if s == "" {
		return false
	}
	return uuidRegex.MatchString(s)
}

func IsValidEnum(value string, validValues []string) bool {
	if value == "" {
		return true
	}
	for _, v := range validValues {
		if value == v {
			return true
		}
	}
	return false
}
