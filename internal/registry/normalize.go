package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCode is returned when a color code is blank.
	ErrEmptyCode = errors.New("color code is required")
	// ErrInvalidCode is returned in strict mode for codes that are not #rgb or #rrggbb.
	ErrInvalidCode = errors.New("color code must be 3 or 6 hex digits")
)

// Normalize coerces code to its canonical #-prefixed form. Already prefixed
// codes are returned unchanged apart from surrounding whitespace.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.HasPrefix(code, "#") {
		return code
	}
	return "#" + code
}

// Validate reports whether code, once normalized, is a 3 or 6 digit hex code.
func Validate(code string) error {
	normalized := Normalize(code)
	if normalized == "" {
		return ErrEmptyCode
	}
	digits := strings.TrimPrefix(normalized, "#")
	if len(digits) != 3 && len(digits) != 6 {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return nil
}

// SameCode compares two codes after normalization, ignoring hex digit case.
func SameCode(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.EqualFold(na, nb)
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
