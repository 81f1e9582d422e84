package phone

import (
	"regexp"
	"strings"
	"unicode"
)

// Placeholder is stored for patients who never provided a number.
const Placeholder = "0000000000"

var indianMobile = regexp.MustCompile(`^(\+91\s)?[6-9]\d{4}\s?\d{5}$`)

// Normalize formats a 10-digit Indian mobile number, with or without the 91
// country code, as "+91 XXXXX XXXXX". Input that does not reduce to ten
// digits is returned unchanged so Valid can reject it.
func Normalize(input string) string {
	var b strings.Builder
	for _, r := range input {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "91") && len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) == 10 {
		return "+91 " + digits[:5] + " " + digits[5:]
	}
	return input
}

// Valid reports whether s is a well-formed Indian mobile number and not the
// placeholder.
func Valid(s string) bool {
	if s == "" || s == Placeholder {
		return false
	}
	return indianMobile.MatchString(s)
}
