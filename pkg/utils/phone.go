package utils

import (
	"fmt"
	"strings"
)

// NormalizePhone keeps digits only and folds local formats to the 11-digit
// "7XXXXXXXXXX" form: 10 digits get a leading 7, a leading 8 becomes 7.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "7" + digits
	case len(digits) == 11 && digits[0] == '8':
		return "7" + digits[1:]
	default:
		return digits
	}
}

// FormatPhone renders a phone as +7 (XXX) XXX-XX-XX, or returns raw unchanged
// when it does not normalize to 11 digits.
func FormatPhone(raw string) string {
	norm := NormalizePhone(raw)
	if len(norm) != 11 {
		return raw
	}
	d := norm[1:]
	return fmt.Sprintf("+7 (%s) %s-%s-%s", d[0:3], d[3:6], d[6:8], d[8:10])
}
