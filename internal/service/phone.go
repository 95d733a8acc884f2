package service

import "strings"

// normalizePhone formats a raw phone number as (DDD) DDD-DDDD when it
// contains exactly 10 digits after stripping every non-digit character.
// Anything else is returned verbatim; an empty input stays empty. The raw
// value is always retained alongside the normalized one.
func normalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() != 10 {
		return raw
	}

	d := digits.String()
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
