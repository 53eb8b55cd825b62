package common

import (
	"unicode"
	"unicode/utf8"
)

// UnknownStr is the fallback rendering of enum values outside their range.
const UnknownStr = "unknown"

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// SnakeCase converts an identifier such as "AddressMapper" or "HTTPClient"
// into "address_mapper" and "http_client".
func SnakeCase(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes)+4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])

			if prevLower || nextLower {
				out = append(out, '_')
			}

			out = append(out, unicode.ToLower(r))

			continue
		}

		out = append(out, r)
	}

	return string(out)
}
