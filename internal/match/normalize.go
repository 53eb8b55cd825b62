package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for comparison: lower case, no
// separators. "first_name", "FirstName" and "first-name" all become "firstname".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
