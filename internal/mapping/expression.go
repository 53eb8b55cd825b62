package mapping

import (
	"fmt"
	"go/parser"
	"strings"
)

const (
	expressionPrefix = "go("
	expressionSuffix = ")"
)

// ParseExpression unwraps a literal override of the form "go(<expression>)"
// and checks that the inner text is a Go expression.
func ParseExpression(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, expressionPrefix) || !strings.HasSuffix(trimmed, expressionSuffix) {
		return "", fmt.Errorf("bad expression format %q, expected go(<expression>)", raw)
	}

	inner := strings.TrimSpace(trimmed[len(expressionPrefix) : len(trimmed)-len(expressionSuffix)])
	if inner == "" {
		return "", fmt.Errorf("bad expression format %q, empty expression", raw)
	}

	if _, err := parser.ParseExpr(inner); err != nil {
		return "", fmt.Errorf("bad expression %q: %w", inner, err)
	}

	return inner, nil
}
