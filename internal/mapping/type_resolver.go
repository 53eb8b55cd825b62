package mapping

import (
	"strings"

	"contract-mapper/internal/analyze"
)

// QualifyName resolves a type name as written in a mapper file:
//   - "contract-mapper/store.Order" (full)
//   - "store.Order" (short, matched against the package path suffix)
//   - "Order" (name only)
//
// Short and name-only forms resolve only when exactly one declaration
// matches; otherwise the name is returned unchanged.
func QualifyName(name string, table *analyze.TypeTable) string {
	if name == "" || analyze.IsBuiltin(name) {
		return name
	}

	if _, ok := table.Lookup(name); ok {
		return name
	}

	var found []string

	for _, candidate := range table.Names() {
		if matchesShortName(candidate, name) {
			found = append(found, candidate)
		}
	}

	if len(found) == 1 {
		return found[0]
	}

	return name
}

func matchesShortName(qualified, name string) bool {
	if !strings.Contains(name, ".") {
		lastDot := strings.LastIndex(qualified, ".")
		return lastDot >= 0 && qualified[lastDot+1:] == name
	}

	return strings.HasSuffix(qualified, "/"+name)
}

// QualifyRef qualifies the reference and its type arguments. Type variables
// are left untouched.
func QualifyRef(ref analyze.TypeRef, table *analyze.TypeTable) analyze.TypeRef {
	if ref.Kind != analyze.KindTypeVar {
		ref.Name = QualifyName(ref.Name, table)
	}

	if len(ref.Args) > 0 {
		args := make([]analyze.TypeRef, len(ref.Args))
		for i, a := range ref.Args {
			args[i] = QualifyRef(a, table)
		}

		ref.Args = args
	}

	return ref
}
