package gen

import (
	"fmt"
	"strings"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/common"
)

// builtinGoTypes maps built-in scalar names to Go types.
var builtinGoTypes = map[string]string{
	analyze.TypeString:  "string",
	analyze.TypeInt:     "int",
	analyze.TypeLong:    "int64",
	analyze.TypeShort:   "int16",
	analyze.TypeByte:    "uint8",
	analyze.TypeChar:    "rune",
	analyze.TypeFloat:   "float32",
	analyze.TypeDouble:  "float64",
	analyze.TypeBoolean: "bool",
	analyze.TypeAny:     "any",
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// imports assigns unique aliases to the packages a file references.
type imports struct {
	byPath  map[string]string
	byAlias map[string]string
}

func newImports() *imports {
	return &imports{byPath: map[string]string{}, byAlias: map[string]string{}}
}

// add registers pkgPath and returns its alias.
func (im *imports) add(pkgPath string) string {
	if alias, ok := im.byPath[pkgPath]; ok {
		return alias
	}

	base := strings.NewReplacer("-", "_", ".", "_").Replace(common.PkgAlias(pkgPath))
	alias := base

	for i := 2; im.byAlias[alias] != ""; i++ {
		alias = fmt.Sprintf("%s%d", base, i)
	}

	im.byPath[pkgPath] = alias
	im.byAlias[alias] = pkgPath

	return alias
}

// specs returns the imports sorted by path. The alias is omitted when it
// equals the last path element.
func (im *imports) specs() []importSpec {
	out := make([]importSpec, 0, len(im.byPath))

	for _, path := range common.SortedKeys(im.byPath) {
		spec := importSpec{Path: path}
		if alias := im.byPath[path]; alias != common.PkgAlias(path) {
			spec.Alias = alias
		}

		out = append(out, spec)
	}

	return out
}

// typeFormatter renders TypeRefs as Go types for one output file.
type typeFormatter struct {
	universe analyze.Universe
	// localPkg is the import path of the output package; its types stay unqualified.
	localPkg string
	imports  *imports
}

// goType renders t. Nullable references become pointers unless the Go type
// already has a nil value.
func (f *typeFormatter) goType(t analyze.TypeRef) string {
	base := f.baseType(t)
	if t.Nullable && f.pointerNullable(t) {
		return "*" + base
	}

	return base
}

func (f *typeFormatter) baseType(t analyze.TypeRef) string {
	kind := analyze.ContainerOf(t)

	switch {
	case kind.IsMap():
		if len(t.Args) != 2 {
			return "map[any]any"
		}

		return "map[" + f.goType(t.Args[0]) + "]" + f.goType(t.Args[1])

	case kind == analyze.ContainerSet || kind == analyze.ContainerMutableSet:
		if len(t.Args) != 1 {
			return "map[any]struct{}"
		}

		return "map[" + f.goType(t.Args[0]) + "]struct{}"

	case kind != analyze.ContainerNone:
		if len(t.Args) != 1 {
			return "[]any"
		}

		return "[]" + f.goType(t.Args[0])
	}

	if t.Kind == analyze.KindTypeVar {
		return t.Name
	}

	if goName, ok := builtinGoTypes[t.Name]; ok {
		return goName
	}

	if analyze.IsScalar(t.Name) {
		return t.Name
	}

	name := f.qualify(t.Name)

	if len(t.Args) > 0 {
		args := make([]string, 0, len(t.Args))
		for _, a := range t.Args {
			args = append(args, f.goType(a))
		}

		name += "[" + strings.Join(args, ", ") + "]"
	}

	return name
}

// qualify returns the Go expression naming a declaration, importing its package.
func (f *typeFormatter) qualify(name string) string {
	pkgPath, short := common.SplitQualified(name)
	if pkgPath == "" || pkgPath == f.localPkg {
		return short
	}

	return f.imports.add(pkgPath) + "." + short
}

// pointerNullable reports whether null is represented by a pointer.
// Containers, interfaces and any are nil-able as they are.
func (f *typeFormatter) pointerNullable(t analyze.TypeRef) bool {
	if analyze.ContainerOf(t) != analyze.ContainerNone || t.Name == analyze.TypeAny {
		return false
	}

	if t.Kind == analyze.KindTypeVar {
		return true
	}

	if decl, ok := f.universe.Lookup(t.Name); ok && decl.Kind == analyze.KindInterface {
		return false
	}

	return true
}

// constant returns the Go expression for an enum constant of type t.
func (f *typeFormatter) constant(t analyze.TypeRef, ident string) string {
	pkgPath, _ := common.SplitQualified(t.Name)
	if pkgPath == "" || pkgPath == f.localPkg {
		return ident
	}

	return f.imports.add(pkgPath) + "." + ident
}
