// Package analyze provides the type model the mapping engine reasons about
// and the oracles that populate it.
//
// Types are identified by TypeRef values: a qualified name, a nullability
// flag and ordered type arguments. Declarations (classes with designated
// constructors, enums, interfaces exposing conversion functions) live in a
// Universe. A symbol is introspectable when the universe holds a complete
// declaration for it and for every type argument.
//
// Two oracles fill a TypeTable:
//   - mapper files declare types inline (see package mapping)
//   - LoadPackages reads Go packages through golang.org/x/tools/go/packages
package analyze
