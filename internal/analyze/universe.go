package analyze

import (
	"errors"
	"fmt"
	"sort"
)

// Universe answers declaration lookups. Lookup succeeds only for complete declarations.
type Universe interface {
	Lookup(name string) (*Decl, bool)
}

// Introspectable reports whether the reference and all of its type arguments
// can be inspected in u.
func Introspectable(u Universe, ref TypeRef) bool {
	_, missing := FirstMissing(u, ref)
	return !missing
}

// FirstMissing returns the first symbol of ref (depth-first) that u cannot introspect.
func FirstMissing(u Universe, ref TypeRef) (string, bool) {
	if ref.Kind != KindTypeVar && !IsBuiltin(ref.Name) {
		if _, ok := u.Lookup(ref.Name); !ok {
			return ref.Name, true
		}
	}

	for _, a := range ref.Args {
		if name, missing := FirstMissing(u, a); missing {
			return name, true
		}
	}

	return "", false
}

// SignatureIntrospectable reports whether every parameter and the return type
// of f can be inspected in u.
func SignatureIntrospectable(u Universe, f *Function) bool {
	if !Introspectable(u, f.Returns) {
		return false
	}

	for _, p := range f.Params {
		if !Introspectable(u, p.Type) {
			return false
		}
	}

	return true
}

// TypeTable is an in-memory Universe.
type TypeTable struct {
	decls map[string]*Decl
}

// NewTypeTable creates a new empty TypeTable.
func NewTypeTable() *TypeTable {
	return &TypeTable{decls: make(map[string]*Decl)}
}

// Add registers a declaration. Names must be unique.
func (t *TypeTable) Add(d *Decl) error {
	if d == nil || d.Name == "" {
		return errors.New("declaration without a name")
	}

	if _, exists := t.decls[d.Name]; exists {
		return fmt.Errorf("duplicate declaration %s", d.Name)
	}

	t.decls[d.Name] = d

	return nil
}

// Merge adds all declarations of other.
func (t *TypeTable) Merge(other *TypeTable) error {
	for _, name := range other.Names() {
		if err := t.Add(other.decls[name]); err != nil {
			return err
		}
	}

	return nil
}

// Lookup returns the declaration with the given name.
func (t *TypeTable) Lookup(name string) (*Decl, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// Names returns all declared names, sorted.
func (t *TypeTable) Names() []string {
	names := make([]string, 0, len(t.decls))
	for name := range t.decls {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of declarations.
func (t *TypeTable) Len() int {
	return len(t.decls)
}

// Filter returns a view of u that hides declarations rejected by visible.
func Filter(u Universe, visible func(*Decl) bool) Universe {
	return filtered{base: u, visible: visible}
}

type filtered struct {
	base    Universe
	visible func(*Decl) bool
}

func (f filtered) Lookup(name string) (*Decl, bool) {
	d, ok := f.base.Lookup(name)
	if !ok || !f.visible(d) {
		return nil, false
	}

	return d, true
}
