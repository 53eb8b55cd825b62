package analyze

import (
	"strings"

	"contract-mapper/internal/common"
)

// Built-in scalar names.
const (
	TypeString  = "String"
	TypeInt     = "Int"
	TypeLong    = "Long"
	TypeShort   = "Short"
	TypeByte    = "Byte"
	TypeChar    = "Char"
	TypeFloat   = "Float"
	TypeDouble  = "Double"
	TypeBoolean = "Boolean"
	TypeAny     = "Any"
)

// Built-in container names.
const (
	TypeList        = "List"
	TypeMutableList = "MutableList"
	TypeSet         = "Set"
	TypeMutableSet  = "MutableSet"
	TypeSortedSet   = "SortedSet"
	TypeCollection  = "Collection"
	TypeIterable    = "Iterable"
	TypeMap         = "Map"
	TypeMutableMap  = "MutableMap"
)

var scalarNames = map[string]bool{
	TypeString: true, TypeInt: true, TypeLong: true, TypeShort: true, TypeByte: true,
	TypeChar: true, TypeFloat: true, TypeDouble: true, TypeBoolean: true, TypeAny: true,
}

// goBasicNames are Go predeclared types without a portable counterpart.
var goBasicNames = map[string]bool{
	"uint": true, "uint16": true, "uint32": true, "uint64": true, "int8": true,
	"uintptr": true, "complex64": true, "complex128": true, "error": true,
}

// Kind is the declaration kind of a TypeRef.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindEnum
	KindAlias
	KindTypeVar
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAlias:
		return "alias"
	case KindTypeVar:
		return "typevar"
	default:
		return common.UnknownStr
	}
}

// ParseKind parses a kind name as written in mapper files. Empty means class.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "class":
		return KindClass, true
	case "interface":
		return KindInterface, true
	case "enum":
		return KindEnum, true
	case "alias":
		return KindAlias, true
	default:
		return KindClass, false
	}
}

// TypeRef is a reference to a type as it appears in a signature.
type TypeRef struct {
	// Name is the qualified name, e.g. "example.com/model.Person", or a built-in name.
	Name string
	// Nullable marks the reference as accepting null.
	Nullable bool
	// Args are the type arguments, in order.
	Args []TypeRef
	// Kind is informational and does not take part in equality.
	Kind Kind
}

// Ref builds a non-null TypeRef.
func Ref(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// String renders the reference in mapper-file syntax, e.g. "List<model.Person>?".
func (t TypeRef) String() string {
	var b strings.Builder

	t.write(&b)

	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	b.WriteString(t.Name)

	if len(t.Args) > 0 {
		b.WriteByte('<')

		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			a.write(b)
		}

		b.WriteByte('>')
	}

	if t.Nullable {
		b.WriteByte('?')
	}
}

// Equal reports whether both references denote the same type, nullability included.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Name != o.Name || t.Nullable != o.Nullable || len(t.Args) != len(o.Args) {
		return false
	}

	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}

	return true
}

// NonNull returns a copy with the nullable flag cleared. Arguments are untouched.
func (t TypeRef) NonNull() TypeRef {
	t.Nullable = false
	return t
}

// AsNullable returns a copy with the nullable flag set.
func (t TypeRef) AsNullable() TypeRef {
	t.Nullable = true
	return t
}

// PkgPath returns the package path part of the qualified name.
func (t TypeRef) PkgPath() string {
	pkgPath, _ := common.SplitQualified(t.Name)
	return pkgPath
}

// ShortName returns the unqualified name.
func (t TypeRef) ShortName() string {
	_, short := common.SplitQualified(t.Name)
	return short
}

// IsText reports whether the reference is the built-in String type.
func (t TypeRef) IsText() bool {
	return t.Name == TypeString
}

// IsBuiltin reports whether the name is a built-in scalar, container or Go basic type.
func IsBuiltin(name string) bool {
	return scalarNames[name] || goBasicNames[name] || containerNames[name] != ContainerNone
}

// IsScalar reports whether the name is a built-in scalar or Go basic type.
func IsScalar(name string) bool {
	return scalarNames[name] || goBasicNames[name]
}

// ContainerKind classifies built-in container types.
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerList
	ContainerMutableList
	ContainerSet
	ContainerMutableSet
	ContainerSortedSet
	ContainerCollection
	ContainerIterable
	ContainerMap
	ContainerMutableMap
)

var containerNames = map[string]ContainerKind{
	TypeList:        ContainerList,
	TypeMutableList: ContainerMutableList,
	TypeSet:         ContainerSet,
	TypeMutableSet:  ContainerMutableSet,
	TypeSortedSet:   ContainerSortedSet,
	TypeCollection:  ContainerCollection,
	TypeIterable:    ContainerIterable,
	TypeMap:         ContainerMap,
	TypeMutableMap:  ContainerMutableMap,
}

// String returns the container's type name.
func (c ContainerKind) String() string {
	for name, kind := range containerNames {
		if kind == c {
			return name
		}
	}

	return common.UnknownStr
}

// ContainerOf returns the container kind of a reference, or ContainerNone.
func ContainerOf(t TypeRef) ContainerKind {
	return containerNames[t.Name]
}

// IsSequence reports whether values of this kind can be iterated element by element.
func (c ContainerKind) IsSequence() bool {
	return c >= ContainerList && c <= ContainerIterable
}

// IsCollectionTarget reports whether a sequence can be collected into this kind.
func (c ContainerKind) IsCollectionTarget() bool {
	return c >= ContainerList && c <= ContainerSortedSet
}

// IsMap reports whether the kind is a key/value container.
func (c ContainerKind) IsMap() bool {
	return c == ContainerMap || c == ContainerMutableMap
}

// IsSet reports whether the kind deduplicates its elements.
func (c ContainerKind) IsSet() bool {
	return c == ContainerSet || c == ContainerMutableSet || c == ContainerSortedSet
}
