package analyze

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

var basicNames = map[types.BasicKind]string{
	types.String:  TypeString,
	types.Int:     TypeInt,
	types.Int64:   TypeLong,
	types.Int32:   TypeChar,
	types.Int16:   TypeShort,
	types.Uint8:   TypeByte,
	types.Float32: TypeFloat,
	types.Float64: TypeDouble,
	types.Bool:    TypeBoolean,
}

// Analyzer loads Go packages and converts their exported declarations into a TypeTable.
//
// Structs become classes whose constructor lists the exported fields, all
// optional. Named basic types with constants become enums. Interfaces become
// declarations whose single-result methods are conversion functions.
//
// Named types referenced from outside the loaded packages (time.Time) are
// added as opaque declarations so signatures using them stay introspectable.
type Analyzer struct {
	table      *TypeTable
	referenced map[string]*types.Named
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		table:      NewTypeTable(),
		referenced: make(map[string]*types.Named),
	}
}

// LoadPackages loads the given package patterns and returns the populated table.
// Patterns are standard Go package patterns (e.g., "./model", "example.com/dto/...").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeTable, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := a.AddPackage(pkg.Types); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	a.addOpaque()

	return a.table, nil
}

// Table returns the table built so far.
func (a *Analyzer) Table() *TypeTable {
	return a.table
}

// AddPackage converts the exported declarations of a type-checked package.
func (a *Analyzer) AddPackage(pkg *types.Package) error {
	scope := pkg.Scope()
	constants := collectConstants(scope)

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		decl := a.declOf(named, constants[typeName])
		if decl == nil {
			continue
		}

		if err := a.table.Add(decl); err != nil {
			return err
		}
	}

	return nil
}

func (a *Analyzer) declOf(named *types.Named, consts []*types.Const) *Decl {
	obj := named.Obj()
	decl := &Decl{Name: qualifiedName(obj)}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		decl.Kind = KindClass
		decl.HasConstructor = true

		for i := range ut.NumFields() {
			field := ut.Field(i)
			if !field.Exported() {
				continue
			}

			ref := a.refOf(field.Type())
			decl.Members = append(decl.Members, Member{Name: field.Name(), Type: ref})
			decl.Constructor = append(decl.Constructor, Param{Name: field.Name(), Type: ref, HasDefault: true})
		}

	case *types.Interface:
		decl.Kind = KindInterface

		for i := range ut.NumMethods() {
			if fn, ok := a.functionOf(ut.Method(i)); ok {
				decl.Functions = append(decl.Functions, fn)
			}
		}

	case *types.Basic:
		if len(consts) == 0 {
			decl.Kind = KindAlias
			break
		}

		decl.Kind = KindEnum
		for _, c := range consts {
			decl.Constants = append(decl.Constants, Constant{
				Name:  constantName(obj.Name(), c.Name()),
				Ident: c.Name(),
			})
		}

	default:
		return nil
	}

	return decl
}

func (a *Analyzer) functionOf(m *types.Func) (Function, bool) {
	sig, ok := m.Type().(*types.Signature)
	if !ok || sig.Results().Len() != 1 || sig.Variadic() || !m.Exported() {
		return Function{}, false
	}

	fn := Function{
		Name:     m.Name(),
		Returns:  a.refOf(sig.Results().At(0).Type()),
		Abstract: true,
	}

	for i := range sig.Params().Len() {
		p := sig.Params().At(i)

		name := p.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("p%d", i)
		}

		fn.Params = append(fn.Params, Param{Name: name, Type: a.refOf(p.Type())})
	}

	return fn, true
}

// refOf converts a go/types type into a TypeRef. Pointers become nullable,
// slices and arrays become lists, maps stay maps.
func (a *Analyzer) refOf(t types.Type) TypeRef {
	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Pointer:
		return a.refOf(tt.Elem()).AsNullable()

	case *types.Slice:
		return Ref(TypeList, a.refOf(tt.Elem()))

	case *types.Array:
		return Ref(TypeList, a.refOf(tt.Elem()))

	case *types.Map:
		return Ref(TypeMap, a.refOf(tt.Key()), a.refOf(tt.Elem()))

	case *types.Basic:
		if name, ok := basicNames[tt.Kind()]; ok {
			return Ref(name)
		}

		return Ref(tt.Name())

	case *types.TypeParam:
		return TypeRef{Name: tt.Obj().Name(), Kind: KindTypeVar}

	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return Ref(obj.Name())
		}

		ref := TypeRef{Name: qualifiedName(obj)}
		a.referenced[ref.Name] = tt

		switch tt.Underlying().(type) {
		case *types.Interface:
			ref.Kind = KindInterface
		case *types.Basic:
			ref.Kind = KindAlias
		}

		if args := tt.TypeArgs(); args != nil {
			for i := range args.Len() {
				ref.Args = append(ref.Args, a.refOf(args.At(i)))
			}
		}

		return ref

	case *types.Interface:
		if tt.Empty() {
			return Ref(TypeAny)
		}
	}

	return Ref(t.String())
}

// addOpaque registers referenced named types that no loaded package declared.
func (a *Analyzer) addOpaque() {
	names := make([]string, 0, len(a.referenced))
	for name := range a.referenced {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if _, ok := a.table.Lookup(name); ok {
			continue
		}

		decl := &Decl{Name: name, Kind: KindClass}

		switch a.referenced[name].Underlying().(type) {
		case *types.Interface:
			decl.Kind = KindInterface
		case *types.Basic:
			decl.Kind = KindAlias
		}

		_ = a.table.Add(decl)
	}
}

func qualifiedName(obj *types.TypeName) string {
	return obj.Pkg().Path() + "." + obj.Name()
}

// collectConstants groups exported constants by their named type, in source order.
func collectConstants(scope *types.Scope) map[*types.TypeName][]*types.Const {
	out := make(map[*types.TypeName][]*types.Const)

	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() {
			continue
		}

		named, ok := c.Type().(*types.Named)
		if !ok {
			continue
		}

		out[named.Obj()] = append(out[named.Obj()], c)
	}

	for _, consts := range out {
		sort.SliceStable(consts, func(i, j int) bool {
			return consts[i].Pos() < consts[j].Pos()
		})
	}

	return out
}

// constantName strips the enum type's name from a constant: ColorRed -> Red.
func constantName(typeName, constName string) string {
	trimmed := strings.TrimPrefix(constName, typeName)
	if trimmed == "" || trimmed == constName {
		return constName
	}

	return trimmed
}
