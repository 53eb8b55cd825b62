package mapping

import (
	"fmt"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
)

// Extraction is the typed form of a mapper file.
type Extraction struct {
	// Package is the Go package name of the generated code.
	Package string
	// Types holds every declaration: loaded, declared inline, and one
	// interface declaration per mapper.
	Types      *analyze.TypeTable
	Collectors []*Collector
	Mappers    []*Mapper
}

// Contracts returns all contracts in declaration order.
func (e *Extraction) Contracts() []*Contract {
	var out []*Contract

	for _, m := range e.Mappers {
		out = append(out, m.Contracts...)
	}

	return out
}

// Mapper returns the mapper with the given name.
func (e *Extraction) Mapper(name string) (*Mapper, bool) {
	for _, m := range e.Mappers {
		if m.Name == name {
			return m, true
		}
	}

	return nil, false
}

// Collector returns the collector declared for a type, ignoring nullability.
func (e *Extraction) Collector(t analyze.TypeRef) (*Collector, bool) {
	for _, c := range e.Collectors {
		if c.Type.Equal(t.NonNull()) {
			return c, true
		}
	}

	return nil, false
}

// Extract validates mf and converts it into typed contracts. base holds
// declarations loaded from Go packages and may be nil.
//
// File-level problems return an error. Problems local to one contract are
// recorded on that contract's Err so the others can still be resolved.
func Extract(mf *MapperFile, base *analyze.TypeTable) (*Extraction, error) {
	if diags := Validate(mf); diags.HasErrors() {
		return nil, fmt.Errorf("invalid mapper file: %w", diags.Error())
	}

	table := analyze.NewTypeTable()
	if base != nil {
		if err := table.Merge(base); err != nil {
			return nil, err
		}
	}

	declared := make([]*analyze.Decl, 0, len(mf.Types))

	for i := range mf.Types {
		decl, err := typeDecl(&mf.Types[i])
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", mf.Types[i].Name, err)
		}

		if err := table.Add(decl); err != nil {
			return nil, err
		}

		declared = append(declared, decl)
	}

	for _, decl := range declared {
		qualifyDecl(decl, table)
	}

	ex := &Extraction{Package: mf.Package, Types: table}

	for i := range mf.Collectors {
		c, err := collector(&mf.Collectors[i], table)
		if err != nil {
			return nil, fmt.Errorf("context collector %s: %w", mf.Collectors[i].Type, err)
		}

		ex.Collectors = append(ex.Collectors, c)
	}

	for i := range mf.Mappers {
		m, err := ex.mapper(&mf.Mappers[i])
		if err != nil {
			return nil, fmt.Errorf("mapper %s: %w", mf.Mappers[i].Name, err)
		}

		ex.Mappers = append(ex.Mappers, m)
	}

	for _, m := range ex.Mappers {
		if err := table.Add(mapperDecl(m)); err != nil {
			return nil, fmt.Errorf("mapper %s: %w", m.Name, err)
		}
	}

	// Helpers may name other mappers, so they are qualified last.
	for _, m := range ex.Mappers {
		for i, h := range m.Helpers {
			m.Helpers[i] = QualifyName(h, table)
		}

		for _, c := range m.Contracts {
			c.Helpers = m.Helpers
		}
	}

	markContextParams(table, ex.Collectors)

	return ex, nil
}

func typeDecl(td *TypeDecl) (*analyze.Decl, error) {
	kind, ok := analyze.ParseKind(td.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", td.Kind)
	}

	decl := &analyze.Decl{Name: td.Name, Kind: kind, GeneratedBy: td.GeneratedBy}

	for _, fd := range td.Members {
		ref, err := analyze.ParseTypeRef(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", fd.Name, err)
		}

		decl.Members = append(decl.Members, analyze.Member{Name: fd.Name, Type: ref})
	}

	if kind == analyze.KindClass {
		decl.HasConstructor = true

		for _, fd := range td.Constructor {
			p, err := param(fd, nil)
			if err != nil {
				return nil, fmt.Errorf("constructor parameter %s: %w", fd.Name, err)
			}

			decl.Constructor = append(decl.Constructor, p)
		}
	}

	for _, cd := range td.Constants {
		decl.Constants = append(decl.Constants, analyze.Constant{Name: cd.Name, Ident: cd.Ident})
	}

	for i := range td.Functions {
		fn, err := function(&td.Functions[i], nil)
		if err != nil {
			return nil, err
		}

		decl.Functions = append(decl.Functions, fn)
	}

	return decl, nil
}

func param(fd FieldDecl, typeVars []string) (analyze.Param, error) {
	ref, err := analyze.ParseTypeRef(fd.Type, typeVars...)
	if err != nil {
		return analyze.Param{}, err
	}

	return analyze.Param{
		Name:       fd.Name,
		Type:       ref,
		HasDefault: fd.Default,
		PassOn:     fd.PassOn,
		MatchName:  fd.MatchName,
		Context:    fd.Context,
	}, nil
}

func function(fd *FunctionDecl, typeVars []string) (analyze.Function, error) {
	fn := analyze.Function{Name: fd.Name}

	for _, pd := range fd.Params {
		p, err := param(pd, typeVars)
		if err != nil {
			return fn, fmt.Errorf("function %s parameter %s: %w", fd.Name, pd.Name, err)
		}

		fn.Params = append(fn.Params, p)
	}

	ret, err := analyze.ParseTypeRef(fd.Returns, typeVars...)
	if err != nil {
		return fn, fmt.Errorf("function %s return: %w", fd.Name, err)
	}

	fn.Returns = ret

	return fn, nil
}

func collector(cd *CollectorDecl, table *analyze.TypeTable) (*Collector, error) {
	ref, err := analyze.ParseTypeRef(cd.Type)
	if err != nil {
		return nil, err
	}

	return &Collector{
		Type:             QualifyRef(ref, table).NonNull(),
		BeforeProperty:   cd.BeforeProperty,
		AfterProperty:    cd.AfterProperty,
		BeforeListItem:   cd.BeforeListItem,
		AfterListItem:    cd.AfterListItem,
		BeforeMapEntry:   cd.BeforeMapEntry,
		AfterMapEntry:    cd.AfterMapEntry,
		OnlyWhenRequired: cd.OnlyWhenRequired,
		Imports:          cd.Imports,
	}, nil
}

func (e *Extraction) mapper(md *MapperDecl) (*Mapper, error) {
	m := &Mapper{
		Name:       md.Name,
		TypeParams: md.TypeParams,
		Helpers:    append([]string{}, md.Uses...),
	}

	for _, d := range md.DefaultPassOn {
		ref, err := analyze.ParseTypeRef(d.Type, m.TypeParams...)
		if err != nil {
			return nil, fmt.Errorf("default pass-on %s: %w", d.Name, err)
		}

		m.Defaults = append(m.Defaults, DefaultPassOn{
			PassOnParam: PassOnParam{Name: d.Name, Type: QualifyRef(ref, e.Types), MatchName: d.MatchName},
			Value:       d.Value,
		})
	}

	for i := range md.Functions {
		fn, err := function(&md.Functions[i], m.TypeParams)
		if err != nil {
			return nil, err
		}

		m.Functions = append(m.Functions, qualifyFunction(fn, e.Types))
	}

	for i := range md.Contracts {
		m.Contracts = append(m.Contracts, e.contract(m, &md.Contracts[i]))
	}

	return m, nil
}

func (e *Extraction) contract(m *Mapper, cd *ContractDecl) *Contract {
	c := &Contract{
		Mapper:          m.Name,
		Name:            cd.Name,
		SourceName:      cd.Param.Name,
		Defaults:        m.Defaults,
		RequiresContext: cd.RequiresContext,
		TypeParams:      m.TypeParams,
	}

	parse := func(s string) (analyze.TypeRef, error) {
		ref, err := analyze.ParseTypeRef(s, m.TypeParams...)
		if err != nil {
			return analyze.TypeRef{Name: s}, err
		}

		return QualifyRef(ref, e.Types), nil
	}

	fail := func(code diagnostic.Code, param, format string, args ...any) *Contract {
		c.Err = &diagnostic.ContractError{
			Code:     code,
			Contract: c.ID(),
			Param:    param,
			Source:   c.Source.String(),
			Target:   c.Target.String(),
			Message:  fmt.Sprintf(format, args...),
		}

		return c
	}

	var srcErr, dstErr error

	c.Source, srcErr = parse(cd.Param.Type)
	c.Target, dstErr = parse(cd.Returns)

	switch {
	case srcErr != nil:
		return fail(diagnostic.CodeConfiguration, "", "invalid source type: %v", srcErr)
	case dstErr != nil:
		return fail(diagnostic.CodeConfiguration, "", "invalid return type: %v", dstErr)
	case !isValidIdent(c.SourceName):
		return fail(diagnostic.CodeConfiguration, "", "invalid source parameter name %q", c.SourceName)
	}

	if cd.Context != nil {
		ref, err := parse(cd.Context.Type)
		if err != nil {
			return fail(diagnostic.CodeConfiguration, "", "invalid context parameter %q: %v", cd.Context.Name, err)
		}

		if !isValidIdent(cd.Context.Name) {
			return fail(diagnostic.CodeConfiguration, "", "invalid context parameter name %q", cd.Context.Name)
		}

		c.Context = &ContextParam{Name: cd.Context.Name, Type: ref}
		if col, ok := e.Collector(ref); ok {
			c.Context.Collector = col
		}
	}

	for _, fd := range cd.PassOn {
		ref, err := parse(fd.Type)
		if err != nil {
			return fail(diagnostic.CodeConfiguration, "", "invalid pass-on parameter %q: %v", fd.Name, err)
		}

		if !isValidIdent(fd.Name) {
			return fail(diagnostic.CodeConfiguration, "", "invalid pass-on parameter name %q", fd.Name)
		}

		c.PassOn = append(c.PassOn, PassOnParam{Name: fd.Name, Type: ref, MatchName: fd.MatchName})
	}

	overrides, cerr := extractOverrides(cd.Mappings)
	if cerr != nil {
		return fail(cerr.Code, cerr.Param, "%s", cerr.Message)
	}

	c.Overrides = overrides

	return c
}

func extractOverrides(decls []OverrideDecl) ([]Override, *diagnostic.ContractError) {
	overrides := make([]Override, 0, len(decls))
	seen := map[string]struct{}{}

	for _, od := range decls {
		if od.Target == "" {
			return nil, &diagnostic.ContractError{
				Code:    diagnostic.CodeConfiguration,
				Message: "override without a target",
			}
		}

		if _, dup := seen[od.Target]; dup {
			return nil, &diagnostic.ContractError{
				Code:    diagnostic.CodeConfiguration,
				Param:   od.Target,
				Message: fmt.Sprintf("duplicate override for %s", od.Target),
			}
		}

		seen[od.Target] = struct{}{}

		set := 0
		for _, b := range []bool{od.Source != "", od.Ignore, od.Expression != ""} {
			if b {
				set++
			}
		}

		if set != 1 {
			return nil, &diagnostic.ContractError{
				Code:    diagnostic.CodeConfiguration,
				Param:   od.Target,
				Message: fmt.Sprintf("override for %s must set exactly one of source, ignore, expression", od.Target),
			}
		}

		switch {
		case od.Ignore:
			overrides = append(overrides, Override{Target: od.Target, Kind: OverrideIgnore})

		case od.Expression != "":
			expr, err := ParseExpression(od.Expression)
			if err != nil {
				return nil, &diagnostic.ContractError{
					Code:    diagnostic.CodeMalformedOverride,
					Param:   od.Target,
					Message: err.Error(),
				}
			}

			overrides = append(overrides, Override{Target: od.Target, Kind: OverrideExpression, Expression: expr})

		default:
			overrides = append(overrides, Override{Target: od.Target, Kind: OverrideSource, Source: od.Source})
		}
	}

	return overrides, nil
}

// mapperDecl exposes a mapper as an interface declaration: its contracts
// (valid ones only) followed by its hand-written functions.
func mapperDecl(m *Mapper) *analyze.Decl {
	decl := &analyze.Decl{Name: m.Name, Kind: analyze.KindInterface}

	for _, c := range m.Contracts {
		if c.Err == nil {
			decl.Functions = append(decl.Functions, c.Function())
		}
	}

	decl.Functions = append(decl.Functions, m.Functions...)

	return decl
}

func qualifyDecl(d *analyze.Decl, table *analyze.TypeTable) {
	for i := range d.Members {
		d.Members[i].Type = QualifyRef(d.Members[i].Type, table)
	}

	for i := range d.Constructor {
		d.Constructor[i].Type = QualifyRef(d.Constructor[i].Type, table)
	}

	for i := range d.Functions {
		d.Functions[i] = qualifyFunction(d.Functions[i], table)
	}
}

func qualifyFunction(fn analyze.Function, table *analyze.TypeTable) analyze.Function {
	params := make([]analyze.Param, len(fn.Params))
	for i, p := range fn.Params {
		p.Type = QualifyRef(p.Type, table)
		params[i] = p
	}

	fn.Params = params
	fn.Returns = QualifyRef(fn.Returns, table)

	return fn
}

// markContextParams flags function parameters whose type is a declared
// context collector, so they are threaded rather than converted.
func markContextParams(table *analyze.TypeTable, collectors []*Collector) {
	if len(collectors) == 0 {
		return
	}

	for _, name := range table.Names() {
		decl, _ := table.Lookup(name)

		for i := range decl.Functions {
			for j := range decl.Functions[i].Params {
				p := &decl.Functions[i].Params[j]
				if p.IsExtra() {
					continue
				}

				for _, c := range collectors {
					if c.Type.Equal(p.Type.NonNull()) {
						p.Context = true
					}
				}
			}
		}
	}
}
