package plan

import (
	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/match"
)

// construct correlates the parameters of target's designated constructor
// with the readable members of source. Both types are non-null here.
func (r *Resolver) construct(s *scope, source, target analyze.TypeRef) (*Plan, error) {
	c := s.contract

	if name, missing := analyze.FirstMissing(r.universe, target); missing {
		return nil, newDeferred(name)
	}

	if name, missing := analyze.FirstMissing(r.universe, source); missing {
		return nil, newDeferred(name)
	}

	tdecl, _ := r.universe.Lookup(target.Name)
	if tdecl == nil || tdecl.Kind != analyze.KindClass || !tdecl.HasConstructor {
		return nil, s.fail(diagnostic.CodeConfiguration, source, target,
			"%s has no designated constructor", target)
	}

	var sdecl *analyze.Decl
	if source.Kind != analyze.KindTypeVar && !analyze.IsBuiltin(source.Name) {
		sdecl, _ = r.universe.Lookup(source.Name)
	}

	params := make([]string, 0, len(tdecl.Constructor))
	for _, p := range tdecl.Constructor {
		params = append(params, p.Name)
	}

	for _, o := range c.Overrides {
		if _, ok := tdecl.ConstructorParam(o.Target); !ok {
			s.param = o.Target
			err := s.fail(diagnostic.CodeConfiguration, source, target,
				"override names unknown constructor parameter %s", o.Target)
			err.Suggestions = match.Suggest(o.Target, params)

			return nil, err
		}
	}

	out := &Plan{Kind: KindConstruct, Source: source, Target: target}

	for _, p := range tdecl.Constructor {
		s.param = p.Name

		corr, skip, err := r.correlate(s, sdecl, source, target, p)
		if err != nil {
			return nil, err
		}

		if !skip {
			out.Params = append(out.Params, corr)
		}
	}

	s.param = ""

	return out, nil
}

func (r *Resolver) correlate(
	s *scope,
	sdecl *analyze.Decl,
	source, target analyze.TypeRef,
	p analyze.Param,
) (PropertyCorrelation, bool, error) {
	corr := PropertyCorrelation{Param: p.Name, ParamType: p.Type}
	o, overridden := s.contract.Override(p.Name)

	if overridden {
		switch o.Kind {
		case mapping.OverrideIgnore:
			if !p.HasDefault {
				return corr, false, s.fail(diagnostic.CodeConfiguration, source, target,
					"parameter %s is ignored but has no default", p.Name)
			}

			return corr, true, nil

		case mapping.OverrideExpression:
			corr.Value = ValueLiteral
			corr.Literal = o.Expression

			return corr, false, nil
		}
	}

	name := p.Name
	if overridden && o.Kind == mapping.OverrideSource {
		name = o.Source
	}

	var (
		found  bool
		member analyze.Member
	)

	if sdecl != nil {
		member, found = sdecl.Member(name)
	}

	switch {
	case found:
		corr.Value = ValueMember
		corr.Member = member.Name
		corr.SourceType = member.Type

	case name == s.contract.SourceName:
		corr.Value = ValueWhole
		corr.SourceType = source

	default:
		var members []string
		if sdecl != nil {
			members = sdecl.MemberNames()
		}

		err := s.fail(diagnostic.CodeMissingCounterpart, source, target,
			"no source member %s for parameter %s", name, p.Name)
		err.Suggestions = match.Suggest(name, members)

		return corr, false, err
	}

	for _, t := range []analyze.TypeRef{corr.SourceType, p.Type} {
		if missing, ok := analyze.FirstMissing(r.universe, t); ok {
			return corr, false, newDeferred(missing)
		}
	}

	if corr.SourceType.Equal(p.Type) {
		corr.Plan = &Plan{Kind: KindIdentity, Source: p.Type, Target: p.Type}
		return corr, false, nil
	}

	pl, err := r.resolve(s, corr.SourceType, p.Type)
	if err != nil {
		return corr, false, err
	}

	corr.Plan = pl
	corr.NullGuard = corr.SourceType.Nullable && !pl.AcceptsNull()
	corr.Hooks = s.hooks(hookProperty)

	return corr, false, nil
}
