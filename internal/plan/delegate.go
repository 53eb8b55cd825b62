package plan

import (
	"contract-mapper/internal/analyze"
)

// selfCall finds a unary function of the enclosing mapper whose declared
// types equal (source, target) exactly.
func (r *Resolver) selfCall(s *scope, source, target analyze.TypeRef, exclude string) *Plan {
	decl, ok := r.universe.Lookup(s.contract.Mapper)
	if !ok {
		return nil
	}

	for i := range decl.Functions {
		fn := &decl.Functions[i]
		if fn.Name == exclude {
			continue
		}

		subject, unary := fn.Subject()
		if !unary || !subject.Type.Equal(source) || !fn.Returns.Equal(target) {
			continue
		}

		if p := r.delegate(s, "", fn, subject); p != nil {
			return p
		}
	}

	return nil
}

// helperCall searches the helpers in declaration order. A non-null source
// first looks for a function matching the non-null forms of both types; then
// every helper is searched again for the exact declared types.
func (r *Resolver) helperCall(s *scope, source, target analyze.TypeRef) *Plan {
	if !source.Nullable {
		if p := r.findHelper(s, func(fn *analyze.Function, subject analyze.Param) bool {
			return subject.Type.NonNull().Equal(source) &&
				fn.Returns.NonNull().Equal(target.NonNull()) &&
				(!fn.Returns.Nullable || target.Nullable)
		}); p != nil {
			return p
		}
	}

	return r.findHelper(s, func(fn *analyze.Function, subject analyze.Param) bool {
		return subject.Type.Equal(source) && fn.Returns.Equal(target)
	})
}

func (r *Resolver) findHelper(s *scope, accept func(*analyze.Function, analyze.Param) bool) *Plan {
	for _, helper := range s.contract.Helpers {
		decl, ok := r.universe.Lookup(helper)
		if !ok {
			continue
		}

		for i := range decl.Functions {
			fn := &decl.Functions[i]

			subject, unary := fn.Subject()
			if !unary || !accept(fn, subject) {
				continue
			}

			if p := r.delegate(s, helper, fn, subject); p != nil {
				return p
			}
		}
	}

	return nil
}

// delegate builds a call to fn, or returns nil when fn's signature is not
// complete or its extra parameters cannot be supplied from scope.
func (r *Resolver) delegate(s *scope, helper string, fn *analyze.Function, subject analyze.Param) *Plan {
	if !analyze.SignatureIntrospectable(r.universe, fn) {
		return nil
	}

	args, ok := s.bind(fn)
	if !ok {
		return nil
	}

	return &Plan{
		Kind:   KindDelegate,
		Source: subject.Type,
		Target: fn.Returns,
		Call:   &Call{Helper: helper, Func: fn.Name, Args: args},
	}
}

// bind supplies every parameter of fn: the subject, the context collector and
// pass-on values. Extras match by declared type, and by name when either side
// asks for it. Position never matters.
func (s *scope) bind(fn *analyze.Function) ([]Arg, bool) {
	args := make([]Arg, 0, len(fn.Params))

	for _, p := range fn.Params {
		switch {
		case p.Context:
			ctx := s.contract.Context
			if ctx == nil || !assignable(ctx.Type, p.Type) || (p.MatchName && ctx.Name != p.Name) {
				return nil, false
			}

			args = append(args, Arg{Param: p.Name, Kind: ArgContext, Value: ctx.Name})

		case p.PassOn:
			arg, ok := s.passOn(p)
			if !ok {
				return nil, false
			}

			args = append(args, arg)

		default:
			args = append(args, Arg{Param: p.Name, Kind: ArgSubject})
		}
	}

	return args, true
}

func (s *scope) passOn(p analyze.Param) (Arg, bool) {
	for _, have := range s.contract.PassOn {
		if assignable(have.Type, p.Type) && namesAgree(have.Name, have.MatchName, p) {
			return Arg{Param: p.Name, Kind: ArgPassOn, Value: have.Name}, true
		}
	}

	for _, d := range s.contract.Defaults {
		if assignable(d.Type, p.Type) && namesAgree(d.Name, d.MatchName, p) {
			return Arg{Param: p.Name, Kind: ArgDefault, Value: d.Value}, true
		}
	}

	return Arg{}, false
}

func namesAgree(name string, matchName bool, p analyze.Param) bool {
	if matchName || p.MatchName {
		return name == p.Name
	}

	return true
}

// assignable reports whether a value of type have can be passed where want is
// declared. A non-null value fits a nullable parameter of the same type.
func assignable(have, want analyze.TypeRef) bool {
	if have.Equal(want) {
		return true
	}

	return want.Nullable && !have.Nullable && have.Equal(want.NonNull())
}

// pendingSymbols lists what keeps (source, target) from being decided: the
// pair itself, helpers and converter signatures that are not complete yet.
func (r *Resolver) pendingSymbols(s *scope, source, target analyze.TypeRef) []string {
	var missing []string

	for _, t := range []analyze.TypeRef{source, target} {
		if name, ok := analyze.FirstMissing(r.universe, t); ok {
			missing = append(missing, name)
		}
	}

	if decl, ok := r.universe.Lookup(s.contract.Mapper); ok {
		missing = append(missing, r.incompleteSignatures(decl)...)
	}

	for _, helper := range s.contract.Helpers {
		decl, ok := r.universe.Lookup(helper)
		if !ok {
			missing = append(missing, helper)
			continue
		}

		missing = append(missing, r.incompleteSignatures(decl)...)
	}

	return missing
}

func (r *Resolver) incompleteSignatures(decl *analyze.Decl) []string {
	var missing []string

	for i := range decl.Functions {
		fn := &decl.Functions[i]

		if name, ok := analyze.FirstMissing(r.universe, fn.Returns); ok {
			missing = append(missing, name)
		}

		for _, p := range fn.Params {
			if name, ok := analyze.FirstMissing(r.universe, p.Type); ok {
				missing = append(missing, name)
			}
		}
	}

	return missing
}
