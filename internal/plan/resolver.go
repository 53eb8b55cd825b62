package plan

import (
	"errors"
	"fmt"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
	"contract-mapper/internal/mapping"
)

// DefaultMaxDepth bounds the nesting of a single resolution.
const DefaultMaxDepth = 64

// Config holds configuration for the resolution process.
type Config struct {
	// MaxDepth limits recursion depth; deeper nesting fails the contract.
	MaxDepth int
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth}
}

// Resolver synthesizes conversion plans against a universe of declarations.
// It keeps no state between calls, so resolving the same contract twice
// against the same universe yields equal plans.
type Resolver struct {
	universe analyze.Universe
	config   Config
}

// NewResolver creates a new Resolver.
func NewResolver(u analyze.Universe, config Config) *Resolver {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}

	return &Resolver{universe: u, config: config}
}

// scope is the state of one top-level resolution.
type scope struct {
	contract *mapping.Contract
	depth    int
	// param is the constructor parameter being populated, for error attribution.
	param string
	// exclude is a self function that must not be picked for the next pair:
	// the contract being implemented.
	exclude string
}

func newScope(c *mapping.Contract) *scope {
	return &scope{contract: c}
}

func (s *scope) fail(code diagnostic.Code, source, target analyze.TypeRef, format string, args ...any) *diagnostic.ContractError {
	return &diagnostic.ContractError{
		Code:     code,
		Contract: s.contract.ID(),
		Param:    s.param,
		Source:   source.String(),
		Target:   target.String(),
		Message:  fmt.Sprintf(format, args...),
	}
}

// ResolveContract computes the plan implementing c. A target with a
// designated constructor is built structurally; anything else goes through
// the conversion strategies. The error is a *diagnostic.ContractError or a
// *DeferredError.
func (r *Resolver) ResolveContract(c *mapping.Contract) (*Plan, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	s := newScope(c)

	p, err := r.contractPlan(s)

	return p, attribute(err, c)
}

// Resolve computes a plan converting source into target within the scope of
// contract c (its mapper, helpers, context and pass-on parameters).
func (r *Resolver) Resolve(c *mapping.Contract, source, target analyze.TypeRef) (*Plan, error) {
	p, err := r.resolve(newScope(c), source, target)
	return p, attribute(err, c)
}

// MapByConstruction builds c's target by correlating its constructor
// parameters with the members of c's source.
func (r *Resolver) MapByConstruction(c *mapping.Contract) (*Plan, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	p, err := r.construct(newScope(c), c.Source.NonNull(), c.Target.NonNull())

	return p, attribute(err, c)
}

func attribute(err error, c *mapping.Contract) error {
	if err == nil {
		return nil
	}

	if cerr, ok := AsContractError(err); ok {
		return cerr.WithContract(c.ID())
	}

	var deferred *DeferredError
	if errors.As(err, &deferred) {
		cp := *deferred
		cp.Contract = c.ID()

		return &cp
	}

	return err
}

func (r *Resolver) contractPlan(s *scope) (*Plan, error) {
	source, target := s.contract.Source, s.contract.Target

	if !r.constructible(target) || (source.Nullable && !target.Nullable) {
		s.exclude = s.contract.Name
		return r.resolve(s, source, target)
	}

	built, err := r.construct(s, source.NonNull(), target.NonNull())
	if err != nil {
		return nil, err
	}

	if source.Nullable {
		return &Plan{Kind: KindNullableLift, Source: source, Target: target, Inner: built}, nil
	}

	return built, nil
}

// constructible reports whether a contract target is built from constructor
// parameters. Unknown names count as constructible so that construction
// defers on them.
func (r *Resolver) constructible(t analyze.TypeRef) bool {
	if t.Kind == analyze.KindTypeVar || analyze.IsBuiltin(t.Name) {
		return false
	}

	decl, ok := r.universe.Lookup(t.Name)
	if !ok {
		return true
	}

	return decl.Kind == analyze.KindClass
}

// resolve tries each strategy in priority order; the first match wins.
// Recursion only descends into type arguments and the non-null form, so every
// nested pair is strictly smaller and a pair never repeats on one path. Nested
// classes are reached by delegation, never by inline construction.
func (r *Resolver) resolve(s *scope, source, target analyze.TypeRef) (*Plan, error) {
	exclude := s.exclude
	s.exclude = ""

	if s.depth >= r.config.MaxDepth {
		return nil, s.fail(diagnostic.CodeUnresolvedConversion, source, target,
			"conversion nested deeper than %d levels", r.config.MaxDepth)
	}

	s.depth++

	defer func() { s.depth-- }()

	// 1. Identity
	if source.Equal(target) {
		return &Plan{Kind: KindIdentity, Source: source, Target: target}, nil
	}

	// 2. Self-declared converter
	if p := r.selfCall(s, source, target, exclude); p != nil {
		return p, nil
	}

	// 3. Helper collaborator
	if p := r.helperCall(s, source, target); p != nil {
		return p, nil
	}

	if !source.Nullable && !target.Nullable {
		// 4. Structural collection
		if p, ok, err := r.collection(s, source, target); ok {
			return p, err
		}

		// 5. Structural map
		if p, ok, err := r.entries(s, source, target); ok {
			return p, err
		}

		// 6. Enum correlation
		if p, ok := r.enumByName(source, target); ok {
			return p, nil
		}
	}

	// 7. Nullability lifting
	if target.Nullable {
		if source.Nullable {
			inner, err := r.resolve(s, source.NonNull(), target.NonNull())
			if err != nil {
				return nil, err
			}

			return &Plan{Kind: KindNullableLift, Source: source, Target: target, Inner: inner}, nil
		}

		return r.resolve(s, source, target.NonNull())
	}

	// 8. Terminal
	if missing := r.pendingSymbols(s, source, target); len(missing) > 0 {
		return nil, newDeferred(missing...)
	}

	return nil, s.fail(diagnostic.CodeUnresolvedConversion, source, target,
		"no conversion from %s to %s", source, target)
}

func (r *Resolver) collection(s *scope, source, target analyze.TypeRef) (*Plan, bool, error) {
	sk, tk := analyze.ContainerOf(source), analyze.ContainerOf(target)
	if !sk.IsSequence() || !tk.IsCollectionTarget() || len(source.Args) != 1 || len(target.Args) != 1 {
		return nil, false, nil
	}

	elem, err := r.resolve(s, source.Args[0], target.Args[0])
	if err != nil {
		return nil, true, err
	}

	return &Plan{
		Kind:      KindMapContainer,
		Source:    source,
		Target:    target,
		Elem:      elem,
		Container: tk,
		ItemHooks: s.hooks(hookListItem),
	}, true, nil
}

func (r *Resolver) entries(s *scope, source, target analyze.TypeRef) (*Plan, bool, error) {
	sk, tk := analyze.ContainerOf(source), analyze.ContainerOf(target)
	if !sk.IsMap() || !tk.IsMap() || len(source.Args) != 2 || len(target.Args) != 2 {
		return nil, false, nil
	}

	key, err := r.resolve(s, source.Args[0], target.Args[0])
	if err != nil {
		return nil, true, err
	}

	value, err := r.resolve(s, source.Args[1], target.Args[1])
	if err != nil {
		return nil, true, err
	}

	return &Plan{
		Kind:      KindMapEntries,
		Source:    source,
		Target:    target,
		Key:       key,
		Value:     value,
		Container: tk,
		ItemHooks: s.hooks(hookMapEntry),
	}, true, nil
}

func (r *Resolver) enumByName(source, target analyze.TypeRef) (*Plan, bool) {
	sd := r.enumDecl(source)
	td := r.enumDecl(target)

	p := &Plan{Kind: KindEnumByName, Source: source, Target: target}

	switch {
	case sd != nil && td != nil:
		p.Enum = EnumToEnum

		for _, c := range sd.Constants {
			if tc, ok := td.Constant(c.Name); ok {
				p.Constants = append(p.Constants, ConstantPair{Name: c.Name, SourceIdent: c.Ident, TargetIdent: tc.Ident})
			}
		}

	case sd != nil && target.IsText():
		p.Enum = EnumToText

		for _, c := range sd.Constants {
			p.Constants = append(p.Constants, ConstantPair{Name: c.Name, SourceIdent: c.Ident})
		}

	case source.IsText() && td != nil:
		p.Enum = TextToEnum

		for _, c := range td.Constants {
			p.Constants = append(p.Constants, ConstantPair{Name: c.Name, TargetIdent: c.Ident})
		}

	default:
		return nil, false
	}

	return p, true
}

func (r *Resolver) enumDecl(t analyze.TypeRef) *analyze.Decl {
	if t.Kind == analyze.KindTypeVar || analyze.IsBuiltin(t.Name) {
		return nil
	}

	decl, ok := r.universe.Lookup(t.Name)
	if !ok || decl.Kind != analyze.KindEnum {
		return nil
	}

	return decl
}
