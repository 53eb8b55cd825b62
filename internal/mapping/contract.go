package mapping

import (
	"fmt"
	"strings"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/common"
	"contract-mapper/internal/diagnostic"
)

// OverrideKind says how an overridden constructor parameter is populated.
type OverrideKind int

const (
	// OverrideSource reads the value from a differently named source member.
	OverrideSource OverrideKind = iota
	// OverrideIgnore leaves the parameter to its default.
	OverrideIgnore
	// OverrideExpression uses a literal Go expression verbatim.
	OverrideExpression
)

// String returns a human-readable override kind.
func (k OverrideKind) String() string {
	switch k {
	case OverrideSource:
		return "source"
	case OverrideIgnore:
		return "ignore"
	case OverrideExpression:
		return "expression"
	default:
		return common.UnknownStr
	}
}

// Override is a validated per-parameter override.
type Override struct {
	Target string
	Kind   OverrideKind
	// Source is the source member name for OverrideSource.
	Source string
	// Expression is the unwrapped Go expression for OverrideExpression.
	Expression string
}

// Collector is a context collector type with its hook templates.
type Collector struct {
	Type analyze.TypeRef

	BeforeProperty string
	AfterProperty  string
	BeforeListItem string
	AfterListItem  string
	BeforeMapEntry string
	AfterMapEntry  string

	OnlyWhenRequired bool
	Imports          []string
}

// ContextParam is a contract's context collector parameter.
type ContextParam struct {
	Name string
	Type analyze.TypeRef
	// Collector is nil when the parameter's type declares no hooks.
	Collector *Collector
}

// PassOnParam is a parameter forwarded to nested conversions.
type PassOnParam struct {
	Name      string
	Type      analyze.TypeRef
	MatchName bool
}

// DefaultPassOn is a mapper-level fallback value for pass-on parameters.
type DefaultPassOn struct {
	PassOnParam
	// Value is a Go expression.
	Value string
}

// Contract is a typed conversion intent: one abstract method of a mapper.
type Contract struct {
	Mapper string
	Name   string

	// SourceName is the name of the source parameter.
	SourceName string
	Source     analyze.TypeRef
	Target     analyze.TypeRef

	// Overrides are in declaration order; targets are unique.
	Overrides []Override

	// Helpers are the qualified names of helper collaborators.
	Helpers []string

	Context         *ContextParam
	PassOn          []PassOnParam
	Defaults        []DefaultPassOn
	RequiresContext bool
	TypeParams      []string

	// Err is set when the declaration itself is invalid. Such a contract
	// fails without being resolved.
	Err *diagnostic.ContractError
}

// ID identifies the contract in diagnostics, e.g. "PersonMapper.map(model.Person)".
func (c *Contract) ID() string {
	return fmt.Sprintf("%s.%s(%s)", c.Mapper, c.Name, c.Source)
}

// Override returns the override for a target parameter.
func (c *Contract) Override(target string) (Override, bool) {
	for _, o := range c.Overrides {
		if o.Target == target {
			return o, true
		}
	}

	return Override{}, false
}

// Function returns the contract's signature as an abstract function of its mapper.
func (c *Contract) Function() analyze.Function {
	fn := analyze.Function{
		Name:     c.Name,
		Params:   []analyze.Param{{Name: c.SourceName, Type: c.Source}},
		Returns:  c.Target,
		Abstract: true,
	}

	if c.Context != nil {
		fn.Params = append(fn.Params, analyze.Param{Name: c.Context.Name, Type: c.Context.Type, Context: true})
	}

	for _, p := range c.PassOn {
		fn.Params = append(fn.Params, analyze.Param{Name: p.Name, Type: p.Type, PassOn: true, MatchName: p.MatchName})
	}

	return fn
}

// HooksEnabled reports whether the context collector's hooks apply to this contract.
func (c *Contract) HooksEnabled() bool {
	if c.Context == nil || c.Context.Collector == nil {
		return false
	}

	return !c.Context.Collector.OnlyWhenRequired || c.RequiresContext
}

// Mapper is a typed group of contracts implemented together.
type Mapper struct {
	Name       string
	TypeParams []string
	Helpers    []string
	Defaults   []DefaultPassOn
	// Functions are hand-written conversion functions of the mapper itself.
	Functions []analyze.Function
	Contracts []*Contract
}

// HelperField returns the field name holding a helper collaborator.
func HelperField(helper string) string {
	_, short := common.SplitQualified(helper)
	return common.LowerFirst(strings.TrimSpace(short))
}
