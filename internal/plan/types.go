package plan

import (
	"strings"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/common"
)

// Kind is the variant of a Plan.
type Kind int

const (
	// KindIdentity - the source value is used as is.
	KindIdentity Kind = iota
	// KindDelegate - call a conversion function of the mapper or a helper.
	KindDelegate
	// KindMapContainer - convert each element and collect into the target container.
	KindMapContainer
	// KindMapEntries - convert each key and value into a new map.
	KindMapEntries
	// KindEnumByName - correlate enum constants or text by constant name.
	KindEnumByName
	// KindNullableLift - pass null through, convert the non-null value with Inner.
	KindNullableLift
	// KindConstruct - call the target's constructor with correlated parameters.
	KindConstruct
)

// String returns a human-readable plan kind.
func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindDelegate:
		return "delegate"
	case KindMapContainer:
		return "map_container"
	case KindMapEntries:
		return "map_entries"
	case KindEnumByName:
		return "enum_by_name"
	case KindNullableLift:
		return "nullable_lift"
	case KindConstruct:
		return "construct"
	default:
		return common.UnknownStr
	}
}

// EnumMode is the direction of an enum correlation.
type EnumMode int

const (
	EnumToEnum EnumMode = iota
	EnumToText
	TextToEnum
)

// String returns a human-readable enum mode.
func (m EnumMode) String() string {
	switch m {
	case EnumToEnum:
		return "enum_to_enum"
	case EnumToText:
		return "enum_to_text"
	case TextToEnum:
		return "text_to_enum"
	default:
		return common.UnknownStr
	}
}

// Plan describes how to compute a target value from a source value.
// Only the fields of its Kind are set.
type Plan struct {
	Kind Kind
	// Source is the type the plan consumes.
	Source analyze.TypeRef
	// Target is the type the plan produces. It may be the non-null form of
	// the requested type; callers lift the value when they need null.
	Target analyze.TypeRef

	// Call is set for KindDelegate.
	Call *Call

	// Elem converts each element (KindMapContainer).
	Elem *Plan
	// Key and Value convert each entry (KindMapEntries).
	Key   *Plan
	Value *Plan
	// Container is the target container kind (KindMapContainer, KindMapEntries).
	Container analyze.ContainerKind
	// ItemHooks surround each element or entry conversion.
	ItemHooks *Hooks

	// Enum is the correlation direction (KindEnumByName).
	Enum EnumMode
	// Constants are the correlated constants, in source declaration order
	// (target order for TextToEnum).
	Constants []ConstantPair

	// Inner converts the non-null value (KindNullableLift).
	Inner *Plan

	// Params are the constructor arguments in declaration order (KindConstruct).
	Params []PropertyCorrelation
}

// ConstantPair correlates one enum constant.
type ConstantPair struct {
	Name        string
	SourceIdent string
	TargetIdent string
}

// ArgKind says where a delegate argument comes from.
type ArgKind int

const (
	// ArgSubject - the value being converted.
	ArgSubject ArgKind = iota
	// ArgContext - the contract's context collector.
	ArgContext
	// ArgPassOn - a pass-on parameter of the contract.
	ArgPassOn
	// ArgDefault - a mapper default pass-on value.
	ArgDefault
)

// String returns a human-readable argument kind.
func (k ArgKind) String() string {
	switch k {
	case ArgSubject:
		return "subject"
	case ArgContext:
		return "context"
	case ArgPassOn:
		return "pass_on"
	case ArgDefault:
		return "default"
	default:
		return common.UnknownStr
	}
}

// Call is a delegation to a conversion function.
type Call struct {
	// Helper is the qualified name of the helper collaborator, empty for the mapper itself.
	Helper string
	Func   string
	// Args follow the callee's parameter order.
	Args []Arg
}

// Arg is one argument of a Call.
type Arg struct {
	Param string
	Kind  ArgKind
	// Value is the Go expression passed; empty for ArgSubject.
	Value string
}

// ValueKind says what a constructor parameter is populated from.
type ValueKind int

const (
	// ValueMember - a readable member of the source.
	ValueMember ValueKind = iota
	// ValueWhole - the entire source value.
	ValueWhole
	// ValueLiteral - a literal override expression.
	ValueLiteral
)

// String returns a human-readable value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueMember:
		return "member"
	case ValueWhole:
		return "whole"
	case ValueLiteral:
		return "literal"
	default:
		return common.UnknownStr
	}
}

// PropertyCorrelation populates one target constructor parameter.
type PropertyCorrelation struct {
	Param     string
	ParamType analyze.TypeRef
	Value     ValueKind
	// Member is the source member name (ValueMember).
	Member string
	// SourceType is the type of the member or whole source.
	SourceType analyze.TypeRef
	// Literal is the Go expression (ValueLiteral).
	Literal string
	// Plan converts the member or whole source; nil for literals.
	Plan *Plan
	// NullGuard skips the conversion when the source value is null.
	NullGuard bool
	// Hooks surround the conversion.
	Hooks *Hooks
}

// Hooks are context collector statements surrounding a nested conversion.
// The collector placeholder is already substituted; %P, %I and %K remain
// for the emitter.
type Hooks struct {
	Before  string
	After   string
	Imports []string
}

// Uses reports whether either statement references placeholder.
func (h *Hooks) Uses(placeholder string) bool {
	if h == nil {
		return false
	}

	return strings.Contains(h.Before, placeholder) || strings.Contains(h.After, placeholder)
}

// AcceptsNull reports whether the plan can be applied to a null source value.
func (p *Plan) AcceptsNull() bool {
	switch p.Kind {
	case KindIdentity, KindDelegate:
		return p.Source.Nullable
	case KindNullableLift:
		return true
	default:
		return false
	}
}

// Walk visits p and all nested plans depth-first.
func (p *Plan) Walk(visit func(*Plan)) {
	if p == nil {
		return
	}

	visit(p)

	for _, child := range []*Plan{p.Elem, p.Key, p.Value, p.Inner} {
		child.Walk(visit)
	}

	for i := range p.Params {
		p.Params[i].Plan.Walk(visit)
	}
}
