package gen

import (
	"fmt"
	"strconv"
	"strings"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/common"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
)

// body renders the statements of one generated function. Nested conversions
// that need statements (loops, null checks, hooks) are written to lines and
// their result is bound to a fresh local variable.
type body struct {
	file     *fileBuilder
	receiver string
	lines    []string
	names    map[string]bool
}

func newBody(file *fileBuilder, receiver string, params []string) *body {
	names := map[string]bool{receiver: true}
	for _, p := range params {
		names[p] = true
	}

	return &body{file: file, receiver: receiver, names: names}
}

func (b *body) line(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// fresh returns a local name not used in this function or as a package alias.
func (b *body) fresh(base string) string {
	name := base

	for i := 2; b.names[name] || b.file.types.imports.byAlias[name] != ""; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}

	b.names[name] = true

	return name
}

func (b *body) String() string {
	return strings.Join(b.lines, "\n")
}

// value renders p applied to in, whose type is inType. The result has the Go
// type of p.Target.
func (b *body) value(p *plan.Plan, in string, inType analyze.TypeRef) string {
	switch p.Kind {
	case plan.KindIdentity:
		return in
	case plan.KindDelegate:
		return b.call(p, in, inType)
	case plan.KindMapContainer:
		return b.collection(p, in)
	case plan.KindMapEntries:
		return b.entries(p, in)
	case plan.KindEnumByName:
		return b.file.enumFunc(p) + "(" + in + ")"
	case plan.KindNullableLift:
		return b.lift(p, in, inType)
	case plan.KindConstruct:
		return b.construct(p, in)
	default:
		panic(fmt.Sprintf("unexpected plan kind %s", p.Kind))
	}
}

// adapt converts expr of type have into a value assignable to want. Only a
// non-null value stored into a pointer slot needs work. Types are compared
// as TypeRefs so that nothing is imported for a value passed through as is.
func (b *body) adapt(expr string, have, want analyze.TypeRef) string {
	if !have.Nullable && want.Nullable && b.file.types.pointerNullable(want) {
		tmp := b.fresh("v")
		b.line("%s := %s", tmp, expr)

		return "&" + tmp
	}

	return expr
}

func (b *body) call(p *plan.Plan, in string, inType analyze.TypeRef) string {
	recv := b.receiver + "."
	if p.Call.Helper != "" {
		recv += mapping.HelperField(p.Call.Helper) + "."
	}

	args := make([]string, 0, len(p.Call.Args))

	for _, a := range p.Call.Args {
		if a.Kind == plan.ArgSubject {
			args = append(args, b.adapt(in, inType, p.Source))
		} else {
			args = append(args, a.Value)
		}
	}

	return recv + p.Call.Func + "(" + strings.Join(args, ", ") + ")"
}

func (b *body) collection(p *plan.Plan, in string) string {
	types := b.file.types
	srcElem, dstElem := p.Source.Args[0], p.Target.Args[0]
	toSet := p.Container == analyze.ContainerSet || p.Container == analyze.ContainerMutableSet
	srcKind := analyze.ContainerOf(p.Source)
	fromSet := srcKind == analyze.ContainerSet || srcKind == analyze.ContainerMutableSet

	out := b.fresh("out")
	item := b.fresh("item")

	if toSet {
		b.line("%s := make(%s, len(%s))", out, types.goType(p.Target), in)
	} else {
		b.line("%s := make(%s, 0, len(%s))", out, types.goType(p.Target), in)
	}

	index := "_"
	if p.ItemHooks.Uses(plan.PlaceholderIndex) {
		index = b.fresh("i")
	}

	switch {
	case fromSet && index != "_":
		b.line("%s := 0", index)
		b.line("for %s := range %s {", item, in)
	case fromSet:
		b.line("for %s := range %s {", item, in)
	default:
		b.line("for %s, %s := range %s {", index, item, in)
	}

	b.hook(p.ItemHooks, true, plan.PlaceholderIndex, index)

	elem := b.adapt(b.value(p.Elem, item, srcElem), p.Elem.Target, dstElem)
	if toSet {
		b.line("%s[%s] = struct{}{}", out, elem)
	} else {
		b.line("%s = append(%s, %s)", out, out, elem)
	}

	b.hook(p.ItemHooks, false, plan.PlaceholderIndex, index)

	if fromSet && index != "_" {
		b.line("%s++", index)
	}

	b.line("}")

	if p.Container == analyze.ContainerSortedSet {
		b.file.types.imports.add("slices")
		b.line("slices.Sort(%s)", out)
		b.line("%s = slices.Compact(%s)", out, out)
	}

	return out
}

func (b *body) entries(p *plan.Plan, in string) string {
	types := b.file.types
	out := b.fresh("out")
	key := b.fresh("key")
	val := b.fresh("value")

	b.line("%s := make(%s, len(%s))", out, types.goType(p.Target), in)
	b.line("for %s, %s := range %s {", key, val, in)
	b.hook(p.ItemHooks, true, plan.PlaceholderKey, key)

	k := b.adapt(b.value(p.Key, key, p.Source.Args[0]), p.Key.Target, p.Target.Args[0])
	v := b.adapt(b.value(p.Value, val, p.Source.Args[1]), p.Value.Target, p.Target.Args[1])
	b.line("%s[%s] = %s", out, k, v)

	b.hook(p.ItemHooks, false, plan.PlaceholderKey, key)
	b.line("}")

	return out
}

func (b *body) lift(p *plan.Plan, in string, inType analyze.TypeRef) string {
	types := b.file.types
	out := b.fresh("out")

	b.line("var %s %s", out, types.goType(p.Target))
	b.line("if %s != nil {", in)

	inner := in
	if types.pointerNullable(inType) {
		inner = b.fresh("v")
		b.line("%s := *%s", inner, in)
	}

	b.line("%s = %s", out, b.adapt(b.value(p.Inner, inner, inType.NonNull()), p.Inner.Target, p.Target))
	b.line("}")

	return out
}

func (b *body) construct(p *plan.Plan, in string) string {
	fields := make([]string, 0, len(p.Params))

	for _, pc := range p.Params {
		fields = append(fields, common.UpperFirst(pc.Param)+": "+b.param(pc, in))
	}

	if len(fields) == 0 {
		return b.file.types.goType(p.Target) + "{}"
	}

	return b.file.types.goType(p.Target) + "{\n" + strings.Join(fields, ",\n") + ",\n}"
}

func (b *body) param(pc plan.PropertyCorrelation, in string) string {
	if pc.Value == plan.ValueLiteral {
		return pc.Literal
	}

	src := in
	if pc.Value == plan.ValueMember {
		src = in + "." + common.UpperFirst(pc.Member)
	}

	if pc.Plan.Kind == plan.KindIdentity && pc.Hooks == nil {
		return b.adapt(src, pc.SourceType, pc.ParamType)
	}

	b.hook(pc.Hooks, true, plan.PlaceholderProperty, strconv.Quote(pc.Param))

	var result string

	if pc.NullGuard {
		result = b.fresh(common.LowerFirst(pc.Param))
		b.line("var %s %s", result, b.file.types.goType(pc.ParamType))
		b.line("if %s != nil {", src)

		inner := src
		if b.file.types.pointerNullable(pc.SourceType) {
			inner = "*" + src
		}

		b.line("%s = %s", result, b.adapt(b.value(pc.Plan, inner, pc.SourceType.NonNull()), pc.Plan.Target, pc.ParamType))
		b.line("}")
	} else {
		expr := b.adapt(b.value(pc.Plan, src, pc.SourceType), pc.Plan.Target, pc.ParamType)

		if pc.Hooks == nil {
			return expr
		}

		result = b.fresh(common.LowerFirst(pc.Param))
		b.line("%s := %s", result, expr)
	}

	b.hook(pc.Hooks, false, plan.PlaceholderProperty, strconv.Quote(pc.Param))

	return result
}

// hook writes the before or after statement of h with the placeholder
// replaced by value.
func (b *body) hook(h *plan.Hooks, before bool, placeholder, value string) {
	if h == nil {
		return
	}

	stmt := h.After
	if before {
		stmt = h.Before
	}

	if stmt == "" {
		return
	}

	for _, imp := range h.Imports {
		b.file.types.imports.add(imp)
	}

	b.line("%s", strings.ReplaceAll(stmt, placeholder, value))
}
