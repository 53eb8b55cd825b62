package gen

import (
	"fmt"
	"strconv"
	"strings"

	"contract-mapper/internal/common"
	"contract-mapper/internal/plan"
)

// enumFunc returns the name of the package-level function converting p's
// enum pair. The function is rendered into the first file that needs it.
func (f *fileBuilder) enumFunc(p *plan.Plan) string {
	key := p.Source.NonNull().String() + "->" + p.Target.NonNull().String()
	if name, ok := f.gen.enumFuncs[key]; ok {
		return name
	}

	base := common.LowerFirst(f.enumPart(p.Source.ShortName())) + "To" + common.UpperFirst(f.enumPart(p.Target.ShortName()))
	name := base

	for i := 2; f.gen.funcNames[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}

	f.gen.funcNames[name] = true
	f.gen.enumFuncs[key] = name

	f.types.imports.add("fmt")

	src := f.types.goType(p.Source.NonNull())
	dst := f.types.goType(p.Target.NonNull())

	var b strings.Builder

	fmt.Fprintf(&b, "// %s converts %s to %s by constant name.\n", name, p.Source.NonNull(), p.Target.NonNull())
	fmt.Fprintf(&b, "func %s(v %s) %s {\n\tswitch v {\n", name, src, dst)

	for _, c := range p.Constants {
		switch p.Enum {
		case plan.EnumToEnum:
			fmt.Fprintf(&b, "\tcase %s:\n\t\treturn %s\n",
				f.types.constant(p.Source, c.SourceIdent), f.types.constant(p.Target, c.TargetIdent))
		case plan.EnumToText:
			fmt.Fprintf(&b, "\tcase %s:\n\t\treturn %s\n", f.types.constant(p.Source, c.SourceIdent), strconv.Quote(c.Name))
		case plan.TextToEnum:
			fmt.Fprintf(&b, "\tcase %s:\n\t\treturn %s\n", strconv.Quote(c.Name), f.types.constant(p.Target, c.TargetIdent))
		}
	}

	fmt.Fprintf(&b, "\t}\n\n\tpanic(fmt.Sprintf(\"no %s constant for %%v\", v))\n}\n", p.Target.NonNull())

	f.funcs = append(f.funcs, b.String())

	return name
}

// enumPart names a type inside a function name; built-in text reads as "string".
func (f *fileBuilder) enumPart(short string) string {
	if goName, ok := builtinGoTypes[short]; ok {
		return goName
	}

	return short
}
