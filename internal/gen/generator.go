package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/viant/afs"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/common"
	"contract-mapper/internal/mapping"
	"contract-mapper/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// PackagePath is the import path of the generated package. Types declared
	// in it are referenced without a qualifier.
	PackagePath string
	// OutputDir is where generated files (and debug sidecars) are written.
	OutputDir string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      mapping.DefaultPackage,
		OutputDir:        "./generated",
		GenerateComments: true,
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "people_mapper_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generator renders resolved mappers into Go source. Files rendered by the
// same Generator belong to one package and share its helper functions.
type Generator struct {
	config   GeneratorConfig
	universe analyze.Universe
	fs       afs.Service

	enumFuncs map[string]string
	funcNames map[string]bool
}

// NewGenerator creates a new Generator. u is used to tell interfaces apart
// from other declarations when rendering nullable types.
func NewGenerator(config GeneratorConfig, u analyze.Universe, fs afs.Service) *Generator {
	if config.PackageName == "" {
		config.PackageName = mapping.DefaultPackage
	}

	if fs == nil {
		fs = afs.New()
	}

	return &Generator{
		config:    config,
		universe:  u,
		fs:        fs,
		enumFuncs: map[string]string{},
		funcNames: map[string]bool{},
	}
}

// fileBuilder collects what one output file needs.
type fileBuilder struct {
	gen   *Generator
	types *typeFormatter
	funcs []string
}

func (g *Generator) newFile() *fileBuilder {
	return &fileBuilder{
		gen:   g,
		types: &typeFormatter{universe: g.universe, localPkg: g.config.PackagePath, imports: newImports()},
	}
}

type mapperData struct {
	PackageName string
	Imports     []importSpec
	Comments    bool
	Name        string
	Impl        string
	// TypeParams is the declaration list, e.g. "[T any]"; TypeArgs the use, e.g. "[T]".
	TypeParams string
	TypeArgs   string
	Helpers    []helperData
	Methods    []methodData
	Funcs      []string
}

type helperData struct {
	Field string
	Type  string
}

type methodData struct {
	Name      string
	Receiver  string
	Signature string
	Source    string
	Target    string
	Body      string
}

// GenerateMapper renders the interface, implementation and constructor of m.
// plans must follow the order of m's contracts.
func (g *Generator) GenerateMapper(ctx context.Context, m *mapping.Mapper, plans []*plan.Plan) (*GeneratedFile, error) {
	if len(plans) != len(m.Contracts) {
		return nil, fmt.Errorf("mapper %s: %d plans for %d contracts", m.Name, len(plans), len(m.Contracts))
	}

	f := g.newFile()
	data := &mapperData{
		PackageName: g.config.PackageName,
		Comments:    g.config.GenerateComments,
		Name:        m.Name,
		Impl:        m.Name + "Impl",
	}

	if len(m.TypeParams) > 0 {
		data.TypeParams = "[" + strings.Join(m.TypeParams, ", ") + " any]"
		data.TypeArgs = "[" + strings.Join(m.TypeParams, ", ") + "]"
	}

	for _, h := range m.Helpers {
		data.Helpers = append(data.Helpers, helperData{Field: mapping.HelperField(h), Type: f.types.qualify(h)})
	}

	for i, c := range m.Contracts {
		method, err := f.method(c, plans[i])
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", c.ID(), err)
		}

		data.Methods = append(data.Methods, method)
	}

	data.Funcs = f.funcs
	data.Imports = f.types.imports.specs()

	return g.render(ctx, mapperTemplate, common.SnakeCase(m.Name)+"_gen.go", data)
}

func (f *fileBuilder) method(c *mapping.Contract, p *plan.Plan) (md methodData, err error) {
	if p == nil {
		return md, fmt.Errorf("no plan")
	}

	fn := c.Function()

	params := make([]string, 0, len(fn.Params))
	names := make([]string, 0, len(fn.Params))

	for _, prm := range fn.Params {
		params = append(params, prm.Name+" "+f.types.goType(prm.Type))
		names = append(names, prm.Name)
	}

	receiver := "m"
	for _, n := range names {
		if n == receiver {
			receiver = "mapper"
		}
	}

	b := newBody(f, receiver, names)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering plan: %v", r)
		}
	}()

	result := b.adapt(b.value(p, c.SourceName, c.Source), p.Target, c.Target)
	b.line("return %s", result)

	return methodData{
		Name:      c.Name,
		Receiver:  receiver,
		Signature: fmt.Sprintf("%s(%s) %s", c.Name, strings.Join(params, ", "), f.types.goType(c.Target)),
		Source:    c.Source.String(),
		Target:    c.Target.String(),
		Body:      b.String(),
	}, nil
}

// render executes tmpl and formats the result. When formatting fails the
// unformatted code is returned with the error and a sidecar copy is written
// to the output directory.
func (g *Generator) render(ctx context.Context, tmpl *template.Template, filename string, data any) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(ctx, g.fs, g.config.OutputDir, filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

var mapperTemplate = mustTemplate("mapper", `// Code generated by contract-mapper. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .Comments}}// {{.Name}} is implemented by {{.Impl}}.
{{end}}type {{.Name}}{{.TypeParams}} interface {
{{range .Methods}}	{{.Signature}}
{{end}}}

{{if .Comments}}// {{.Impl}} implements {{.Name}}.
{{end}}type {{.Impl}}{{.TypeParams}} struct {
{{range .Helpers}}	{{.Field}} {{.Type}}
{{end}}}
{{if not .TypeParams}}
var _ {{.Name}} = (*{{.Impl}})(nil)
{{end}}
{{if .Comments}}// New{{.Name}} returns a new {{.Impl}}.
{{end}}func New{{.Name}}{{.TypeParams}}({{range $i, $h := .Helpers}}{{if $i}}, {{end}}{{$h.Field}} {{$h.Type}}{{end}}) *{{.Impl}}{{.TypeArgs}} {
	return &{{.Impl}}{{.TypeArgs}}{ {{range .Helpers}}{{.Field}}: {{.Field}}, {{end}}}
}
{{range .Methods}}
{{if $.Comments}}// {{.Name}} converts {{.Source}} into {{.Target}}.
{{end}}func ({{.Receiver}} *{{$.Impl}}{{$.TypeArgs}}) {{.Signature}} {
{{.Body}}
}
{{end}}{{range .Funcs}}
{{.}}{{end}}`)

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}
