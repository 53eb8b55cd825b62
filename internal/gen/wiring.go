package gen

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"contract-mapper/internal/common"
	"contract-mapper/internal/mapping"
)

// WiringFilename is the file holding the Mappers aggregate.
const WiringFilename = "mappers_gen.go"

type wiringData struct {
	PackageName string
	Imports     []importSpec
	Comments    bool
	Fields      []helperData
	Params      []helperData
	Inits       []wiringInit
}

type wiringInit struct {
	Field string
	Ctor  string
	Args  string
}

// GenerateWiring renders a Mappers struct holding one instance of every
// non-generic mapper, built in helper dependency order. Helpers that are not
// among mappers become parameters of NewMappers.
func (g *Generator) GenerateWiring(ctx context.Context, mappers []*mapping.Mapper) (*GeneratedFile, error) {
	var wired []*mapping.Mapper

	for _, m := range mappers {
		if len(m.TypeParams) == 0 {
			wired = append(wired, m)
		}
	}

	index := make(map[string]int, len(wired))
	for i, m := range wired {
		index[m.Name] = i
	}

	local := func(helper string) (int, bool) {
		pkgPath, short := common.SplitQualified(helper)
		if pkgPath != "" && pkgPath != g.config.PackagePath {
			return 0, false
		}

		i, ok := index[short]

		return i, ok
	}

	order, err := topoSort(len(wired), func(i int) []int {
		var deps []int

		for _, h := range wired[i].Helpers {
			if d, ok := local(h); ok {
				deps = append(deps, d)
			}
		}

		return deps
	})
	if err != nil {
		names := make([]string, 0, len(wired))
		for _, m := range wired {
			names = append(names, m.Name)
		}

		return nil, fmt.Errorf("wiring %s: %w", strings.Join(names, ", "), err)
	}

	f := g.newFile()
	data := &wiringData{PackageName: g.config.PackageName, Comments: g.config.GenerateComments}
	external := map[string]bool{}

	for _, i := range order {
		m := wired[i]
		field := m.Name
		data.Fields = append(data.Fields, helperData{Field: field, Type: m.Name})

		args := make([]string, 0, len(m.Helpers))

		for _, h := range m.Helpers {
			if d, ok := local(h); ok {
				args = append(args, "ms."+wired[d].Name)
				continue
			}

			name := mapping.HelperField(h)
			args = append(args, name)

			if !external[name] {
				external[name] = true
				data.Params = append(data.Params, helperData{Field: name, Type: f.types.qualify(h)})
			}
		}

		data.Inits = append(data.Inits, wiringInit{Field: field, Ctor: "New" + m.Name, Args: strings.Join(args, ", ")})
	}

	data.Imports = f.types.imports.specs()

	return g.render(ctx, wiringTemplate, WiringFilename, data)
}

// topoSort returns node indices so that every node follows its dependencies.
// deps(i) yields the indices i depends on. Among ready nodes the smallest
// index goes first, so the order is stable for a given input.
func topoSort(n int, deps func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	dependents := make([][]int, n)

	for i := range n {
		for _, d := range deps(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			dependents[d] = append(dependents[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)

		for _, j := range dependents[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("helper cycle among %d mappers", n-len(order))
	}

	return order, nil
}

var wiringTemplate = mustTemplate("wiring", `// Code generated by contract-mapper. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .Comments}}// Mappers holds every generated mapper wired to its helpers.
{{end}}type Mappers struct {
{{range .Fields}}	{{.Field}} {{.Type}}
{{end}}}

{{if .Comments}}// NewMappers creates all mappers in helper dependency order.
{{end}}func NewMappers({{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Field}} {{$p.Type}}{{end}}) *Mappers {
	ms := &Mappers{}
{{range .Inits}}	ms.{{.Field}} = {{.Ctor}}({{.Args}})
{{end}}
	return ms
}
`)
