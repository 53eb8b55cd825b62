package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/diagnostic"
)

const personYAML = helperYAML + `
  - name: People
    uses: AddressHelper
    default_pass_on:
      - {name: locale, type: String, value: '"en"'}
    functions:
      - name: hueOf
        params: [{color: model.Color}, {trail: audit.Trail}]
        returns: dto.Hue
      - name: label
        params: [{color: model.Color}, {name: locale, type: String, pass_on: true}]
        returns: String
    contracts:
      - name: ToPerson
        param: {name: person, type: model.Person}
        returns: dto.Person
        context: {name: trail, type: audit.Trail}
        mappings:
          - {target: displayName, source: name}
          - {target: colorLabel, source: color}
          - {target: source, expression: 'go("crm")'}
`

func param(t *testing.T, p *Plan, name string) PropertyCorrelation {
	t.Helper()

	for _, pc := range p.Params {
		if pc.Param == name {
			return pc
		}
	}

	require.FailNow(t, "parameter not planned", name)

	return PropertyCorrelation{}
}

func TestMapByConstruction_Person(t *testing.T) {
	ex := fixture(t, personYAML)
	c := contractOf(t, ex, "People", "ToPerson")
	r := NewResolver(ex.Types, DefaultConfig())

	p, err := r.MapByConstruction(c)
	require.NoError(t, err)
	require.Equal(t, KindConstruct, p.Kind)

	var order []string
	for _, pc := range p.Params {
		order = append(order, pc.Param)
	}

	assert.Equal(t, []string{"displayName", "address", "tags", "favorite", "colorLabel", "source"}, order)

	display := param(t, p, "displayName")
	assert.Equal(t, ValueMember, display.Value)
	assert.Equal(t, "name", display.Member)
	assert.Equal(t, KindIdentity, display.Plan.Kind)
	assert.Nil(t, display.Hooks, "identity needs no hooks")

	address := param(t, p, "address")
	require.Equal(t, KindDelegate, address.Plan.Kind)
	assert.Equal(t, "AddressHelper", address.Plan.Call.Helper)
	require.NotNil(t, address.Hooks)
	assert.Equal(t, "trail.Enter(%P)", address.Hooks.Before)
	assert.Equal(t, "trail.Exit()", address.Hooks.After)
	assert.Equal(t, []string{"example.com/audit"}, address.Hooks.Imports)

	tags := param(t, p, "tags")
	require.Equal(t, KindMapEntries, tags.Plan.Kind)
	assert.Nil(t, tags.Plan.ItemHooks, "no map entry hooks declared")
	require.Equal(t, KindDelegate, tags.Plan.Value.Kind)
	assert.Equal(t, &Call{
		Func: "hueOf",
		Args: []Arg{
			{Param: "color", Kind: ArgSubject},
			{Param: "trail", Kind: ArgContext, Value: "trail"},
		},
	}, tags.Plan.Value.Call)

	favorite := param(t, p, "favorite")
	require.Equal(t, KindNullableLift, favorite.Plan.Kind)
	assert.Equal(t, KindDelegate, favorite.Plan.Inner.Kind)
	assert.False(t, favorite.NullGuard, "the lift handles null already")

	label := param(t, p, "colorLabel")
	assert.Equal(t, "color", label.Member)
	require.Equal(t, KindDelegate, label.Plan.Kind)
	assert.Equal(t, Arg{Param: "locale", Kind: ArgDefault, Value: `"en"`}, label.Plan.Call.Args[1])

	source := param(t, p, "source")
	assert.Equal(t, ValueLiteral, source.Value)
	assert.Equal(t, `"crm"`, source.Literal)
	assert.Nil(t, source.Plan)
}

func TestMapByConstruction_ContextNotInScope(t *testing.T) {
	ex := fixture(t, helperYAML+`
  - name: People
    uses: AddressHelper
    functions:
      - name: hueOf
        params: [{color: model.Color}, {trail: audit.Trail}]
        returns: dto.Hue
      - name: label
        params: [{color: model.Color}, {name: locale, type: String, pass_on: true}]
        returns: String
    contracts:
      - name: ToPerson
        param: {name: person, type: model.Person}
        returns: dto.Person
        pass_on:
          - locale: String
        mappings:
          - {target: displayName, source: name}
          - {target: colorLabel, source: color}
          - {target: source, expression: 'go("crm")'}
`)
	c := contractOf(t, ex, "People", "ToPerson")

	// Without a trail in scope hueOf cannot be called, and the enum
	// correlation takes over.
	p, err := NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
	require.NoError(t, err)

	tags := param(t, p, "tags")
	assert.Equal(t, KindEnumByName, tags.Plan.Value.Kind)
	assert.Nil(t, param(t, p, "address").Hooks)

	label := param(t, p, "colorLabel")
	assert.Equal(t, Arg{Param: "locale", Kind: ArgPassOn, Value: "locale"}, label.Plan.Call.Args[1])
}

func TestMapByConstruction_HooksOnlyWhenRequired(t *testing.T) {
	yaml := `
  - name: Nodes
    contracts:
      - name: ToNode
        param: {name: node, type: model.Node}
        returns: dto.Node
        context: {name: trail, type: audit.Trail}
`
	ex := fixture(t, yaml)
	c := contractOf(t, ex, "Nodes", "ToNode")

	p, err := NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
	require.NoError(t, err)

	children := param(t, p, "children")
	require.NotNil(t, children.Plan.ItemHooks)
	assert.Equal(t, "trail.Index(%I)", children.Plan.ItemHooks.Before)

	c.Context.Collector.OnlyWhenRequired = true

	p, err = NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
	require.NoError(t, err)
	assert.Nil(t, param(t, p, "children").Plan.ItemHooks)
	assert.Nil(t, param(t, p, "children").Hooks)

	c.RequiresContext = true

	p, err = NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
	require.NoError(t, err)
	assert.NotNil(t, param(t, p, "children").Hooks)
}

func TestMapByConstruction_SelfReferential(t *testing.T) {
	ex := fixture(t, `
  - name: Nodes
    contracts:
      - name: ToNode
        param: {name: node, type: model.Node}
        returns: dto.Node
`)
	c := contractOf(t, ex, "Nodes", "ToNode")

	p, err := NewResolver(ex.Types, DefaultConfig()).ResolveContract(c)
	require.NoError(t, err)

	children := param(t, p, "children")
	require.Equal(t, KindMapContainer, children.Plan.Kind)
	require.Equal(t, KindDelegate, children.Plan.Elem.Kind)
	assert.Equal(t, "ToNode", children.Plan.Elem.Call.Func, "nested nodes recurse through the contract")
}

func TestMapByConstruction_ExampleA(t *testing.T) {
	tests := []struct {
		name     string
		mappings string
		wantErr  bool
		params   []string
	}{
		{name: "no override", wantErr: true},
		{name: "ignored", mappings: "[{target: age, ignore: true}]", params: []string{"name"}},
		{name: "literal", mappings: "[{target: age, expression: go(0)}]", params: []string{"name", "age"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := `
  - name: Simple
    contracts:
      - name: ToTarget
        param: {name: source, type: model.Source}
        returns: dto.Target
`
			if tt.mappings != "" {
				yaml += "        mappings: " + tt.mappings + "\n"
			}

			ex := fixture(t, yaml)
			c := contractOf(t, ex, "Simple", "ToTarget")

			p, err := NewResolver(ex.Types, DefaultConfig()).ResolveContract(c)
			if tt.wantErr {
				cerr, ok := AsContractError(err)
				require.True(t, ok, "got %v", err)
				assert.Equal(t, diagnostic.CodeUnresolvedConversion, cerr.Code)
				assert.Equal(t, "age", cerr.Param)
				assert.Equal(t, "Int?->Int", cerr.TypePair())
				assert.Equal(t, c.ID(), cerr.Contract)

				return
			}

			require.NoError(t, err)

			var got []string
			for _, pc := range p.Params {
				got = append(got, pc.Param)
			}

			assert.Equal(t, tt.params, got)
		})
	}
}

func TestMapByConstruction_LiteralSuppressesMember(t *testing.T) {
	ex := fixture(t, `
  - name: Simple
    contracts:
      - name: ToAddress
        param: {name: address, type: model.Address}
        returns: dto.Address
        mappings:
          - {target: street, expression: 'go("unknown")'}
`)
	c := contractOf(t, ex, "Simple", "ToAddress")

	p, err := NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
	require.NoError(t, err)

	street := param(t, p, "street")
	assert.Equal(t, ValueLiteral, street.Value)
	assert.Empty(t, street.Member)
}

func TestMapByConstruction_MissingCounterpart(t *testing.T) {
	ex := fixture(t, `
  - name: Accounts
    contracts:
      - name: ToAccount
        param: {name: account, type: model.Account}
        returns: dto.Account
`)
	c := contractOf(t, ex, "Accounts", "ToAccount")

	_, err := NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
	cerr, ok := AsContractError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostic.CodeMissingCounterpart, cerr.Code)
	assert.Equal(t, "fullname", cerr.Param)
	assert.Equal(t, []string{"fullName"}, cerr.Suggestions, "suggestions only, matching stays exact")
}

func TestMapByConstruction_WholeSource(t *testing.T) {
	ex := fixture(t, `
  - name: Wrappers
    contracts:
      - name: Wrap
        param: {name: value, type: String}
        returns: dto.Wrapper
      - name: Rename
        param: {name: text, type: String}
        returns: dto.Wrapper
`)

	p, err := NewResolver(ex.Types, DefaultConfig()).MapByConstruction(contractOf(t, ex, "Wrappers", "Wrap"))
	require.NoError(t, err)

	value := param(t, p, "value")
	assert.Equal(t, ValueWhole, value.Value)
	assert.Equal(t, KindIdentity, value.Plan.Kind)

	_, err = NewResolver(ex.Types, DefaultConfig()).MapByConstruction(contractOf(t, ex, "Wrappers", "Rename"))
	cerr, ok := AsContractError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostic.CodeMissingCounterpart, cerr.Code)
}

func TestMapByConstruction_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mappings string
		param    string
	}{
		{"ignore without default", "[{target: street, ignore: true}]", "street"},
		{"unknown parameter", "[{target: streets, source: street}]", "streets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := fixture(t, `
  - name: Simple
    contracts:
      - name: ToAddress
        param: {name: address, type: model.Address}
        returns: dto.Address
        mappings: `+tt.mappings+"\n")
			c := contractOf(t, ex, "Simple", "ToAddress")

			_, err := NewResolver(ex.Types, DefaultConfig()).MapByConstruction(c)
			cerr, ok := AsContractError(err)
			require.True(t, ok)
			assert.Equal(t, diagnostic.CodeConfiguration, cerr.Code)
			assert.Equal(t, tt.param, cerr.Param)
		})
	}
}

func TestMapByConstruction_DeferredMember(t *testing.T) {
	ex := fixture(t, personYAML)
	c := contractOf(t, ex, "People", "ToPerson")

	hidden := analyze.Filter(ex.Types, func(d *analyze.Decl) bool { return d.Name != "model.Address" })

	_, err := NewResolver(hidden, DefaultConfig()).MapByConstruction(c)
	require.True(t, IsDeferred(err), "got %v", err)
}
