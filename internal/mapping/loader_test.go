package mapping

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

const personYAML = `
version: "1"
types:
  - name: model.Person
    members:
      - firstName: String
      - {name: age, type: "Int?"}
  - name: dto.Person
    members:
      - firstName: String
      - age: Int?
      - {name: nickname, type: String}
    constructor:
      - firstName: String
      - age: Int?
      - {name: nickname, type: String, default: true}
  - name: model.Color
    kind: enum
    constants: [RED, {name: GREEN, ident: ColorGreen}]
context_collectors:
  - type: model.Trail
    before_property: "%X.Enter(%P)"
    after_property: "%X.Exit()"
    imports: example.com/trail
mappers:
  - name: PersonMapper
    uses: AddressMapper
    default_pass_on:
      - {name: lang, type: String, value: '"en"'}
    contracts:
      - name: ToDto
        param: {name: person, type: model.Person}
        returns: dto.Person
        context: {name: trail, type: "model.Trail?"}
        mappings:
          - target: nickname
            ignore: true
`

func TestParse(t *testing.T) {
	mf, err := Parse([]byte(personYAML))
	require.NoError(t, err)
	require.NotNil(t, mf)

	assert.Equal(t, "1", mf.Version)
	assert.Equal(t, DefaultPackage, mf.Package)
	require.Len(t, mf.Types, 3)

	person := mf.Types[0]
	assert.Equal(t, "class", person.Kind)
	assert.Equal(t, FieldDecls{{Name: "firstName", Type: "String"}, {Name: "age", Type: "Int?"}}, person.Members)
	assert.Equal(t, person.Members, person.Constructor, "constructor defaults to members")

	dto := mf.Types[1]
	require.Len(t, dto.Constructor, 3)
	assert.True(t, dto.Constructor[2].Default)

	color := mf.Types[2]
	assert.Equal(t, []ConstantDecl{{Name: "RED", Ident: "RED"}, {Name: "GREEN", Ident: "ColorGreen"}}, color.Constants)

	require.Len(t, mf.Collectors, 1)
	assert.Equal(t, StringOrArray{"example.com/trail"}, mf.Collectors[0].Imports)

	require.Len(t, mf.Mappers, 1)
	m := mf.Mappers[0]
	assert.Equal(t, StringOrArray{"AddressMapper"}, m.Uses)
	require.Len(t, m.Contracts, 1)
	assert.Equal(t, "person", m.Contracts[0].Param.Name)
	require.NotNil(t, m.Contracts[0].Context)
	assert.Equal(t, "model.Trail?", m.Contracts[0].Context.Type)
	assert.True(t, m.Contracts[0].Mappings[0].Ignore)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "mappers: [unclosed"},
		{"unknown field", "mappers: []\nunknown: 1"},
		{"bad field list", "types:\n  - name: a.B\n    members: firstName"},
		{"bad field entry", "types:\n  - name: a.B\n    members:\n      - {a: String, b: Int}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParse_NullableFieldForms(t *testing.T) {
	tests := []struct {
		name    string
		members string
		wantErr bool
	}{
		{"quoted flow", `[{name: age, type: "Int?"}]`, false},
		{"quoted shorthand", `[{age: "Int?"}]`, false},
		{"block", "\n      - age: Int?", false},
		{"unquoted flow", `[{name: age, type: Int?}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, err := Parse([]byte("types:\n  - name: a.B\n    members: " + tt.members))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, mf.Types, 1)
			assert.Equal(t, FieldDecls{{Name: "age", Type: "Int?"}}, mf.Types[0].Members)
		})
	}
}

func TestLoadAndWrite(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	mf, err := Parse([]byte(personYAML))
	require.NoError(t, err)

	URL := filepath.Join(t.TempDir(), "mappers.yaml")
	require.NoError(t, Write(ctx, fs, mf, URL))

	loaded, err := Load(ctx, fs, URL)
	require.NoError(t, err)
	assert.Equal(t, mf, loaded)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), afs.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read mapper file")
}
