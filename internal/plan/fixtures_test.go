package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"contract-mapper/internal/analyze"
	"contract-mapper/internal/mapping"
)

const typesYAML = `
version: "1"
types:
  - name: model.Source
    members:
      - {name: name, type: String}
      - age: Int?
  - name: dto.Target
    constructor:
      - {name: name, type: String}
      - {name: age, type: Int, default: true}
  - name: model.Color
    kind: enum
    constants: [RED, GREEN]
  - name: dto.Hue
    kind: enum
    constants: [{name: RED, ident: HueRed}, {name: GREEN, ident: HueGreen}, {name: BLUE, ident: HueBlue}]
  - name: model.Address
    members:
      - street: String
  - name: dto.Address
    members:
      - street: String
  - name: model.Person
    members:
      - {name: name, type: String}
      - address: model.Address
      - tags: Map<String, model.Color>
      - favorite: model.Color?
      - color: model.Color
  - name: dto.Person
    constructor:
      - displayName: String
      - address: dto.Address
      - tags: Map<String, dto.Hue>
      - favorite: dto.Hue?
      - colorLabel: String
      - source: String
  - name: model.Node
    members:
      - label: String
      - children: List<model.Node>
  - name: dto.Node
    members:
      - label: String
      - children: List<dto.Node>
  - name: model.Account
    members:
      - fullName: String
  - name: dto.Account
    constructor:
      - fullname: String
  - name: dto.Wrapper
    constructor:
      - value: String
  - name: audit.Trail
context_collectors:
  - type: audit.Trail
    before_property: "%X.Enter(%P)"
    after_property: "%X.Exit()"
    before_list_item: "%X.Index(%I)"
    imports: example.com/audit
`

const helperYAML = `
  - name: AddressHelper
    contracts:
      - name: ToAddress
        param: {name: address, type: model.Address}
        returns: dto.Address
      - name: ToTarget
        param: {name: source, type: model.Source}
        returns: dto.Target
        mappings: [{target: age, ignore: true}]
`

// fixture parses the shared types followed by the given mappers.
func fixture(t *testing.T, mappers string) *mapping.Extraction {
	t.Helper()

	mf, err := mapping.Parse([]byte(typesYAML + "mappers:\n" + mappers))
	require.NoError(t, err)

	ex, err := mapping.Extract(mf, nil)
	require.NoError(t, err)

	return ex
}

func contractOf(t *testing.T, ex *mapping.Extraction, mapper, name string) *mapping.Contract {
	t.Helper()

	m, ok := ex.Mapper(mapper)
	require.True(t, ok, "mapper %s", mapper)

	for _, c := range m.Contracts {
		if c.Name == name {
			return c
		}
	}

	require.FailNow(t, "contract not found", "%s.%s", mapper, name)

	return nil
}

func ref(t *testing.T, s string) analyze.TypeRef {
	t.Helper()

	r, err := analyze.ParseTypeRef(s)
	require.NoError(t, err)

	return r
}
