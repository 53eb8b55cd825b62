// Package mapping provides the YAML mapper file schema, its loader, and
// the extractor that turns declarations into typed contracts.
//
// # Schema Overview
//
//	version: "1"
//	package: mappers
//	types:
//	  - name: model.Person
//	    members:
//	      - firstName: String
//	      - age: Int?
//	  - name: model.Color
//	    kind: enum
//	    constants: [RED, GREEN]
//	context_collectors:
//	  - type: model.Trail
//	    before_property: "%X.Enter(%P)"
//	    after_property: "%X.Exit()"
//	mappers:
//	  - name: PersonMapper
//	    uses: [AddressMapper]
//	    contracts:
//	      - name: ToDto
//	        param: {name: person, type: model.Person}
//	        returns: dto.Person
//	        mappings:
//	          - target: displayName
//	            source: firstName
//	          - target: internalID
//	            ignore: true
//	          - target: version
//	            expression: go(2)
//
// Extraction validates the file, builds the type table (inline types plus
// any loaded from Go packages, plus one interface declaration per mapper)
// and returns one Contract per declared method. A contract whose own
// declaration is invalid carries a ContractError instead of failing the file.
package mapping
