// Package gen renders resolved conversion plans as Go source.
//
// Each mapper becomes an interface, an implementation struct holding its
// helper collaborators, and a constructor. Contract methods are rendered
// from their plans with text/template and go/format:
//   - identity conversions are plain assignments
//   - delegations call the mapper itself or a helper field
//   - containers are rebuilt with make and a range loop
//   - enum conversions go through a package-level switch function
//   - nullable lifts check for nil before converting
//   - constructions render a struct literal, one field per parameter
//
// A separate wiring file builds every mapper in helper dependency order.
package gen
