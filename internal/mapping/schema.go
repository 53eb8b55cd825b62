package mapping

// MapperFile represents the root of a YAML mapper definition file.
type MapperFile struct {
	// Version of the mapper schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Package is the Go package name of the generated code.
	Package string `yaml:"package,omitempty"`

	// Types declares data shapes inline, next to any loaded from Go packages.
	Types []TypeDecl `yaml:"types,omitempty"`

	// Collectors declares context collector types and their hook templates.
	Collectors []CollectorDecl `yaml:"context_collectors,omitempty"`

	// Mappers is the list of mapper declarations.
	Mappers []MapperDecl `yaml:"mappers"`
}

// TypeDecl declares a named type.
type TypeDecl struct {
	// Name is the qualified type name (e.g., "example.com/model.Person").
	Name string `yaml:"name"`

	// Kind is one of class (default), enum, interface, alias.
	Kind string `yaml:"kind,omitempty"`

	// Members lists readable properties in declaration order.
	Members FieldDecls `yaml:"members,omitempty"`

	// Constructor lists the designated constructor parameters.
	// When omitted for a class, the members are used, none optional.
	Constructor FieldDecls `yaml:"constructor,omitempty"`

	// Constants lists enum constants in declaration order.
	Constants []ConstantDecl `yaml:"constants,omitempty"`

	// Functions lists conversion functions offered by an interface.
	Functions []FunctionDecl `yaml:"functions,omitempty"`

	// GeneratedBy names the mapper whose output completes this type.
	// The type cannot be introspected before that mapper has been emitted.
	GeneratedBy string `yaml:"generated_by,omitempty"`
}

// FieldDecl declares a member or a parameter.
// YAML formats supported:
//   - {name: age, type: "Int?", default: true}
//   - {age: "Int?"}
//   - age: Int? (block style)
//
// A nullable type inside a flow mapping must be quoted, otherwise the
// trailing "?" is read as YAML syntax.
type FieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Default marks a constructor parameter that may be left out.
	Default bool `yaml:"default,omitempty"`

	// PassOn marks a function parameter forwarded from the caller's scope.
	PassOn bool `yaml:"pass_on,omitempty"`

	// MatchName requires the forwarded value to match by name as well as type.
	MatchName bool `yaml:"match_name,omitempty"`

	// Context marks a context collector parameter.
	Context bool `yaml:"context,omitempty"`
}

// FieldDecls is a list of FieldDecl accepting the shorthand form.
type FieldDecls []FieldDecl

// ConstantDecl declares an enum constant.
// YAML formats supported:
//   - RED
//   - {name: RED, ident: ColorRed}
type ConstantDecl struct {
	// Name is used to correlate constants across enums.
	Name string `yaml:"name"`
	// Ident is the Go identifier emitted for the constant. Defaults to Name.
	Ident string `yaml:"ident,omitempty"`
}

// FunctionDecl declares a conversion function signature.
type FunctionDecl struct {
	Name    string     `yaml:"name"`
	Params  FieldDecls `yaml:"params"`
	Returns string     `yaml:"returns"`
}

// CollectorDecl declares a context collector type.
// Hook templates support these placeholders:
//   - %X: reference to the collector
//   - %P: quoted name of the property being entered
//   - %I: index of the list item being entered
//   - %K: key of the map entry being entered
type CollectorDecl struct {
	Type string `yaml:"type"`

	BeforeProperty string `yaml:"before_property,omitempty"`
	AfterProperty  string `yaml:"after_property,omitempty"`
	BeforeListItem string `yaml:"before_list_item,omitempty"`
	AfterListItem  string `yaml:"after_list_item,omitempty"`
	BeforeMapEntry string `yaml:"before_map_entry,omitempty"`
	AfterMapEntry  string `yaml:"after_map_entry,omitempty"`

	// OnlyWhenRequired restricts hooks to contracts with requires_context set.
	OnlyWhenRequired bool `yaml:"only_when_required,omitempty"`

	// Imports lists additional import paths the hook code needs.
	Imports StringOrArray `yaml:"imports,omitempty"`
}

// MapperDecl groups contracts that are implemented together.
type MapperDecl struct {
	Name string `yaml:"name"`

	// TypeParams names the type variables contracts may use.
	TypeParams StringOrArray `yaml:"type_params,omitempty"`

	// Uses lists helper collaborators whose functions may be delegated to.
	Uses StringOrArray `yaml:"uses,omitempty"`

	// DefaultPassOn supplies values for pass-on parameters no contract provides.
	DefaultPassOn []PassOnDecl `yaml:"default_pass_on,omitempty"`

	// Functions lists hand-written conversion functions of the mapper itself.
	Functions []FunctionDecl `yaml:"functions,omitempty"`

	// Contracts lists the abstract conversion methods to synthesize.
	Contracts []ContractDecl `yaml:"contracts"`
}

// PassOnDecl declares a default pass-on value.
type PassOnDecl struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Value     string `yaml:"value"`
	MatchName bool   `yaml:"match_name,omitempty"`
}

// ContractDecl declares one conversion method.
type ContractDecl struct {
	Name string `yaml:"name"`

	// Param is the source parameter.
	Param FieldDecl `yaml:"param"`

	// Returns is the target type.
	Returns string `yaml:"returns"`

	// Context is the optional context collector parameter.
	Context *FieldDecl `yaml:"context,omitempty"`

	// PassOn lists parameters forwarded to nested conversions.
	PassOn FieldDecls `yaml:"pass_on,omitempty"`

	// RequiresContext enables hooks of collectors marked only_when_required.
	RequiresContext bool `yaml:"requires_context,omitempty"`

	// Mappings lists per-parameter overrides.
	Mappings []OverrideDecl `yaml:"mappings,omitempty"`
}

// OverrideDecl overrides how one target constructor parameter is populated.
// Exactly one of Source, Ignore, Expression should be set.
type OverrideDecl struct {
	Target     string `yaml:"target"`
	Source     string `yaml:"source,omitempty"`
	Ignore     bool   `yaml:"ignore,omitempty"`
	Expression string `yaml:"expression,omitempty"`
}

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string
