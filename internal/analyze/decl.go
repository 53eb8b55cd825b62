package analyze

// Decl is a complete declaration of a named type.
type Decl struct {
	Name string
	Kind Kind
	// Members are the readable properties, in declaration order.
	Members []Member
	// Constructor lists the designated constructor's parameters in order.
	Constructor    []Param
	HasConstructor bool
	// Constants holds enum constants in declaration order.
	Constants []Constant
	// Functions holds the conversion functions an interface or mapper exposes.
	Functions []Function
	// GeneratedBy names the mapper whose output completes this declaration.
	GeneratedBy string
}

// Member is a readable property.
type Member struct {
	Name string
	Type TypeRef
}

// Param is a constructor or function parameter.
type Param struct {
	Name string
	Type TypeRef
	// HasDefault marks constructor parameters that may be left out.
	HasDefault bool
	// PassOn marks a parameter forwarded from the caller's scope.
	PassOn bool
	// MatchName requires a pass-on provider to also match by name.
	MatchName bool
	// Context marks a context collector parameter.
	Context bool
}

// IsExtra reports whether the parameter is threaded from scope rather than converted.
func (p Param) IsExtra() bool {
	return p.PassOn || p.Context
}

// Constant is an enum constant. Name is used for correlation, Ident for emission.
type Constant struct {
	Name  string
	Ident string
}

// Function is a conversion function signature.
type Function struct {
	Name    string
	Params  []Param
	Returns TypeRef
	// Abstract marks functions the generator implements (mapper contracts).
	Abstract bool
}

// Subject returns the single non-extra parameter, if the function is unary.
func (f *Function) Subject() (Param, bool) {
	var (
		subject Param
		count   int
	)

	for _, p := range f.Params {
		if p.IsExtra() {
			continue
		}

		subject = p
		count++
	}

	return subject, count == 1
}

// Extras returns the parameters threaded from scope, in order.
func (f *Function) Extras() []Param {
	var extras []Param

	for _, p := range f.Params {
		if p.IsExtra() {
			extras = append(extras, p)
		}
	}

	return extras
}

// Member returns the member with the given name.
func (d *Decl) Member(name string) (Member, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}

// MemberNames returns member names in declaration order.
func (d *Decl) MemberNames() []string {
	names := make([]string, 0, len(d.Members))
	for _, m := range d.Members {
		names = append(names, m.Name)
	}

	return names
}

// ConstructorParam returns the constructor parameter with the given name.
func (d *Decl) ConstructorParam(name string) (Param, bool) {
	for _, p := range d.Constructor {
		if p.Name == name {
			return p, true
		}
	}

	return Param{}, false
}

// Constant returns the enum constant with the given name.
func (d *Decl) Constant(name string) (Constant, bool) {
	for _, c := range d.Constants {
		if c.Name == name {
			return c, true
		}
	}

	return Constant{}, false
}
