package mapping

import (
	"fmt"

	"contract-mapper/internal/diagnostic"
)

// SupportedVersion is the only mapper schema version understood.
const SupportedVersion = "1"

// Validate checks the file-level structure of a mapper file: names,
// uniqueness and required fields. Problems local to one contract (overrides,
// type syntax) are reported per contract by Extract instead.
func Validate(mf *MapperFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapper_file_is_nil", "mapper file is nil", "", "")
		return res
	}

	if mf.Version != SupportedVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", mf.Version), "", "")
	}

	if !isValidIdent(mf.Package) {
		res.AddError("invalid_package", fmt.Sprintf("invalid package name %q", mf.Package), "", "")
	}

	seenTypes := map[string]struct{}{}

	for i := range mf.Types {
		name := mf.Types[i].Name
		if name == "" {
			res.AddError("type_name_missing", fmt.Sprintf("type #%d has no name", i+1), "", "")
			continue
		}

		if _, ok := seenTypes[name]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("duplicate type %q", name), "", name)
		}

		seenTypes[name] = struct{}{}
	}

	seenCollectors := map[string]struct{}{}

	for i := range mf.Collectors {
		typ := mf.Collectors[i].Type
		if typ == "" {
			res.AddError("collector_type_missing", fmt.Sprintf("context collector #%d has no type", i+1), "", "")
			continue
		}

		if _, ok := seenCollectors[typ]; ok {
			res.AddError("duplicate_collector", fmt.Sprintf("duplicate context collector %q", typ), "", typ)
		}

		seenCollectors[typ] = struct{}{}
	}

	seenMappers := map[string]struct{}{}

	for i := range mf.Mappers {
		md := &mf.Mappers[i]
		if !isValidIdent(md.Name) {
			res.AddError("invalid_mapper_name", fmt.Sprintf("mapper #%d has invalid name %q", i+1, md.Name), "", "")
			continue
		}

		if _, ok := seenMappers[md.Name]; ok {
			res.AddError("duplicate_mapper", fmt.Sprintf("duplicate mapper %q", md.Name), md.Name, "")
		}

		seenMappers[md.Name] = struct{}{}

		validateMapper(res, md)
	}

	return res
}

func validateMapper(res *diagnostic.Diagnostics, md *MapperDecl) {
	// Go methods cannot be overloaded, so names are unique per mapper.
	seen := map[string]struct{}{}

	for i := range md.Functions {
		seen[md.Functions[i].Name] = struct{}{}
	}

	for i := range md.Contracts {
		cd := &md.Contracts[i]

		if !isValidIdent(cd.Name) {
			res.AddError("invalid_contract_name",
				fmt.Sprintf("contract #%d has invalid name %q", i+1, cd.Name), md.Name, "")

			continue
		}

		if _, ok := seen[cd.Name]; ok {
			res.AddError("duplicate_contract",
				fmt.Sprintf("method %q is declared more than once", cd.Name), md.Name, cd.Name)
		}

		seen[cd.Name] = struct{}{}

		if cd.Param.Type == "" {
			res.AddError("contract_param_missing",
				fmt.Sprintf("contract %q has no source parameter type", cd.Name), md.Name, cd.Name)
		}

		if cd.Returns == "" {
			res.AddError("contract_returns_missing",
				fmt.Sprintf("contract %q has no return type", cd.Name), md.Name, cd.Name)
		}
	}

	for i := range md.DefaultPassOn {
		d := &md.DefaultPassOn[i]
		if d.Name == "" || d.Type == "" || d.Value == "" {
			res.AddError("invalid_default_pass_on",
				fmt.Sprintf("default pass-on #%d needs name, type and value", i+1), md.Name, d.Name)
		}
	}
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
