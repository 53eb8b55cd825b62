package analyze

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ParseTypeRef parses mapper-file type syntax: "Name", "Name?",
// "List<pkg/path.Name>", "Map<String, List<Int?>>?".
// Names listed in typeVars are marked KindTypeVar.
func ParseTypeRef(s string, typeVars ...string) (TypeRef, error) {
	if strings.TrimSpace(s) == "" {
		return TypeRef{}, errors.New("empty type")
	}

	p := &refParser{src: s, typeVars: typeVars}

	ref, err := p.parse()
	if err != nil {
		return TypeRef{}, fmt.Errorf("invalid type %q: %w", s, err)
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return TypeRef{}, fmt.Errorf("invalid type %q: unexpected %q at %d", s, p.src[p.pos:], p.pos)
	}

	return ref, nil
}

// MustParseTypeRef is ParseTypeRef for literals known to be valid.
func MustParseTypeRef(s string, typeVars ...string) TypeRef {
	ref, err := ParseTypeRef(s, typeVars...)
	if err != nil {
		panic(err)
	}

	return ref
}

type refParser struct {
	src      string
	pos      int
	typeVars []string
}

func (p *refParser) parse() (TypeRef, error) {
	p.skipSpace()

	name := p.name()
	if name == "" {
		return TypeRef{}, fmt.Errorf("expected a type name at %d", p.pos)
	}

	ref := TypeRef{Name: name}

	for _, tv := range p.typeVars {
		if tv == name {
			ref.Kind = KindTypeVar
		}
	}

	p.skipSpace()

	if p.peek() == '<' {
		p.pos++

		for {
			arg, err := p.parse()
			if err != nil {
				return TypeRef{}, err
			}

			ref.Args = append(ref.Args, arg)

			p.skipSpace()

			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return TypeRef{}, fmt.Errorf("expected ',' or '>' at %d", p.pos)
			}

			break
		}

		if ref.Kind == KindTypeVar {
			return TypeRef{}, fmt.Errorf("type variable %s cannot take arguments", name)
		}
	}

	p.skipSpace()

	if p.peek() == '?' {
		p.pos++
		ref.Nullable = true
	}

	return ref, nil
}

func (p *refParser) name() string {
	start := p.pos

	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if !isNameRune(r) {
			break
		}

		p.pos++
	}

	name := p.src[start:p.pos]
	if name == "" || !unicode.IsLetter(rune(name[0])) && name[0] != '_' {
		return ""
	}

	return name
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '/' || r == '-'
}
