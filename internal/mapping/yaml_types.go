package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// --- FieldDecls YAML methods ---

// UnmarshalYAML implements yaml.Unmarshaler for FieldDecls.
// Each item is either a full declaration with a "name" key or a
// single-entry map {name: type}.
func (f *FieldDecls) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of fields, got %v", node.Line, node.Kind)
	}

	result := make(FieldDecls, 0, len(node.Content))

	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: expected a field mapping", item.Line)
		}

		if hasKey(item, "name") {
			var fd FieldDecl
			if err := item.Decode(&fd); err != nil {
				return err
			}

			result = append(result, fd)

			continue
		}

		if len(item.Content) != 2 {
			return fmt.Errorf("line %d: invalid field, expected {name: type} or {name: ..., type: ...}", item.Line)
		}

		key, value := item.Content[0], item.Content[1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: invalid type for %s, expected string", value.Line, key.Value)
		}

		result = append(result, FieldDecl{Name: key.Value, Type: value.Value})
	}

	*f = result

	return nil
}

// --- ConstantDecl YAML methods ---

// UnmarshalYAML implements yaml.Unmarshaler for ConstantDecl.
func (c *ConstantDecl) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = ConstantDecl{Name: node.Value}
		return nil

	case yaml.MappingNode:
		type plain ConstantDecl

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*c = ConstantDecl(p)

		return nil

	default:
		return errors.New("expected string or map for constant")
	}
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}

	return false
}
