// Package schema parses the declarative settings schema document.
//
// The document is a YAML mapping from setting name to {type, value, size}.
// Type, value and size are opaque C++ fragments passed through to the
// generated module verbatim; the parser never interprets them.
package schema

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Fragment is an opaque C++ code fragment taken from the schema document.
// It is emitted verbatim and must never be used as an identifier.
type Fragment string

// SettingSpec is one parsed schema entry.
type SettingSpec struct {
	Name  string
	Type  Fragment
	Value Fragment
	Size  Fragment
}

// Reference reports whether the setting has pointer/array semantics.
// Reference-typed storage is itself the address registered for the setting;
// value-typed storage is registered by taking its address.
func (s SettingSpec) Reference() bool {
	return strings.Contains(string(s.Type), "*")
}

// StorageName derives the generated static storage identifier, e.g. "temp" -> "skTemp".
func (s SettingSpec) StorageName() string {
	r := []rune(s.Name)
	r[0] = unicode.ToUpper(r[0])
	return "sk" + string(r)
}

// ConstantName derives the symbolic registration key, e.g. "node_ssid" -> "SETTING_NODE_SSID".
func (s SettingSpec) ConstantName() string {
	return "SETTING_" + strings.ToUpper(s.Name)
}

// Document is the parsed schema, in input order.
type Document struct {
	Settings []SettingSpec
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads and parses the schema document at path.
func Load(logger *slog.Logger, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema document: %w", err)
	}
	doc, err := Parse(logger, data)
	if err != nil {
		return nil, fmt.Errorf("schema document %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a schema document. Entries are returned in document order and
// duplicate names (including names whose derived identifiers collide) are
// rejected, so the generated module is deterministic and free of shadowed
// storage declarations.
func Parse(logger *slog.Logger, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}

	mapping := &root
	if mapping.Kind == yaml.DocumentNode {
		if len(mapping.Content) == 0 {
			return &Document{}, nil
		}
		mapping = mapping.Content[0]
	}
	if mapping.Kind == 0 {
		// Empty document.
		return &Document{}, nil
	}
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema root must be a mapping of setting names, got %s node at line %d", kindName(mapping.Kind), mapping.Line)
	}

	doc := &Document{}
	seen := make(map[string]string)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("setting name at line %d must be a scalar", keyNode.Line)
		}
		name := keyNode.Value
		if !identifierRe.MatchString(name) {
			return nil, fmt.Errorf("setting %q (line %d): name is not a valid identifier", name, keyNode.Line)
		}

		spec, err := parseSpec(name, valNode)
		if err != nil {
			return nil, err
		}

		if prev, ok := seen[spec.ConstantName()]; ok {
			if prev == name {
				return nil, fmt.Errorf("setting %q (line %d): duplicate entry", name, keyNode.Line)
			}
			return nil, fmt.Errorf("setting %q (line %d): derived identifier collides with setting %q", name, keyNode.Line, prev)
		}
		seen[spec.ConstantName()] = name

		logger.Info("Discovered setting", "name", name)
		doc.Settings = append(doc.Settings, spec)
	}
	return doc, nil
}

func parseSpec(name string, node *yaml.Node) (SettingSpec, error) {
	if node.Kind != yaml.MappingNode {
		return SettingSpec{}, fmt.Errorf("setting %q (line %d): entry must be a mapping with type, value and size", name, node.Line)
	}

	spec := SettingSpec{Name: name}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		switch keyNode.Value {
		case "type", "value", "size":
			if valNode.Kind != yaml.ScalarNode {
				return SettingSpec{}, fmt.Errorf("setting %q (line %d): %q must be a scalar", name, valNode.Line, keyNode.Value)
			}
		default:
			continue
		}
		switch keyNode.Value {
		case "type":
			spec.Type = Fragment(valNode.Value)
		case "value":
			spec.Value = Fragment(valNode.Value)
		case "size":
			spec.Size = Fragment(valNode.Value)
		}
	}

	for _, f := range []struct {
		field string
		got   Fragment
	}{
		{"type", spec.Type},
		{"value", spec.Value},
		{"size", spec.Size},
	} {
		if f.got == "" {
			return SettingSpec{}, fmt.Errorf("setting %q (line %d): missing %q field", name, node.Line, f.field)
		}
	}
	return spec, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
