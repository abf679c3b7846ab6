package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ReservedProperties are the names of feature fields, which cannot be used
// as property names.
var ReservedProperties = []string{"status", "priority", "description"}

// Properties is an ordered mapping from property name to one or more string
// values. A property with a single value is stored as a YAML scalar and one
// with several values as a YAML sequence.
//
// The zero value is an empty set of properties ready to use.
type Properties struct {
	keys   []string
	values map[string][]string
}

// NewProperties creates an empty set of properties.
func NewProperties() *Properties {
	return &Properties{}
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Names returns the property names in insertion order.
func (p *Properties) Names() []string {
	return slices.Clone(p.keys)
}

// Has reports whether the property is set.
func (p *Properties) Has(name string) bool {
	_, ok := p.values[norm.NFC.String(name)]
	return ok
}

// Values returns the values of a property, or nil if it is not set.
func (p *Properties) Values(name string) []string {
	return slices.Clone(p.values[norm.NFC.String(name)])
}

// Get returns the values of a property joined with ", ", or "" if it is
// not set.
func (p *Properties) Get(name string) string {
	return strings.Join(p.values[norm.NFC.String(name)], ", ")
}

// Set replaces the values of a property. Setting no values deletes it.
func (p *Properties) Set(name string, values ...string) error {
	name, err := checkPropertyName(name)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		p.Delete(name)
		return nil
	}
	p.put(name, slices.Clone(values))
	return nil
}

// Append adds a value to a property. A property with one value becomes a
// list.
func (p *Properties) Append(name, value string) error {
	name, err := checkPropertyName(name)
	if err != nil {
		return err
	}
	p.put(name, append(p.values[name], value))
	return nil
}

// Remove deletes one value of a property. A property left with a single
// value becomes a scalar again, and a property that had only one value is
// deleted whatever that value was.
func (p *Properties) Remove(name, value string) {
	name = norm.NFC.String(name)
	values, ok := p.values[name]
	if !ok {
		return
	}
	if len(values) == 1 {
		p.Delete(name)
		return
	}
	if i := slices.Index(values, value); i >= 0 {
		p.values[name] = slices.Delete(values, i, i+1)
	}
}

// Delete removes a property.
func (p *Properties) Delete(name string) {
	name = norm.NFC.String(name)
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == name })
}

// Clone returns a deep copy.
func (p *Properties) Clone() *Properties {
	c := &Properties{}
	for _, k := range p.keys {
		c.put(k, slices.Clone(p.values[k]))
	}
	return c
}

// Validate checks every name against the reserved property names.
func (p *Properties) Validate() error {
	for _, k := range p.keys {
		if _, err := checkPropertyName(k); err != nil {
			return err
		}
	}
	return nil
}

func (p *Properties) put(name string, values []string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = values
}

func checkPropertyName(name string) (string, error) {
	name = norm.NFC.String(name)
	if name == "" {
		return "", NewUserError(CodeInvalidName, "property name must not be empty")
	}
	if slices.Contains(ReservedProperties, name) {
		return "", NewUserError(CodeReservedProperty, "cannot set property %q: it is a reserved name", name)
	}
	return name, nil
}

// MarshalYAML encodes the properties as a mapping in insertion order.
func (p *Properties) MarshalYAML() (any, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range p.keys {
		var key, value yaml.Node
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		vs := p.values[k]
		var v any = vs
		if len(vs) == 1 {
			v = vs[0]
		}
		if err := value.Encode(v); err != nil {
			return nil, err
		}
		m.Content = append(m.Content, &key, &value)
	}
	return m, nil
}

// UnmarshalYAML decodes a mapping of scalars and sequences of scalars,
// keeping the document's key order.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	*p = Properties{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		value := node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			var s string
			if err := value.Decode(&s); err != nil {
				return err
			}
			p.put(norm.NFC.String(key), []string{s})
		case yaml.SequenceNode:
			var list []string
			if err := value.Decode(&list); err != nil {
				return fmt.Errorf("line %d: property %q: %w", value.Line, key, err)
			}
			if len(list) > 0 {
				p.put(norm.NFC.String(key), list)
			}
		default:
			return fmt.Errorf("line %d: property %q must be a string or a list of strings", value.Line, key)
		}
	}
	return nil
}

// MarshalJSON encodes the properties as an object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vs := p.values[k]
		var v any = vs
		if len(vs) == 1 {
			v = vs[0]
		}
		value, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
