package annotations

import (
	"bytes"

	"github.com/toyz/docanno/internal/errors"
)

// Doc is the raw doc comment of a type or property. An empty Text means the
// target has no comment.
type Doc struct {
	Text string
	Loc  SourceLocation
}

// Property is a declared property of a type together with its doc comment
type Property struct {
	Name string
	Doc  Doc
}

// Source looks up raw doc comments. Unknown targets are reported by the
// source; the parser never produces lookup errors itself.
type Source interface {
	TypeDoc(typeName string) (Doc, error)
	Properties(typeName string) ([]Property, error)
}

// PropertyEntry pairs a property name with its parsed annotations
type PropertyEntry struct {
	Name        string
	Annotations *Annotations
}

// PropertySet holds the parsed annotations of a type's properties in
// declaration order.
type PropertySet []PropertyEntry

// Get returns the annotations of the named property
func (s PropertySet) Get(name string) (*Annotations, bool) {
	for _, prop := range s {
		if prop.Name == name {
			return prop.Annotations, true
		}
	}
	return nil, false
}

// Names returns the property names in declaration order
func (s PropertySet) Names() []string {
	names := make([]string, len(s))
	for i, prop := range s {
		names[i] = prop.Name
	}
	return names
}

// Map returns the set keyed by property name
func (s PropertySet) Map() map[string]*Annotations {
	m := make(map[string]*Annotations, len(s))
	for _, prop := range s {
		m[prop.Name] = prop.Annotations
	}
	return m
}

// MarshalJSON encodes the set as an object in declaration order
func (s PropertySet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range s {
		if err := writeMember(&buf, i, prop.Name, prop.Annotations); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ClassAnnotations parses the doc comment of a type with the legacy options
func ClassAnnotations(src Source, typeName string) (*Annotations, error) {
	return defaultParser.ClassAnnotations(src, typeName)
}

// PropertyAnnotations parses the doc comments of a type's properties with
// the legacy options. An empty propertyName selects every property.
func PropertyAnnotations(src Source, typeName, propertyName string) (PropertySet, error) {
	return defaultParser.PropertyAnnotations(src, typeName, propertyName)
}

// ClassAnnotations parses the doc comment of a type
func (p *Parser) ClassAnnotations(src Source, typeName string) (*Annotations, error) {
	doc, err := src.TypeDoc(typeName)
	if err != nil {
		return nil, err
	}
	return p.ParseAt(doc.Text, doc.Loc)
}

// PropertyAnnotations parses the doc comments of a type's properties. An
// empty propertyName selects every property; a name the type does not
// declare yields an empty set. In strict mode the syntax errors of all
// properties are reported together, alongside the set of the properties
// that parsed cleanly.
func (p *Parser) PropertyAnnotations(src Source, typeName, propertyName string) (PropertySet, error) {
	props, err := src.Properties(typeName)
	if err != nil {
		return nil, err
	}

	errs := errors.NewMultipleErrors()
	set := make(PropertySet, 0, len(props))
	for _, prop := range props {
		if propertyName != "" && prop.Name != propertyName {
			continue
		}

		parsed, err := p.ParseAt(prop.Doc.Text, prop.Doc.Loc)
		if err != nil {
			if !errs.Merge(err) {
				return nil, err
			}
			continue
		}

		set = append(set, PropertyEntry{Name: prop.Name, Annotations: parsed})
	}

	return set, errs.ErrOrNil()
}
