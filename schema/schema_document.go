// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package schema

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document is the structural form of a schema, as found in JSON or YAML
// schema files. Only the keywords the compiler reads are retained. Property
// order is preserved because it determines wire order.
type Document struct {
	Type       string
	Properties []Property
	Items      *Document
	Minimum    *float64
}

type Property struct {
	Name   string
	Schema *Document
}

var (
	_ json.Marshaler   = (*Document)(nil)
	_ json.Unmarshaler = (*Document)(nil)
	_ yaml.Marshaler   = (*Document)(nil)
	_ yaml.Unmarshaler = (*Document)(nil)
)

// FromDocument builds the type tree described by doc. Unrecognized types
// become None, an array without items has None elements, and an object
// without properties has no fields.
func FromDocument(doc *Document) *Type {
	if doc == nil {
		return None()
	}
	switch doc.Type {
	case "boolean":
		return Boolean()
	case "string":
		return String()
	case "number":
		return Number()
	case "integer":
		if doc.Minimum != nil {
			return IntegerMin(*doc.Minimum)
		}
		return Integer()
	case "object":
		fields := make([]Field, 0, len(doc.Properties))
		for _, prop := range doc.Properties {
			fields = append(fields, Field{
				Name: prop.Name,
				Type: FromDocument(prop.Schema),
			})
		}
		return Object(fields...)
	case "array":
		return Array(FromDocument(doc.Items))
	}
	return None()
}

// ToDocument is the inverse of FromDocument.
func ToDocument(t *Type) *Document {
	switch t.Kind() {
	case KindInteger:
		doc := &Document{Type: "integer"}
		if minimum, ok := t.Minimum(); ok {
			doc.Minimum = &minimum
		}
		return doc
	case KindObject:
		doc := &Document{
			Type:       "object",
			Properties: make([]Property, 0, t.NumFields()),
		}
		for _, field := range t.fields {
			doc.Properties = append(doc.Properties, Property{
				Name:   field.Name,
				Schema: ToDocument(field.Type),
			})
		}
		return doc
	case KindArray:
		return &Document{
			Type:  "array",
			Items: ToDocument(t.Elem()),
		}
	case KindNone:
		return &Document{}
	}
	return &Document{Type: t.Kind().String()}
}

func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// MarshalJSON writes the document with its properties in declared order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) appendJSON(buf *bytes.Buffer) error {
	if d == nil {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	sep := false
	member := func(key string) {
		if sep {
			buf.WriteByte(',')
		}
		sep = true
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
	}

	if d.Type != "" {
		member("type")
		if err := appendJSONValue(buf, d.Type); err != nil {
			return err
		}
	}
	if d.Minimum != nil {
		member("minimum")
		if err := appendJSONValue(buf, *d.Minimum); err != nil {
			return err
		}
	}
	if d.Properties != nil {
		member("properties")
		buf.WriteByte('{')
		for ii, prop := range d.Properties {
			if ii > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSONValue(buf, prop.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := prop.Schema.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	if d.Items != nil {
		member("items")
		if err := d.Items.appendJSON(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendJSONValue(buf *bytes.Buffer, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	buf.Write(encoded)
	return nil
}

func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	doc, err := documentFromYAML(node)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// MarshalYAML returns a mapping node with properties in declared order.
func (d *Document) MarshalYAML() (any, error) {
	return d.yamlNode(), nil
}

func (d *Document) yamlNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if d == nil {
		return node
	}
	if d.Type != "" {
		node.Content = append(node.Content, yamlString("type"), yamlString(d.Type))
	}
	if d.Minimum != nil {
		node.Content = append(node.Content, yamlString("minimum"), yamlNumber(*d.Minimum))
	}
	if d.Properties != nil {
		props := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, prop := range d.Properties {
			props.Content = append(props.Content, yamlString(prop.Name), prop.Schema.yamlNode())
		}
		node.Content = append(node.Content, yamlString("properties"), props)
	}
	if d.Items != nil {
		node.Content = append(node.Content, yamlString("items"), d.Items.yamlNode())
	}
	return node
}

func yamlString(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func yamlNumber(value float64) *yaml.Node {
	if value == math.Trunc(value) && !math.IsInf(value, 0) {
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: strconv.FormatFloat(value, 'f', -1, 64),
		}
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: strconv.FormatFloat(value, 'g', -1, 64),
	}
}
