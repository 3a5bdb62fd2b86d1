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
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a structural schema document from YAML. It accepts the
// same keywords as ParseJSON. Duplicate mapping keys are rejected.
func ParseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("schema: empty YAML document")
	}
	return documentFromYAML(root.Content[0])
}

func documentFromYAML(node *yaml.Node) (*Document, error) {
	node = resolveAlias(node)
	doc := &Document{}
	if node.Kind != yaml.MappingNode {
		return doc, nil
	}
	err := eachYAMLPair(node, func(key string, value *yaml.Node) error {
		switch key {
		case "type":
			if value.Kind == yaml.ScalarNode && value.Tag == "!!str" {
				doc.Type = value.Value
			}
		case "minimum":
			if value.Kind != yaml.ScalarNode {
				return nil
			}
			if value.Tag != "!!int" && value.Tag != "!!float" {
				return nil
			}
			var minimum float64
			if err := value.Decode(&minimum); err != nil {
				return fmt.Errorf("schema: line %d: minimum: %w", value.Line, err)
			}
			doc.Minimum = &minimum
		case "properties":
			if value.Kind != yaml.MappingNode {
				return nil
			}
			doc.Properties = []Property{}
			return eachYAMLPair(value, func(name string, propNode *yaml.Node) error {
				propDoc, err := documentFromYAML(propNode)
				if err != nil {
					return err
				}
				doc.Properties = append(doc.Properties, Property{
					Name:   name,
					Schema: propDoc,
				})
				return nil
			})
		case "items":
			items, err := documentFromYAML(value)
			if err != nil {
				return err
			}
			doc.Items = items
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// eachYAMLPair visits the entries of a mapping node in document order.
func eachYAMLPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	node = resolveAlias(node)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for ii := 0; ii+1 < len(node.Content); ii += 2 {
		keyNode := resolveAlias(node.Content[ii])
		key := keyNode.Value
		if _, dup := seen[key]; dup {
			return fmt.Errorf(
				"schema: line %d column %d: duplicate key %q",
				keyNode.Line, keyNode.Column, key,
			)
		}
		seen[key] = struct{}{}
		if err := fn(key, resolveAlias(node.Content[ii+1])); err != nil {
			return err
		}
	}
	return nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
