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
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ParseJSON reads a structural schema document from JSON. Keywords other
// than type, properties, items and minimum are skipped. Duplicate keys
// within one object are rejected.
func ParseJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &jsonParser{dec: dec}

	tok, err := p.token()
	if err != nil {
		return nil, err
	}
	doc, err := p.document(tok, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, fmt.Errorf("schema: %w", err)
	}
	return doc, nil
}

type jsonParser struct {
	dec *json.Decoder
}

func (p *jsonParser) token() (json.Token, error) {
	tok, err := p.dec.Token()
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return tok, nil
}

// document reads the value starting at tok. Values that are not objects
// describe no type.
func (p *jsonParser) document(tok json.Token, path string) (*Document, error) {
	if tok != json.Delim('{') {
		return &Document{}, p.skip(tok)
	}

	doc := &Document{}
	seen := make(map[string]struct{})
	for {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		if tok == json.Delim('}') {
			return doc, nil
		}
		key, _ := tok.(string)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("schema: duplicate key %q at %q", key, pointer(path))
		}
		seen[key] = struct{}{}

		value, err := p.token()
		if err != nil {
			return nil, err
		}
		switch key {
		case "type":
			if s, ok := value.(string); ok {
				doc.Type = s
			} else if err := p.skip(value); err != nil {
				return nil, err
			}
		case "minimum":
			if n, ok := value.(json.Number); ok {
				minimum, err := n.Float64()
				if err != nil {
					return nil, fmt.Errorf("schema: minimum at %q: %w", pointer(path), err)
				}
				doc.Minimum = &minimum
			} else if err := p.skip(value); err != nil {
				return nil, err
			}
		case "properties":
			props, err := p.properties(value, path+"/properties")
			if err != nil {
				return nil, err
			}
			doc.Properties = props
		case "items":
			items, err := p.document(value, path+"/items")
			if err != nil {
				return nil, err
			}
			doc.Items = items
		default:
			if err := p.skip(value); err != nil {
				return nil, err
			}
		}
	}
}

func (p *jsonParser) properties(tok json.Token, path string) ([]Property, error) {
	if tok != json.Delim('{') {
		return nil, p.skip(tok)
	}
	props := []Property{}
	seen := make(map[string]struct{})
	for {
		tok, err := p.token()
		if err != nil {
			return nil, err
		}
		if tok == json.Delim('}') {
			return props, nil
		}
		name, _ := tok.(string)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("schema: duplicate key %q at %q", name, path)
		}
		seen[name] = struct{}{}

		value, err := p.token()
		if err != nil {
			return nil, err
		}
		propDoc, err := p.document(value, path+"/"+name)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Name: name, Schema: propDoc})
	}
}

// skip consumes the remainder of a value whose first token is tok.
func (p *jsonParser) skip(tok json.Token) error {
	depth := 0
	for {
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
		if depth == 0 {
			return nil
		}
		var err error
		if tok, err = p.token(); err != nil {
			return err
		}
	}
}

// pointer renders a JSON Pointer, where the empty path is the root.
func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
