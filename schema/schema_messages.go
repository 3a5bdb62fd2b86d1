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
	"github.com/ilteoood/seqproto-schemify/syntax"
)

// FromMessage builds the object type of the message named identifier.
// Fields typed string, number or boolean map to the matching primitives and
// fields typed by another message map to that message's object type.
// Messages of dependency schemas are visible through [syntax.Schema.Lookup].
func FromMessage(s *syntax.Schema, identifier string) (*Type, error) {
	msg, ok := s.Lookup(identifier)
	if !ok {
		return nil, errUnknownMessage(identifier)
	}
	r := &resolver{
		schema:   s,
		resolved: make(map[*syntax.Message]*Type),
		visiting: make(map[*syntax.Message]bool),
	}
	return r.message(msg)
}

type resolver struct {
	schema   *syntax.Schema
	resolved map[*syntax.Message]*Type
	visiting map[*syntax.Message]bool
}

func (r *resolver) message(msg *syntax.Message) (*Type, error) {
	if t, ok := r.resolved[msg]; ok {
		return t, nil
	}
	r.visiting[msg] = true
	defer delete(r.visiting, msg)

	fields := make([]Field, 0, msg.NumFields())
	for _, field := range msg.Fields() {
		t, err := r.fieldType(msg, field)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: field.Name(), Type: t})
	}
	t := Object(fields...)
	r.resolved[msg] = t
	return t, nil
}

func (r *resolver) fieldType(msg *syntax.Message, field *syntax.Field) (*Type, error) {
	switch field.TypeName() {
	case syntax.TypeString:
		return String(), nil
	case syntax.TypeNumber:
		return Number(), nil
	case syntax.TypeBoolean:
		return Boolean(), nil
	}
	ref, ok := r.schema.Lookup(field.TypeName())
	if !ok {
		return nil, errUnknownType(msg, field)
	}
	if r.visiting[ref] {
		return nil, errRecursiveType(ref.Identifier(), field)
	}
	return r.message(ref)
}
