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

package compiler

import (
	"github.com/ilteoood/seqproto-schemify/schema"
)

func noopDecode(Reader) (any, error) {
	return nil, nil
}

func decodeBoolean(r Reader) (any, error) {
	b, err := r.ReadBoolean()
	if err != nil {
		return nil, err
	}
	return b, nil
}

func decodeString(r Reader) (any, error) {
	s, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeNumber(r Reader) (any, error) {
	f, err := r.ReadNumber()
	if err != nil {
		return nil, err
	}
	return f, nil
}

func decodeUInt32(r Reader) (any, error) {
	u, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (c *compiler) decoder(t *schema.Type) DecodeFunc {
	switch t.Kind() {
	case schema.KindBoolean:
		return decodeBoolean
	case schema.KindString:
		return decodeString
	case schema.KindNumber:
		return decodeNumber
	case schema.KindInteger:
		if minimum, ok := t.Minimum(); ok && minimum >= 0 {
			return decodeUInt32
		}
		return decodeNumber
	case schema.KindObject:
		return c.objectDecoder(t)
	case schema.KindArray:
		elem := c.decoder(t.Elem())
		return func(r Reader) (any, error) {
			items, err := r.ReadArray(func() (any, error) {
				return elem(r)
			})
			if err != nil {
				return nil, err
			}
			if items == nil {
				items = []any{}
			}
			return items, nil
		}
	}
	return noopDecode
}

type fieldDecoder struct {
	name   string
	decode DecodeFunc
}

func (c *compiler) objectDecoder(t *schema.Type) DecodeFunc {
	fields := make([]fieldDecoder, 0, t.NumFields())
	for _, field := range t.Fields() {
		fields = append(fields, fieldDecoder{
			name:   field.Name,
			decode: c.decoder(field.Type),
		})
	}
	return func(r Reader) (any, error) {
		out := make(map[string]any, len(fields))
		for _, field := range fields {
			v, err := field.decode(r)
			if err != nil {
				return nil, err
			}
			out[field.name] = v
		}
		return out, nil
	}
}
