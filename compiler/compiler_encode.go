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

const rootPath = "$"

func noopEncode(Writer, any) error {
	return nil
}

func (c *compiler) encoder(t *schema.Type, path string) EncodeFunc {
	switch t.Kind() {
	case schema.KindBoolean:
		return func(w Writer, v any) error {
			b, ok := asBoolean(v)
			if !ok {
				return valueError(path, schema.KindBoolean, v)
			}
			w.WriteBoolean(b)
			return nil
		}
	case schema.KindString:
		return func(w Writer, v any) error {
			s, ok := asString(v)
			if !ok {
				return valueError(path, schema.KindString, v)
			}
			w.WriteString(s)
			return nil
		}
	case schema.KindNumber:
		return encodeNumber(path, schema.KindNumber)
	case schema.KindInteger:
		if minimum, ok := t.Minimum(); ok && minimum >= 0 {
			return func(w Writer, v any) error {
				u, ok := asUInt32(v)
				if !ok {
					return valueError(path, schema.KindInteger, v)
				}
				w.WriteUInt32(u)
				return nil
			}
		}
		c.warn(warnSignedInteger(path))
		return encodeNumber(path, schema.KindInteger)
	case schema.KindObject:
		return c.objectEncoder(t, path)
	case schema.KindArray:
		elem := c.encoder(t.Elem(), path+"[]")
		return func(w Writer, v any) error {
			seq, ok := asArray(v)
			if !ok {
				return valueError(path, schema.KindArray, v)
			}
			return w.WriteArray(seq, func(item any) error {
				return elem(w, item)
			})
		}
	}
	c.warn(warnNoWireRepresentation(path))
	return noopEncode
}

func encodeNumber(path string, kind schema.Kind) EncodeFunc {
	return func(w Writer, v any) error {
		f, ok := asNumber(v)
		if !ok {
			return valueError(path, kind, v)
		}
		w.WriteNumber(f)
		return nil
	}
}

type fieldEncoder struct {
	name   string
	encode EncodeFunc
}

// Members are looked up by name and written in declared order. A missing
// member is passed to the field's encoder as nil.
func (c *compiler) objectEncoder(t *schema.Type, path string) EncodeFunc {
	fields := make([]fieldEncoder, 0, t.NumFields())
	for _, field := range t.Fields() {
		fields = append(fields, fieldEncoder{
			name:   field.Name,
			encode: c.encoder(field.Type, path+"."+field.Name),
		})
	}
	return func(w Writer, v any) error {
		obj, ok := asObject(v)
		if !ok {
			return valueError(path, schema.KindObject, v)
		}
		for _, field := range fields {
			if err := field.encode(w, obj.member(field.name)); err != nil {
				return err
			}
		}
		return nil
	}
}
