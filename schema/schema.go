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

// Package schema defines the type tree that the codec compiler consumes, and
// converts structural schema documents and parsed messages into it.
package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Kind uint8

const (
	// KindNone is produced for types the loaders do not recognize. It
	// compiles to a procedure that reads and writes nothing.
	KindNone Kind = iota
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type is a node of an immutable, acyclic type tree.
type Type struct {
	kind       Kind
	minimum    float64
	hasMinimum bool
	fields     []Field
	elem       *Type
}

// Field is a named member of an object type. The position of a field in its
// object is its position on the wire.
type Field struct {
	Name string
	Type *Type
}

var (
	noneType    = &Type{kind: KindNone}
	booleanType = &Type{kind: KindBoolean}
	integerType = &Type{kind: KindInteger}
	numberType  = &Type{kind: KindNumber}
	stringType  = &Type{kind: KindString}
)

func None() *Type    { return noneType }
func Boolean() *Type { return booleanType }
func Integer() *Type { return integerType }
func Number() *Type  { return numberType }
func String() *Type  { return stringType }

// IntegerMin returns an integer type with a declared minimum.
func IntegerMin(minimum float64) *Type {
	return &Type{
		kind:       KindInteger,
		minimum:    minimum,
		hasMinimum: true,
	}
}

func Object(fields ...Field) *Type {
	owned := make([]Field, len(fields))
	for ii, field := range fields {
		if field.Type == nil {
			field.Type = noneType
		}
		owned[ii] = field
	}
	return &Type{
		kind:   KindObject,
		fields: owned,
	}
}

func Array(elem *Type) *Type {
	if elem == nil {
		elem = noneType
	}
	return &Type{
		kind: KindArray,
		elem: elem,
	}
}

func (t *Type) Kind() Kind {
	return t.kind
}

func (t *Type) Minimum() (float64, bool) {
	return t.minimum, t.hasMinimum
}

func (t *Type) Fields() []Field {
	return slices.Clone(t.fields)
}

func (t *Type) NumFields() int {
	return len(t.fields)
}

func (t *Type) Field(ii int) Field {
	return t.fields[ii]
}

// Elem returns the element type of an array, or nil for other kinds.
func (t *Type) Elem() *Type {
	return t.elem
}

// Depth is the number of nodes on the longest path from t to a leaf.
func (t *Type) Depth() int {
	switch t.kind {
	case KindObject:
		depth := 0
		for _, field := range t.fields {
			depth = max(depth, field.Type.Depth())
		}
		return depth + 1
	case KindArray:
		return t.elem.Depth() + 1
	default:
		return 1
	}
}

func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindInteger:
		if t.hasMinimum != other.hasMinimum {
			return false
		}
		return !t.hasMinimum || t.minimum == other.minimum
	case KindObject:
		return slices.EqualFunc(t.fields, other.fields, func(a, b Field) bool {
			return a.Name == b.Name && a.Type.Equal(b.Type)
		})
	case KindArray:
		return t.elem.Equal(other.elem)
	}
	return true
}

func (t *Type) String() string {
	var buf strings.Builder
	t.format(&buf)
	return buf.String()
}

func (t *Type) format(buf *strings.Builder) {
	switch t.kind {
	case KindInteger:
		buf.WriteString("integer")
		if t.hasMinimum {
			buf.WriteString("(minimum=")
			buf.WriteString(strconv.FormatFloat(t.minimum, 'g', -1, 64))
			buf.WriteString(")")
		}
	case KindObject:
		buf.WriteString("{")
		for ii, field := range t.fields {
			if ii > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(strconv.Quote(field.Name))
			buf.WriteString(": ")
			field.Type.format(buf)
		}
		buf.WriteString("}")
	case KindArray:
		buf.WriteString("[")
		t.elem.format(buf)
		buf.WriteString("]")
	default:
		buf.WriteString(t.kind.String())
	}
}
