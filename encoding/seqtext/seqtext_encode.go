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

// Package seqtext writes parsed schemas back out as schema text.
package seqtext

import (
	"fmt"
	"io"
	"strings"

	"github.com/ilteoood/seqproto-schemify/syntax"
)

// The lexer strips newlines instead of splitting on them, so every line
// ends with a space to keep its last token apart from the next line's first.
const (
	lineEnd = " \n"
	indent  = "    "
)

// Encode formats the messages declared in schema. Messages of dependency
// schemas are not included.
func Encode(schema *syntax.Schema) string {
	var buf strings.Builder
	EncodeTo(schema, &buf)
	return buf.String()
}

func EncodeTo(schema *syntax.Schema, w io.Writer) error {
	e := encoder{w: w}
	for ii, msg := range schema.Messages() {
		if e.err != nil {
			break
		}
		if ii > 0 {
			e.line("")
		}
		e.visitMessage(msg)
	}
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if s != "" {
		if prefix := strings.Repeat(indent, e.indent); prefix != "" {
			if _, err := io.WriteString(e.w, prefix); err != nil {
				e.err = err
				return
			}
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, lineEnd); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) visitMessage(msg *syntax.Message) {
	e.linef("message %s {", msg.Identifier())
	e.indent += 1
	for _, field := range msg.Fields() {
		e.visitField(field)
	}
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitField(field *syntax.Field) {
	decl := fmt.Sprintf("%s %s = %d", field.TypeName(), field.Name(), field.Ordinal())
	if keyword := field.Presence().Keyword(); keyword != "" {
		decl = keyword + " " + decl
	}
	e.line(decl)
}
