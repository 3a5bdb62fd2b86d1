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
	"fmt"

	"github.com/ilteoood/seqproto-schemify/syntax"
)

type Error struct {
	code    uint32
	message string
	span    syntax.Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// Span locates the offending field in schema text, when there is one.
func (err *Error) Span() syntax.Span {
	return err.span
}

func errUnknownMessage(identifier string) error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Message '%s' not found", identifier),
	}
}

func errUnknownType(msg *syntax.Message, field *syntax.Field) error {
	return &Error{
		code: 3001,
		message: fmt.Sprintf(
			"Field '%s' of message '%s' has unknown type '%s'",
			field.Name(), msg.Identifier(), field.TypeName(),
		),
		span: field.Span(),
	}
}

func errRecursiveType(identifier string, field *syntax.Field) error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Message '%s' refers to itself through field '%s'",
			identifier, field.Name(),
		),
		span: field.Span(),
	}
}
