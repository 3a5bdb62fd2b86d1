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

package syntax

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// ErrorKind identifies a class of syntax error. The numeric value is the
// diagnostic code and is stable.
type ErrorKind uint32

const (
	SourceTooLong ErrorKind = 1000
	InvalidUtf8   ErrorKind = 1001

	ExpectedMessageKeyword ErrorKind = 2000
	ExpectedOpeningBracket ErrorKind = 2001
	ExpectedClosingBracket ErrorKind = 2002
	InvalidType            ErrorKind = 2003
	ExpectedProperty       ErrorKind = 2004
	InvalidIntegerValue    ErrorKind = 2005
	DuplicateMessage       ErrorKind = 2006
	DuplicateField         ErrorKind = 2007
)

func (k ErrorKind) String() string {
	switch k {
	case SourceTooLong:
		return "SOURCE_TOO_LONG"
	case InvalidUtf8:
		return "INVALID_UTF8"
	case ExpectedMessageKeyword:
		return "EXPECTED_MESSAGE_KEYWORD"
	case ExpectedOpeningBracket:
		return "EXPECTED_OPENING_BRACKET"
	case ExpectedClosingBracket:
		return "EXPECTED_CLOSING_BRACKET"
	case InvalidType:
		return "INVALID_TYPE"
	case ExpectedProperty:
		return "EXPECTED_PROPERTY"
	case InvalidIntegerValue:
		return "INVALID_INTEGER_VALUE"
	case DuplicateMessage:
		return "DUPLICATE_MESSAGE"
	case DuplicateField:
		return "DUPLICATE_FIELD"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint32(k))
	}
}

type Error struct {
	kind    ErrorKind
	message string
	token   string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.kind, err.message)
}

func (err *Error) Kind() ErrorKind {
	return err.kind
}

func (err *Error) Code() uint32 {
	return uint32(err.kind)
}

func (err *Error) Message() string {
	return err.message
}

// Token is the offending token, or "" when the error is not tied to one.
func (err *Error) Token() string {
	return err.token
}

func (err *Error) Span() Span {
	return err.span
}

// Is matches templates returned by KindError with the same kind.
func (err *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.kind == err.kind && other.message == "" && other.token == ""
}

// KindError returns a template error that matches any *Error of kind k under
// errors.Is.
func KindError(k ErrorKind) error {
	return &Error{kind: k}
}

func errSourceTooLong(srcLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		kind: SourceTooLong,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, lenUint32},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		kind:    InvalidUtf8,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errExpectedMessageKeyword(token Token) error {
	return &Error{
		kind:    ExpectedMessageKeyword,
		message: fmt.Sprintf("Expected %s, received %q", keywordMessage, token.Text),
		token:   token.Text,
		span:    token.Span,
	}
}

func errExpectedOpeningBracket(token Token) error {
	return &Error{
		kind:    ExpectedOpeningBracket,
		message: fmt.Sprintf("Expected '%s', received %q", openingBracket, token.Text),
		token:   token.Text,
		span:    token.Span,
	}
}

func errExpectedClosingBracket(srcLen uint32) error {
	return &Error{
		kind:    ExpectedClosingBracket,
		message: fmt.Sprintf("Expected '%s', reached end of input", closingBracket),
		span:    Span{srcLen, 0},
	}
}

func errInvalidType(token Token) error {
	return &Error{
		kind:    InvalidType,
		message: fmt.Sprintf("Invalid type, received %q", token.Text),
		token:   token.Text,
		span:    token.Span,
	}
}

func errExpectedProperty(token Token) error {
	return &Error{
		kind:    ExpectedProperty,
		message: fmt.Sprintf("Expected '%s' after property name, received %q", propertySeparator, token.Text),
		token:   token.Text,
		span:    token.Span,
	}
}

func errInvalidIntegerValue(token Token) error {
	return &Error{
		kind:    InvalidIntegerValue,
		message: fmt.Sprintf("Invalid integer value, received %q", token.Text),
		token:   token.Text,
		span:    token.Span,
	}
}

func errDuplicateMessage(token Token) error {
	return &Error{
		kind:    DuplicateMessage,
		message: fmt.Sprintf("Duplicate message '%s'", token.Text),
		token:   token.Text,
		span:    token.Span,
	}
}

func errDuplicateField(identifier string, token Token) error {
	return &Error{
		kind: DuplicateField,
		message: fmt.Sprintf(
			"Duplicate field '%s' in message '%s'",
			token.Text, identifier,
		),
		token: token.Text,
		span:  token.Span,
	}
}
