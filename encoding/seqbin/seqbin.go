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

// Package seqbin implements the default binary runtime for compiled codecs.
//
// Values are written back to back with no tags or field numbers:
//
//	boolean  1 byte, 0x00 or 0x01
//	uint32   4 bytes, little-endian
//	number   8 bytes, IEEE-754 binary64, little-endian
//	string   uint32 byte length, then UTF-8 bytes
//	array    uint32 element count, then the elements
//
// Decoding therefore requires the same schema that produced the buffer.
package seqbin

import (
	"errors"
)

// MaxMessageSize bounds the size of an encoded buffer.
const MaxMessageSize uint32 = 0x7FF00000

// MaxEmptyElements bounds the total number of array elements in one buffer
// whose encoding is empty, such as None items or objects without fields.
// Their count cannot be checked against the bytes that remain.
const MaxEmptyElements = 1 << 20

var (
	ErrUnexpectedEOF  = errors.New("seqbin: unexpected end of buffer")
	ErrInvalidBoolean = errors.New("seqbin: invalid boolean")
	ErrInvalidUTF8    = errors.New("seqbin: invalid UTF-8 string")
	ErrTooLarge       = errors.New("seqbin: message too large")
	ErrTrailingBytes  = errors.New("seqbin: trailing bytes after value")
)
