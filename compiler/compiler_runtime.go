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
	"github.com/ilteoood/seqproto-schemify/encoding/seqbin"
)

// Writer is the buffer capability that compiled encoders write to. Write
// methods record failures internally; they are reported by WriteArray and
// Finalize.
type Writer interface {
	WriteBoolean(value bool)
	WriteString(value string)
	WriteNumber(value float64)
	WriteUInt32(value uint32)

	// WriteArray frames seq and calls each for every element in order.
	WriteArray(seq []any, each func(any) error) error

	Finalize() ([]byte, error)
}

// Reader is the buffer capability that compiled decoders read from.
type Reader interface {
	ReadBoolean() (bool, error)
	ReadString() (string, error)
	ReadNumber() (float64, error)
	ReadUInt32() (uint32, error)
	ReadArray(each func() (any, error)) ([]any, error)
}

// A Reader that also implements Finisher is checked for unread input at the
// end of [Codec.Unmarshal].
type Finisher interface {
	Finish() error
}

type EncodeFunc func(w Writer, v any) error

type DecodeFunc func(r Reader) (any, error)

// Runtime constructs the buffers used by [Codec.Marshal] and
// [Codec.Unmarshal].
type Runtime struct {
	NewWriter func() Writer
	NewReader func(buf []byte) Reader
}

var (
	_ Writer   = (*seqbin.Writer)(nil)
	_ Reader   = (*seqbin.Reader)(nil)
	_ Finisher = (*seqbin.Reader)(nil)
)

// DefaultRuntime returns the [seqbin] runtime.
func DefaultRuntime() Runtime {
	return Runtime{
		NewWriter: func() Writer {
			return seqbin.NewWriter()
		},
		NewReader: func(buf []byte) Reader {
			return seqbin.NewReader(buf)
		},
	}
}
