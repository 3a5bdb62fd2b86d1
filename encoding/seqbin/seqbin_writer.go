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

package seqbin

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// Writer accumulates an encoded buffer. The first error is retained and
// later writes are ignored; it is reported by WriteArray and Finalize.
type Writer struct {
	buf   []byte
	err   error
	empty uint64
}

func NewWriter() *Writer {
	return &Writer{}
}

// Reset discards the buffer and any recorded error, keeping capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
	w.empty = 0
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) recordError(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) reserve(n uint64) bool {
	if w.err != nil {
		return false
	}
	if uint64(len(w.buf))+n > uint64(MaxMessageSize) {
		w.recordError(fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, MaxMessageSize))
		return false
	}
	return true
}

func (w *Writer) WriteBoolean(value bool) {
	if !w.reserve(1) {
		return
	}
	if value {
		w.buf = append(w.buf, 0x01)
	} else {
		w.buf = append(w.buf, 0x00)
	}
}

func (w *Writer) WriteUInt32(value uint32) {
	if !w.reserve(4) {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, value)
}

func (w *Writer) WriteNumber(value float64) {
	if !w.reserve(8) {
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(value))
}

func (w *Writer) WriteString(value string) {
	if w.err != nil {
		return
	}
	if !utf8.ValidString(value) {
		w.recordError(ErrInvalidUTF8)
		return
	}
	if !w.reserve(4 + uint64(len(value))) {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(value)))
	w.buf = append(w.buf, value...)
}

// WriteArray writes the element count of seq, then calls each for every
// element in order. It stops at the first error from each or the writer.
func (w *Writer) WriteArray(seq []any, each func(any) error) error {
	if w.err != nil {
		return w.err
	}
	if uint64(len(seq)) > math.MaxUint32 {
		w.recordError(fmt.Errorf("%w: %d array elements", ErrTooLarge, len(seq)))
		return w.err
	}
	w.WriteUInt32(uint32(len(seq)))
	for i, item := range seq {
		start := len(w.buf)
		if err := each(item); err != nil {
			return err
		}
		if w.err != nil {
			return w.err
		}
		if i == 0 && len(w.buf) == start {
			// Mirrors the Reader limit so every finalized buffer decodes.
			w.empty += uint64(len(seq))
			if w.empty > MaxEmptyElements {
				w.recordError(fmt.Errorf("%w: more than %d empty array elements", ErrTooLarge, MaxEmptyElements))
				return w.err
			}
		}
	}
	return w.err
}

// Finalize returns the encoded buffer. The Writer must not be used for
// further writes until Reset.
func (w *Writer) Finalize() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}
