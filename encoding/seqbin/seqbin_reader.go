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

// Reader consumes an encoded buffer from the front. After the first error
// every read returns that error.
type Reader struct {
	buf   []byte
	off   int
	err   error
	empty uint64
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) Offset() int {
	return r.off
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = fmt.Errorf("%w (offset %d)", err, r.off)
	}
	return r.err
}

func (r *Reader) next(n int) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if n > r.Remaining() {
		return nil, r.fail(ErrUnexpectedEOF)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadBoolean() (bool, error) {
	b, err := r.next(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	}
	r.off--
	return false, r.fail(ErrInvalidBoolean)
}

func (r *Reader) ReadUInt32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadNumber() (float64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUInt32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return "", r.fail(ErrUnexpectedEOF)
	}
	b, err := r.next(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		r.off -= len(b)
		return "", r.fail(ErrInvalidUTF8)
	}
	return string(b), nil
}

// ReadArray reads an element count, then calls each that many times. The
// result is never nil.
//
// The width of the first element decides how the count is checked: elements
// of one type either all encode to zero bytes or all need at least one.
func (r *Reader) ReadArray(each func() (any, error)) ([]any, error) {
	n, err := r.ReadUInt32()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, min(int(n), r.Remaining()))
	for i := range n {
		start := r.off
		item, err := each()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		if i == 0 {
			if err := r.checkCount(n, r.off-start); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (r *Reader) checkCount(n uint32, width int) error {
	if width > 0 {
		if uint64(n-1) > uint64(r.Remaining()) {
			return r.fail(ErrUnexpectedEOF)
		}
		return nil
	}
	r.empty += uint64(n)
	if r.empty > MaxEmptyElements {
		return r.fail(fmt.Errorf("%w: more than %d empty array elements", ErrTooLarge, MaxEmptyElements))
	}
	return nil
}

// Finish reports an error if a read failed or if bytes remain unread.
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if n := r.Remaining(); n > 0 {
		return r.fail(fmt.Errorf("%w: %d bytes", ErrTrailingBytes, n))
	}
	return nil
}
