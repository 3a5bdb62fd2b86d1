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
	"iter"
	"strings"
	"unicode/utf8"
)

const (
	maxSrcLen = 0x7FFFFFFF // (2**31)-1

	tokenSeparator = ' '
)

type Token struct {
	Text string
	Span Span
}

// Tokens splits schema source on single spaces. Line breaks (CR, LF, CRLF)
// are removed before splitting, so they join the bytes on either side of them
// rather than separating tokens.
type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{
		src: src,
	}, nil
}

// Next stores the next non-empty token in token. It returns false once the
// source is exhausted.
func (t *Tokens) Next(token *Token) bool {
	var text strings.Builder
	start := t.offset
	end := t.offset
	for int(t.offset) < len(t.src) {
		c := t.src[t.offset]
		t.offset++
		switch c {
		case '\r', '\n':
			if text.Len() == 0 {
				start = t.offset
			}
			continue
		case tokenSeparator:
			if text.Len() > 0 {
				*token = Token{
					Text: text.String(),
					Span: Span{start, end - start},
				}
				return true
			}
			start = t.offset
			end = t.offset
			continue
		}
		text.WriteByte(c)
		end = t.offset
	}
	if text.Len() > 0 {
		*token = Token{
			Text: text.String(),
			Span: Span{start, end - start},
		}
		return true
	}
	return false
}

// Reset rewinds to the start of the source.
func (t *Tokens) Reset() {
	t.offset = 0
}

func (t *Tokens) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		t.Reset()
		var token Token
		for t.Next(&token) {
			if !yield(token) {
				return
			}
		}
	}
}

// Tokenize returns every token of src in order.
func Tokenize(src []byte) ([]Token, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	var out []Token
	for token := range tokens.All() {
		out = append(out, token)
	}
	return out, nil
}
