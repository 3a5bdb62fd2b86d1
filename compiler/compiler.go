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

// Package compiler turns a [schema.Type] into a pair of encode and decode
// procedures.
//
// The procedures are closures built once per type. They hold no mutable
// state, so a [Codec] may be used from many goroutines as long as each call
// has its own [Writer] or [Reader].
package compiler

import (
	"github.com/ilteoood/seqproto-schemify/schema"
)

// DefaultMaxDepth bounds the nesting depth of compiled types.
const DefaultMaxDepth = 128

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	runtime  Runtime
	maxDepth int
}

// WithRuntime replaces the buffers used by Marshal and Unmarshal. Encode and
// Decode accept any Writer or Reader regardless of this option.
func WithRuntime(runtime Runtime) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.runtime = runtime
	})
}

func WithMaxDepth(maxDepth int) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.maxDepth = maxDepth
	})
}

func Compile(t *schema.Type, opts ...CompileOption) (*Codec, error) {
	return NewCompileOptions(opts...).Compile(t)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{
		runtime:  DefaultRuntime(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(t *schema.Type) (*Codec, error) {
	if t == nil {
		return nil, errNilType()
	}
	if depth := t.Depth(); depth > opts.maxDepth {
		return nil, errDepthExceeded(depth, opts.maxDepth)
	}
	c := &compiler{}
	return &Codec{
		typ:      t,
		encode:   c.encoder(t, rootPath),
		decode:   c.decoder(t),
		runtime:  opts.runtime,
		warnings: c.warnings,
	}, nil
}

type compiler struct {
	warnings []*Warning
}

func (c *compiler) warn(w *Warning) {
	c.warnings = append(c.warnings, w)
}

// Codec is the compiled form of a type.
type Codec struct {
	typ      *schema.Type
	encode   EncodeFunc
	decode   DecodeFunc
	runtime  Runtime
	warnings []*Warning
}

func (c *Codec) Type() *schema.Type {
	return c.typ
}

// Warnings describes parts of the type that compile to less than the
// schema suggests, such as fields with no wire representation.
func (c *Codec) Warnings() []*Warning {
	return c.warnings
}

func (c *Codec) EncodeFunc() EncodeFunc {
	return c.encode
}

func (c *Codec) DecodeFunc() DecodeFunc {
	return c.decode
}

func (c *Codec) Encode(w Writer, v any) error {
	return c.encode(w, v)
}

func (c *Codec) Decode(r Reader) (any, error) {
	return c.decode(r)
}

// Marshal encodes v into a new buffer from the codec's runtime.
func (c *Codec) Marshal(v any) ([]byte, error) {
	w := c.runtime.NewWriter()
	if err := c.encode(w, v); err != nil {
		return nil, err
	}
	return w.Finalize()
}

// Unmarshal decodes one value from buf. If the runtime's Reader implements
// [Finisher], bytes left after the value are an error.
func (c *Codec) Unmarshal(buf []byte) (any, error) {
	r := c.runtime.NewReader(buf)
	v, err := c.decode(r)
	if err != nil {
		return nil, err
	}
	if finisher, ok := r.(Finisher); ok {
		if err := finisher.Finish(); err != nil {
			return nil, err
		}
	}
	return v, nil
}
