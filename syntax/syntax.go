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
	"strconv"
	"strings"
)

const (
	keywordMessage  = "message"
	keywordRequired = "required"
	keywordOptional = "optional"

	openingBracket    = "{"
	closingBracket    = "}"
	propertySeparator = "="
)

const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

var primitiveTypes = []string{TypeString, TypeNumber, TypeBoolean}

// IsPrimitive reports whether typeName is one of the built-in field types.
func IsPrimitive(typeName string) bool {
	switch typeName {
	case TypeString, TypeNumber, TypeBoolean:
		return true
	}
	return false
}

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOption func(*ParseOptions)

func (f parseOption) apply(opts *ParseOptions) { f(opts) }

// WithDependencies makes the messages of previously parsed schemas usable as
// field types.
func WithDependencies(deps ...*Schema) ParseOption {
	return parseOption(func(opts *ParseOptions) {
		opts.deps = append(opts.deps, deps...)
	})
}

func Parse(src []uint8, opts ...ParseOption) (*Schema, error) {
	return NewParseOptions(opts...).ParseSchema(src)
}

type ParseOptions struct {
	deps []*Schema
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOptions := &ParseOptions{}
	for _, opt := range opts {
		opt.apply(parseOptions)
	}
	return parseOptions
}

func (opts *ParseOptions) ParseSchema(src []uint8) (*Schema, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	p := newParser(opts)
	var token Token
	for tokens.Next(&token) {
		if err := p.step(token); err != nil {
			return nil, err
		}
	}
	if p.state != stateBegin {
		return nil, errExpectedClosingBracket(uint32(len(src)))
	}
	return p.schema, nil
}

type state uint8

const (
	stateBegin state = iota
	stateExpectIdentifier
	stateExpectOpeningBracket
	stateExpectKeywordTypeOrClosing
	stateExpectProperty
	stateExpectSeparator
	stateExpectValue
)

func (s state) String() string {
	switch s {
	case stateBegin:
		return "Begin"
	case stateExpectIdentifier:
		return "ExpectIdentifier"
	case stateExpectOpeningBracket:
		return "ExpectOpeningBracket"
	case stateExpectKeywordTypeOrClosing:
		return "ExpectKeywordTypeOrClosing"
	case stateExpectProperty:
		return "ExpectProperty"
	case stateExpectSeparator:
		return "ExpectSeparator"
	case stateExpectValue:
		return "ExpectValue"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// symbols is the set of type names a field may use. It belongs to a single
// parse and only grows: a message becomes visible once its block closes.
type symbols struct {
	names map[string]struct{}
}

func newSymbols(deps []*Schema) *symbols {
	s := &symbols{
		names: make(map[string]struct{}, len(primitiveTypes)),
	}
	for _, name := range primitiveTypes {
		s.admit(name)
	}
	for _, dep := range deps {
		s.admitSchema(dep)
	}
	return s
}

func (s *symbols) admitSchema(schema *Schema) {
	for _, dep := range schema.deps {
		s.admitSchema(dep)
	}
	for msg := range schema.AllMessages() {
		s.admit(msg.identifier)
	}
}

func (s *symbols) admit(name string) {
	s.names[name] = struct{}{}
}

func (s *symbols) has(name string) bool {
	_, ok := s.names[name]
	return ok
}

type parser struct {
	state   state
	symbols *symbols
	schema  *Schema

	message *Message
	field   Field
}

func newParser(opts *ParseOptions) *parser {
	schema := NewSchema()
	schema.deps = append(schema.deps, opts.deps...)
	return &parser{
		state:   stateBegin,
		symbols: newSymbols(opts.deps),
		schema:  schema,
	}
}

func (p *parser) step(token Token) error {
	switch p.state {
	case stateBegin:
		if token.Text != keywordMessage {
			return errExpectedMessageKeyword(token)
		}
		p.message = &Message{
			index: make(map[string]int),
			span:  token.Span,
		}
		p.state = stateExpectIdentifier

	case stateExpectIdentifier:
		if p.symbols.has(token.Text) {
			return errDuplicateMessage(token)
		}
		p.message.identifier = token.Text
		p.state = stateExpectOpeningBracket

	case stateExpectOpeningBracket:
		if token.Text != openingBracket {
			return errExpectedOpeningBracket(token)
		}
		p.field = Field{}
		p.state = stateExpectKeywordTypeOrClosing

	case stateExpectKeywordTypeOrClosing:
		switch {
		case token.Text == closingBracket:
			p.message.span = NewSpan(
				p.message.span.Start(),
				token.Span.End()-p.message.span.Start(),
			)
			p.schema.addMessage(p.message)
			p.symbols.admit(p.message.identifier)
			p.message = nil
			p.state = stateBegin
		case token.Text == keywordRequired:
			p.field.presence = PresenceRequired
			p.field.span = p.fieldStart(token)
		case token.Text == keywordOptional:
			p.field.presence = PresenceOptional
			p.field.span = p.fieldStart(token)
		case p.symbols.has(token.Text):
			p.field.typeName = token.Text
			p.field.span = p.fieldStart(token)
			p.state = stateExpectProperty
		default:
			return errInvalidType(token)
		}

	case stateExpectProperty:
		p.field.name = token.Text
		p.state = stateExpectSeparator

	case stateExpectSeparator:
		if !strings.HasSuffix(token.Text, propertySeparator) {
			return errExpectedProperty(token)
		}
		p.state = stateExpectValue

	case stateExpectValue:
		ordinal, err := strconv.ParseUint(token.Text, 10, 64)
		if err != nil {
			return errInvalidIntegerValue(token)
		}
		field := p.field
		field.ordinal = ordinal
		field.span = NewSpan(field.span.Start(), token.Span.End()-field.span.Start())
		if !p.message.addField(&field) {
			return errDuplicateField(p.message.identifier, Token{
				Text: field.name,
				Span: field.span,
			})
		}
		p.field = Field{}
		p.state = stateExpectKeywordTypeOrClosing

	default:
		panic("unreachable")
	}
	return nil
}

// fieldStart returns where the field being aggregated begins: at its first
// modifier if it had one, else at token.
func (p *parser) fieldStart(token Token) Span {
	if p.field.span.Len() > 0 {
		return p.field.span
	}
	return token.Span
}
