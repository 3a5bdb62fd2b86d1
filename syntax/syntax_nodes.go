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
	"iter"
	"slices"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

func (s Span) String() string {
	return fmt.Sprintf("%d+%d", s.start, s.len)
}

// Presence is the modifier written before a field's type. It is recorded for
// tooling and has no effect on encoding.
type Presence uint8

const (
	PresenceNone Presence = iota
	PresenceRequired
	PresenceOptional
)

func (p Presence) String() string {
	switch p {
	case PresenceNone:
		return "none"
	case PresenceRequired:
		return "required"
	case PresenceOptional:
		return "optional"
	default:
		return fmt.Sprintf("Presence(%d)", uint8(p))
	}
}

// Keyword returns the schema text for p, or "" for PresenceNone.
func (p Presence) Keyword() string {
	switch p {
	case PresenceRequired:
		return keywordRequired
	case PresenceOptional:
		return keywordOptional
	}
	return ""
}

type Field struct {
	name     string
	typeName string
	ordinal  uint64
	presence Presence
	span     Span
}

func NewField(name, typeName string, ordinal uint64, presence Presence) *Field {
	return &Field{
		name:     name,
		typeName: typeName,
		ordinal:  ordinal,
		presence: presence,
	}
}

func (f *Field) Name() string {
	return f.name
}

// TypeName is either a primitive keyword or the identifier of a message
// declared earlier in the same parse session.
func (f *Field) TypeName() string {
	return f.typeName
}

// Ordinal is the integer after '='. It is not written to the wire.
func (f *Field) Ordinal() uint64 {
	return f.ordinal
}

func (f *Field) Presence() Presence {
	return f.presence
}

func (f *Field) Span() Span {
	return f.span
}

type Message struct {
	identifier string
	fields     []*Field
	index      map[string]int
	span       Span
}

func NewMessage(identifier string, fields ...*Field) *Message {
	msg := &Message{
		identifier: identifier,
		index:      make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		msg.addField(field)
	}
	return msg
}

func (m *Message) addField(field *Field) bool {
	if _, dup := m.index[field.name]; dup {
		return false
	}
	m.index[field.name] = len(m.fields)
	m.fields = append(m.fields, field)
	return true
}

func (m *Message) Identifier() string {
	return m.identifier
}

// Fields returns the message's fields in declaration order, which is also
// their wire order.
func (m *Message) Fields() []*Field {
	return slices.Clone(m.fields)
}

func (m *Message) NumFields() int {
	return len(m.fields)
}

func (m *Message) Field(name string) (*Field, bool) {
	idx, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.fields[idx], true
}

func (m *Message) Span() Span {
	return m.span
}

type Schema struct {
	messages []*Message
	index    map[string]int
	deps     []*Schema
}

func NewSchema(messages ...*Message) *Schema {
	s := &Schema{
		index: make(map[string]int, len(messages)),
	}
	for _, msg := range messages {
		s.addMessage(msg)
	}
	return s
}

func (s *Schema) addMessage(msg *Message) {
	s.index[msg.identifier] = len(s.messages)
	s.messages = append(s.messages, msg)
}

// Messages returns the messages declared in this schema, in source order.
// Messages of dependencies are not included.
func (s *Schema) Messages() []*Message {
	return slices.Clone(s.messages)
}

func (s *Schema) AllMessages() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for _, msg := range s.messages {
			if !yield(msg) {
				return
			}
		}
	}
}

func (s *Schema) Len() int {
	return len(s.messages)
}

// Message looks up a message declared in this schema.
func (s *Schema) Message(identifier string) (*Message, bool) {
	idx, ok := s.index[identifier]
	if !ok {
		return nil, false
	}
	return s.messages[idx], true
}

// Lookup resolves identifier against this schema and then its dependencies,
// most recently added first.
func (s *Schema) Lookup(identifier string) (*Message, bool) {
	if msg, ok := s.Message(identifier); ok {
		return msg, true
	}
	for _, dep := range slices.Backward(s.deps) {
		if msg, ok := dep.Lookup(identifier); ok {
			return msg, true
		}
	}
	return nil, false
}

func (s *Schema) Dependencies() []*Schema {
	return slices.Clone(s.deps)
}

// Last returns the final message in source order, if any.
func (s *Schema) Last() (*Message, bool) {
	if len(s.messages) == 0 {
		return nil, false
	}
	return s.messages[len(s.messages)-1], true
}
