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

// Package seqproto compiles schemas into binary codecs.
//
// A schema is either schema text:
//
//	message Point { number x = 1 number y = 2 }
//
// or a structural document in JSON or YAML using the type, properties,
// items and minimum keywords. Both forms produce a [schema.Type], which
// [compiler.Compile] turns into an encode and decode procedure pair.
package seqproto

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ilteoood/seqproto-schemify/compiler"
	"github.com/ilteoood/seqproto-schemify/schema"
	"github.com/ilteoood/seqproto-schemify/syntax"
)

var ErrNoMessages = errors.New("seqproto: schema declares no messages")

// TextType parses schema text and returns the type of the message named
// message, or of the last declared message if message is empty.
func TextType(src []byte, message string, deps ...*syntax.Schema) (*schema.Type, error) {
	parsed, err := syntax.Parse(src, syntax.WithDependencies(deps...))
	if err != nil {
		return nil, err
	}
	return MessageType(parsed, message)
}

// MessageType resolves message in a parsed schema, defaulting to the last
// declared message.
func MessageType(parsed *syntax.Schema, message string) (*schema.Type, error) {
	if message == "" {
		last, ok := parsed.Last()
		if !ok {
			return nil, ErrNoMessages
		}
		message = last.Identifier()
	}
	return schema.FromMessage(parsed, message)
}

// DocumentType reads a structural document. The format is chosen by the
// extension of name: ".yaml" and ".yml" are YAML, anything else is JSON.
func DocumentType(name string, data []byte) (*schema.Type, error) {
	var (
		doc *schema.Document
		err error
	)
	if IsYAML(name) {
		doc, err = schema.ParseYAML(data)
	} else {
		doc, err = schema.ParseJSON(data)
	}
	if err != nil {
		return nil, err
	}
	return schema.FromDocument(doc), nil
}

// IsDocument reports whether a schema file named name holds a structural
// document rather than schema text.
func IsDocument(name string) bool {
	return IsYAML(name) || strings.EqualFold(filepath.Ext(name), ".json")
}

func IsYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadType reads the schema held in a file named name. Message selection
// and dependencies apply only to schema text.
func LoadType(name string, data []byte, message string, deps ...*syntax.Schema) (*schema.Type, error) {
	if !IsDocument(name) {
		return TextType(data, message, deps...)
	}
	if message != "" {
		return nil, fmt.Errorf("seqproto: %s: message selection requires schema text", name)
	}
	return DocumentType(name, data)
}

// CompileText parses schema text and compiles one of its messages, chosen as
// in [TextType].
func CompileText(src []byte, message string, opts ...compiler.CompileOption) (*compiler.Codec, error) {
	t, err := TextType(src, message)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(t, opts...)
}

func CompileJSON(data []byte, opts ...compiler.CompileOption) (*compiler.Codec, error) {
	doc, err := schema.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(schema.FromDocument(doc), opts...)
}

func CompileYAML(data []byte, opts ...compiler.CompileOption) (*compiler.Codec, error) {
	doc, err := schema.ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(schema.FromDocument(doc), opts...)
}

// DecodeAs decodes buf and stores the result in a value of type T, matching
// object members to struct fields the way encoding/json does.
func DecodeAs[T any](codec *compiler.Codec, buf []byte) (T, error) {
	var out T
	decoded, err := codec.Unmarshal(buf)
	if err != nil {
		return out, err
	}
	intermediate, err := json.Marshal(decoded)
	if err != nil {
		return out, fmt.Errorf("seqproto: %w", err)
	}
	if err := json.Unmarshal(intermediate, &out); err != nil {
		return out, fmt.Errorf("seqproto: decode as %T: %w", out, err)
	}
	return out, nil
}
