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

package schema_test

import (
	"testing"

	"github.com/ilteoood/seqproto-schemify/internal/testutil"
	"github.com/ilteoood/seqproto-schemify/schema"
	"github.com/ilteoood/seqproto-schemify/syntax"
)

func loadSchemaErrors(t *testing.T) map[string]*testutil.SchemaError {
	t.Helper()
	schemaErrors, err := testutil.LoadSchemaErrors(testdata)
	testutil.AssertNoError(t, err)
	return schemaErrors
}

func TestFromMessage(t *testing.T) {
	src := []byte("message Point { number x = 1 number y = 2 } " +
		"message Path { string name = 1 Point start = 2 Point end = 3 boolean closed = 4 }")
	parsed, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)

	got, err := schema.FromMessage(parsed, "Path")
	testutil.AssertNoError(t, err)

	point := schema.Object(
		schema.Field{Name: "x", Type: schema.Number()},
		schema.Field{Name: "y", Type: schema.Number()},
	)
	want := schema.Object(
		schema.Field{Name: "name", Type: schema.String()},
		schema.Field{Name: "start", Type: point},
		schema.Field{Name: "end", Type: point},
		schema.Field{Name: "closed", Type: schema.Boolean()},
	)
	testutil.ExpectTrue(t, want.Equal(got))
	testutil.ExpectEq(t, `{"name": string, "start": {"x": number, "y": number}, "end": {"x": number, "y": number}, "closed": boolean}`, got.String())
}

func TestFromMessage_Empty(t *testing.T) {
	parsed, err := syntax.Parse([]byte("message Empty { }"))
	testutil.AssertNoError(t, err)

	got, err := schema.FromMessage(parsed, "Empty")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, schema.KindObject, got.Kind())
	testutil.ExpectEq(t, 0, got.NumFields())
}

func TestFromMessage_Dependencies(t *testing.T) {
	base, err := syntax.Parse([]byte("message Id { number value = 1 }"))
	testutil.AssertNoError(t, err)
	parsed, err := syntax.Parse(
		[]byte("message User { Id id = 1 string name = 2 }"),
		syntax.WithDependencies(base),
	)
	testutil.AssertNoError(t, err)

	got, err := schema.FromMessage(parsed, "User")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, `{"id": {"value": number}, "name": string}`, got.String())

	// Dependency messages are reachable by name as well.
	id, err := schema.FromMessage(parsed, "Id")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, `{"value": number}`, id.String())
}

func TestFromMessage_UnknownMessage(t *testing.T) {
	parsed, err := syntax.Parse([]byte("message A { string a = 1 }"))
	testutil.AssertNoError(t, err)

	_, err = schema.FromMessage(parsed, "B")
	testutil.AssertError(t, err)
	schemaErr := err.(*schema.Error)
	testutil.ExpectSchemaError(t, loadSchemaErrors(t), "unknown_message", schemaErr.Code(), schemaErr.Message())
	testutil.ExpectEq(t, "E3000: Message 'B' not found", err.Error())
}

// Descriptors assembled by hand bypass the parser's symbol table.
func TestFromMessage_UnknownType(t *testing.T) {
	s := syntax.NewSchema(syntax.NewMessage("A",
		syntax.NewField("a", "Missing", 1, syntax.PresenceNone),
	))

	_, err := schema.FromMessage(s, "A")
	testutil.AssertError(t, err)
	schemaErr := err.(*schema.Error)
	testutil.ExpectSchemaError(t, loadSchemaErrors(t), "unknown_type", schemaErr.Code(), schemaErr.Message())
	testutil.ExpectEq(t, "Field 'a' of message 'A' has unknown type 'Missing'", schemaErr.Message())
}

func TestFromMessage_RecursiveType(t *testing.T) {
	tests := []struct {
		name       string
		schema     *syntax.Schema
		identifier string
		message    string
	}{
		{
			"self",
			syntax.NewSchema(syntax.NewMessage("Node",
				syntax.NewField("value", syntax.TypeNumber, 1, syntax.PresenceNone),
				syntax.NewField("next", "Node", 2, syntax.PresenceOptional),
			)),
			"Node",
			"Message 'Node' refers to itself through field 'next'",
		},
		{
			"mutual",
			syntax.NewSchema(
				syntax.NewMessage("A", syntax.NewField("b", "B", 1, syntax.PresenceNone)),
				syntax.NewMessage("B", syntax.NewField("a", "A", 1, syntax.PresenceNone)),
			),
			"A",
			"Message 'A' refers to itself through field 'a'",
		},
	}
	schemaErrors := loadSchemaErrors(t)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := schema.FromMessage(test.schema, test.identifier)
			testutil.AssertError(t, err)
			schemaErr := err.(*schema.Error)
			testutil.ExpectSchemaError(t, schemaErrors, "recursive_type", schemaErr.Code(), schemaErr.Message())
			testutil.ExpectEq(t, test.message, schemaErr.Message())
		})
	}
}
