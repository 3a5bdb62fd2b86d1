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

package compiler_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/ilteoood/seqproto-schemify/compiler"
	"github.com/ilteoood/seqproto-schemify/encoding/seqbin"
	"github.com/ilteoood/seqproto-schemify/internal/testutil"
	"github.com/ilteoood/seqproto-schemify/schema"
)

var (
	testdata     fs.FS
	schemaErrors map[string]*testutil.SchemaError
)

func init() {
	var err error
	testdata, err = testutil.TestdataFS()
	if err != nil {
		panic(err)
	}
	schemaErrors, err = testutil.LoadSchemaErrors(testdata)
	if err != nil {
		panic(err)
	}
}

func field(name string, t *schema.Type) schema.Field {
	return schema.Field{Name: name, Type: t}
}

func mustCompile(t *testing.T, typ *schema.Type, opts ...compiler.CompileOption) *compiler.Codec {
	t.Helper()
	codec, err := compiler.Compile(typ, opts...)
	testutil.AssertNoError(t, err)
	return codec
}

func roundTrip(t *testing.T, codec *compiler.Codec, value any) any {
	t.Helper()
	buf, err := codec.Marshal(value)
	testutil.AssertNoError(t, err)
	decoded, err := codec.Unmarshal(buf)
	testutil.AssertNoError(t, err)
	return decoded
}

var point = schema.Object(
	field("x", schema.Number()),
	field("y", schema.Number()),
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		typ   *schema.Type
		value any
		want  any
	}{
		{
			name:  "boolean",
			typ:   schema.Boolean(),
			value: true,
			want:  true,
		},
		{
			name:  "string",
			typ:   schema.String(),
			value: "hello, wörld",
			want:  "hello, wörld",
		},
		{
			name:  "empty string",
			typ:   schema.String(),
			value: "",
			want:  "",
		},
		{
			name:  "number",
			typ:   schema.Number(),
			value: -12.625,
			want:  -12.625,
		},
		{
			name:  "unsigned integer",
			typ:   schema.IntegerMin(0),
			value: 4000000000,
			want:  uint32(4000000000),
		},
		{
			name:  "signed integer",
			typ:   schema.IntegerMin(-10),
			value: -7,
			want:  -7.0,
		},
		{
			name: "primitives",
			typ: schema.Object(
				field("flag", schema.Boolean()),
				field("name", schema.String()),
				field("ratio", schema.Number()),
				field("count", schema.IntegerMin(0)),
			),
			value: map[string]any{"flag": false, "name": "n", "ratio": 0.5, "count": 3},
			want:  map[string]any{"flag": false, "name": "n", "ratio": 0.5, "count": uint32(3)},
		},
		{
			name: "nested objects",
			typ: schema.Object(
				field("start", point),
				field("end", point),
			),
			value: map[string]any{
				"start": map[string]any{"x": 1.0, "y": 2.0},
				"end":   map[string]any{"x": 3.0, "y": 4.0},
			},
			want: map[string]any{
				"start": map[string]any{"x": 1.0, "y": 2.0},
				"end":   map[string]any{"x": 3.0, "y": 4.0},
			},
		},
		{
			name:  "array",
			typ:   schema.Array(schema.String()),
			value: []any{"a", "b", "c"},
			want:  []any{"a", "b", "c"},
		},
		{
			name:  "empty array",
			typ:   schema.Array(schema.String()),
			value: []any{},
			want:  []any{},
		},
		{
			name: "array of objects",
			typ:  schema.Array(point),
			value: []any{
				map[string]any{"x": 1.0, "y": 2.0},
				map[string]any{"x": -1.0, "y": -2.0},
			},
			want: []any{
				map[string]any{"x": 1.0, "y": 2.0},
				map[string]any{"x": -1.0, "y": -2.0},
			},
		},
		{
			name: "object of arrays",
			typ: schema.Object(
				field("tags", schema.Array(schema.String())),
				field("scores", schema.Array(schema.IntegerMin(0))),
				field("grid", schema.Array(schema.Array(schema.Boolean()))),
			),
			value: map[string]any{
				"tags":   []string{"x"},
				"scores": []int{1, 2},
				"grid":   [][]bool{{true}, {}, {false, true}},
			},
			want: map[string]any{
				"tags":   []any{"x"},
				"scores": []any{uint32(1), uint32(2)},
				"grid":   []any{[]any{true}, []any{}, []any{false, true}},
			},
		},
		{
			name:  "empty object",
			typ:   schema.Object(),
			value: map[string]any{"ignored": 1},
			want:  map[string]any{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			codec := mustCompile(t, test.typ)
			testutil.ExpectDeepEq(t, test.want, roundTrip(t, codec, test.value))
		})
	}
}

func TestNineLevelNesting(t *testing.T) {
	typ := schema.Object(field("leaf", schema.String()))
	value := map[string]any{"leaf": "deep"}
	for ii := 8; ii > 0; ii-- {
		name := fmt.Sprintf("level%d", ii)
		typ = schema.Object(field(name, typ), field("n", schema.IntegerMin(0)))
		value = map[string]any{name: value, "n": uint32(ii)}
	}
	testutil.ExpectEq(t, 10, typ.Depth())

	codec := mustCompile(t, typ)
	testutil.ExpectDeepEq(t, value, roundTrip(t, codec, value))
}

func TestFieldOrderIsWireOrder(t *testing.T) {
	ab := mustCompile(t, schema.Object(
		field("a", schema.String()),
		field("b", schema.String()),
	))
	ba := mustCompile(t, schema.Object(
		field("b", schema.String()),
		field("a", schema.String()),
	))

	value := map[string]any{"a": "first", "b": "second"}
	buf, err := ab.Marshal(value)
	testutil.AssertNoError(t, err)

	decoded, err := ba.Unmarshal(buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectNotDeepEq(t, value, decoded)
	testutil.ExpectDeepEq(t, map[string]any{"b": "first", "a": "second"}, decoded)
}

type recordingWriter struct {
	*seqbin.Writer
	calls map[string]int
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{
		Writer: seqbin.NewWriter(),
		calls:  make(map[string]int),
	}
}

func (w *recordingWriter) WriteUInt32(value uint32) {
	w.calls["WriteUInt32"]++
	w.Writer.WriteUInt32(value)
}

func (w *recordingWriter) WriteNumber(value float64) {
	w.calls["WriteNumber"]++
	w.Writer.WriteNumber(value)
}

func TestIntegerWidth(t *testing.T) {
	tests := []struct {
		name     string
		minimum  float64
		method   string
		size     int
		expected any
	}{
		{"minimum 0", 0, "WriteUInt32", 4, uint32(1)},
		{"minimum 0.5", 0.5, "WriteUInt32", 4, uint32(1)},
		{"minimum -1", -1, "WriteNumber", 8, 1.0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			codec := mustCompile(t, schema.IntegerMin(test.minimum))

			w := newRecordingWriter()
			testutil.AssertNoError(t, codec.Encode(w, 1))
			testutil.ExpectDeepEq(t, map[string]int{test.method: 1}, w.calls)

			buf, err := w.Finalize()
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, test.size, len(buf))

			decoded, err := codec.Unmarshal(buf)
			testutil.AssertNoError(t, err)
			testutil.ExpectDeepEq(t, test.expected, decoded)
		})
	}

	codec := mustCompile(t, schema.Integer())
	w := newRecordingWriter()
	testutil.AssertNoError(t, codec.Encode(w, 1))
	testutil.ExpectEq(t, 1, w.calls["WriteNumber"])
}

func TestUnsignedIntegerWraps(t *testing.T) {
	codec := mustCompile(t, schema.IntegerMin(0))
	buf, err := codec.Marshal(-1)
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, buf)

	buf, err = codec.Marshal(2.9)
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte{2, 0, 0, 0}, buf)
}

func TestNoneWritesNothing(t *testing.T) {
	typ := schema.Object(
		field("a", schema.Boolean()),
		field("skip", schema.None()),
		field("b", schema.Boolean()),
	)
	codec := mustCompile(t, typ)

	buf, err := codec.Marshal(map[string]any{"a": true, "skip": "anything", "b": false})
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte{1, 0}, buf)

	decoded, err := codec.Unmarshal(buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, map[string]any{"a": true, "skip": nil, "b": false}, decoded)

	warnings := codec.Warnings()
	testutil.AssertTrue(t, len(warnings) == 1)
	testutil.ExpectEq(t, uint32(4100), warnings[0].Code())
	testutil.ExpectEq(t, "$.skip", warnings[0].Path())
	testutil.ExpectEq(t, "W4100: Value at '$.skip' has no wire representation and is skipped", warnings[0].String())
}

func TestWarnings_SignedInteger(t *testing.T) {
	codec := mustCompile(t, schema.Array(schema.Object(
		field("id", schema.IntegerMin(0)),
		field("delta", schema.Integer()),
	)))
	warnings := codec.Warnings()
	testutil.AssertTrue(t, len(warnings) == 1)
	testutil.ExpectEq(t, uint32(4101), warnings[0].Code())
	testutil.ExpectEq(t, "$[].delta", warnings[0].Path())
}

func TestCompileErrors(t *testing.T) {
	deep := schema.Array(schema.Array(schema.Array(schema.String())))
	_, err := compiler.Compile(deep, compiler.WithMaxDepth(3))
	testutil.AssertError(t, err)
	compileErr := err.(*compiler.Error)
	testutil.ExpectSchemaError(t, schemaErrors, "depth_exceeded", compileErr.Code(), compileErr.Message())
	testutil.ExpectEq(t, "E4000: Type nesting depth 4 exceeds maximum (3)", err.Error())

	_, err = compiler.Compile(deep, compiler.WithMaxDepth(4))
	testutil.ExpectNoError(t, err)

	_, err = compiler.Compile(nil)
	testutil.AssertError(t, err)
	compileErr = err.(*compiler.Error)
	testutil.ExpectSchemaError(t, schemaErrors, "nil_type", compileErr.Code(), compileErr.Message())
}

func TestDefaultMaxDepth(t *testing.T) {
	typ := schema.String()
	for range compiler.DefaultMaxDepth {
		typ = schema.Array(typ)
	}
	_, err := compiler.Compile(typ)
	testutil.AssertError(t, err)
	testutil.ExpectEq(t, uint32(4000), err.(*compiler.Error).Code())
}

func TestValueError(t *testing.T) {
	codec := mustCompile(t, schema.Object(
		field("points", schema.Array(point)),
	))
	_, err := codec.Marshal(map[string]any{
		"points": []any{map[string]any{"x": "one", "y": 2.0}},
	})
	testutil.AssertError(t, err)

	var valueErr *compiler.ValueError
	testutil.AssertTrue(t, errors.As(err, &valueErr))
	testutil.ExpectEq(t, "$.points[].x", valueErr.Path)
	testutil.ExpectEq(t, schema.KindNumber, valueErr.Kind)
	testutil.ExpectEq(t, "compiler: cannot encode string at '$.points[].x' as number", err.Error())
}

func TestValueError_MissingMember(t *testing.T) {
	codec := mustCompile(t, schema.Object(field("name", schema.String())))
	_, err := codec.Marshal(map[string]any{})

	var valueErr *compiler.ValueError
	testutil.AssertTrue(t, errors.As(err, &valueErr))
	testutil.ExpectEq(t, "$.name", valueErr.Path)
	testutil.ExpectTrue(t, valueErr.Value == nil)
}

type Address struct {
	City string `json:"city"`
}

type Person struct {
	Address
	Name    string   `seqproto:"name" json:"full_name"`
	Age     int      `json:"age,omitempty"`
	Tags    []string `json:"tags"`
	Manager *Person  `json:"manager"`
	Secret  string   `json:"-"`
	hidden  string
}

func TestStructValues(t *testing.T) {
	codec := mustCompile(t, schema.Object(
		field("name", schema.String()),
		field("age", schema.IntegerMin(0)),
		field("city", schema.String()),
		field("tags", schema.Array(schema.String())),
		field("manager", schema.Object(field("name", schema.String()))),
	))
	value := &Person{
		Address: Address{City: "Turin"},
		Name:    "Ada",
		Age:     36,
		Tags:    nil,
		Manager: &Person{Name: "Grace"},
		hidden:  "x",
	}
	testutil.ExpectDeepEq(t, map[string]any{
		"name":    "Ada",
		"age":     uint32(36),
		"city":    "Turin",
		"tags":    []any{},
		"manager": map[string]any{"name": "Grace"},
	}, roundTrip(t, codec, value))
}

type label string

func TestNamedAndMapValues(t *testing.T) {
	codec := mustCompile(t, schema.Object(
		field("a", schema.String()),
		field("b", schema.String()),
	))
	value := map[label]label{"a": "x", "b": "y"}
	testutil.ExpectDeepEq(t, map[string]any{"a": "x", "b": "y"}, roundTrip(t, codec, value))

	_, err := codec.Marshal(map[int]string{1: "x"})
	var valueErr *compiler.ValueError
	testutil.AssertTrue(t, errors.As(err, &valueErr))
	testutil.ExpectEq(t, "$", valueErr.Path)
}

func TestJSONNumberValues(t *testing.T) {
	codec := mustCompile(t, schema.Object(
		field("count", schema.IntegerMin(0)),
		field("ratio", schema.Number()),
	))

	var value any
	dec := json.NewDecoder(bytes.NewReader([]byte(`{"ratio": 0.25, "count": 42}`)))
	dec.UseNumber()
	testutil.AssertNoError(t, dec.Decode(&value))

	testutil.ExpectDeepEq(t, map[string]any{
		"count": uint32(42),
		"ratio": 0.25,
	}, roundTrip(t, codec, value))
}

func TestJSONNumberIsNotString(t *testing.T) {
	codec := mustCompile(t, schema.Object(field("name", schema.String())))

	var value any
	dec := json.NewDecoder(bytes.NewReader([]byte(`{"name": 12}`)))
	dec.UseNumber()
	testutil.AssertNoError(t, dec.Decode(&value))

	_, err := codec.Marshal(value)
	var valueErr *compiler.ValueError
	testutil.AssertTrue(t, errors.As(err, &valueErr))
	testutil.ExpectEq(t, "$.name", valueErr.Path)
	testutil.ExpectEq(t, schema.KindString, valueErr.Kind)
}

func TestUnmarshalErrors(t *testing.T) {
	codec := mustCompile(t, schema.Object(
		field("a", schema.Boolean()),
		field("b", schema.String()),
	))
	buf, err := codec.Marshal(map[string]any{"a": true, "b": "xyz"})
	testutil.AssertNoError(t, err)

	_, err = codec.Unmarshal(buf[:len(buf)-1])
	testutil.AssertErrorIs(t, err, seqbin.ErrUnexpectedEOF)

	_, err = codec.Unmarshal(append(buf, 0))
	testutil.AssertErrorIs(t, err, seqbin.ErrTrailingBytes)

	bad := bytes.Clone(buf)
	bad[0] = 7
	_, err = codec.Unmarshal(bad)
	testutil.AssertErrorIs(t, err, seqbin.ErrInvalidBoolean)
}

func TestUnmarshal_EmptyElementCount(t *testing.T) {
	for _, elem := range []*schema.Type{schema.Object(), schema.None()} {
		codec := mustCompile(t, schema.Array(elem))
		_, err := codec.Unmarshal([]byte{0xFF, 0xFF, 0xFF, 0x0F})
		testutil.AssertErrorIs(t, err, seqbin.ErrTooLarge)

		buf, err := codec.Marshal([]any{map[string]any{}, map[string]any{}})
		testutil.AssertNoError(t, err)
		got, err := codec.Unmarshal(buf)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, 2, len(got.([]any)))
	}
}

func TestDeterministic(t *testing.T) {
	typ := schema.Object(
		field("id", schema.IntegerMin(0)),
		field("points", schema.Array(point)),
	)
	value := map[string]any{
		"id":     9,
		"points": []any{map[string]any{"x": 1.5, "y": 2.5}},
	}
	first, err := mustCompile(t, typ).Marshal(value)
	testutil.AssertNoError(t, err)
	second, err := mustCompile(t, typ).Marshal(value)
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, first, second)
}

func TestConcurrentUse(t *testing.T) {
	codec := mustCompile(t, schema.Object(
		field("id", schema.IntegerMin(0)),
		field("name", schema.String()),
		field("points", schema.Array(point)),
	))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for ii := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value := map[string]any{
				"id":     uint32(ii),
				"name":   fmt.Sprintf("worker-%d", ii),
				"points": []any{map[string]any{"x": float64(ii), "y": -float64(ii)}},
			}
			buf, err := codec.Marshal(value)
			if err != nil {
				errs <- err
				return
			}
			decoded, err := codec.Unmarshal(buf)
			if err != nil {
				errs <- err
				return
			}
			if got := decoded.(map[string]any)["name"]; got != value["name"] {
				errs <- fmt.Errorf("worker %d decoded name %v", ii, got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

type countingRuntime struct {
	mu      sync.Mutex
	writers int
	readers int
}

func (rt *countingRuntime) runtime() compiler.Runtime {
	return compiler.Runtime{
		NewWriter: func() compiler.Writer {
			rt.mu.Lock()
			defer rt.mu.Unlock()
			rt.writers++
			return seqbin.NewWriter()
		},
		NewReader: func(buf []byte) compiler.Reader {
			rt.mu.Lock()
			defer rt.mu.Unlock()
			rt.readers++
			return seqbin.NewReader(buf)
		},
	}
}

func TestWithRuntime(t *testing.T) {
	rt := &countingRuntime{}
	codec := mustCompile(t, schema.String(), compiler.WithRuntime(rt.runtime()))

	testutil.ExpectDeepEq(t, "hi", roundTrip(t, codec, "hi"))
	testutil.ExpectEq(t, 1, rt.writers)
	testutil.ExpectEq(t, 1, rt.readers)
}

func TestCodecAccessors(t *testing.T) {
	codec := mustCompile(t, point)
	testutil.ExpectTrue(t, point.Equal(codec.Type()))

	w := seqbin.NewWriter()
	testutil.AssertNoError(t, codec.EncodeFunc()(w, map[string]any{"x": 1, "y": 2}))
	buf, err := w.Finalize()
	testutil.AssertNoError(t, err)

	r := seqbin.NewReader(buf)
	decoded, err := codec.DecodeFunc()(r)
	testutil.AssertNoError(t, err)
	testutil.ExpectDeepEq(t, map[string]any{"x": 1.0, "y": 2.0}, decoded)
	testutil.ExpectEq(t, 0, r.Remaining())
}
