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
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ilteoood/seqproto-schemify/schema"
)

// ValueError reports a value whose Go type cannot be written as the kind
// declared at Path.
type ValueError struct {
	Path  string
	Kind  schema.Kind
	Value any
}

func (err *ValueError) Error() string {
	return fmt.Sprintf("compiler: cannot encode %T at '%s' as %s", err.Value, err.Path, err.Kind)
}

func valueError(path string, kind schema.Kind, v any) error {
	return &ValueError{Path: path, Kind: kind, Value: v}
}

// indirect follows pointers and interfaces. It returns an invalid Value
// for nil.
func indirect(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func asBoolean(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := indirect(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if _, ok := v.(float64er); ok {
		// json.Number is string-kinded but holds a JSON number.
		return "", false
	}
	rv := indirect(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// Matches json.Number from both encoding/json and goccy/go-json.
type float64er interface {
	Float64() (float64, error)
}

type int64er interface {
	Int64() (int64, error)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case uint32:
		return float64(n), true
	case float64er:
		f, err := n.Float64()
		return f, err == nil
	}
	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}
	return 0, false
}

// asUInt32 applies Go's integer conversion rules, so out of range values
// wrap. Fractions are truncated toward zero.
func asUInt32(v any) (uint32, bool) {
	switch n := v.(type) {
	case uint32:
		return n, true
	case int:
		return uint32(n), true
	case int64er:
		if i, err := n.Int64(); err == nil {
			return uint32(i), true
		}
	}
	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint32(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uint32(rv.Uint()), true
	}
	f, ok := asNumber(v)
	if !ok {
		return 0, false
	}
	return floatToUInt32(f), true
}

func floatToUInt32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f >= math.MinInt64 && f < math.MaxInt64 {
		return uint32(int64(f))
	}
	m := math.Mod(f, 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

func asArray(v any) ([]any, bool) {
	if seq, ok := v.([]any); ok {
		return seq, true
	}
	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	seq := make([]any, rv.Len())
	for ii := range seq {
		seq[ii] = rv.Index(ii).Interface()
	}
	return seq, true
}

// object reads members of a map with string keys or of a struct.
type object interface {
	member(key string) any
}

type mapObject map[string]any

func (m mapObject) member(key string) any {
	return m[key]
}

type reflectMap struct {
	rv reflect.Value
}

func (m reflectMap) member(key string) any {
	kv := reflect.ValueOf(key).Convert(m.rv.Type().Key())
	if value := m.rv.MapIndex(kv); value.IsValid() {
		return value.Interface()
	}
	return nil
}

type structObject struct {
	rv     reflect.Value
	fields map[string][]int
}

func (s structObject) member(key string) any {
	index, ok := s.fields[key]
	if !ok {
		return nil
	}
	value, err := s.rv.FieldByIndexErr(index)
	if err != nil {
		return nil
	}
	return value.Interface()
}

func asObject(v any) (object, bool) {
	if m, ok := v.(map[string]any); ok {
		return mapObject(m), true
	}
	rv := indirect(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		return reflectMap{rv}, true
	case reflect.Struct:
		return structObject{rv, structKeys(rv.Type())}, true
	}
	return nil, false
}

var structKeyCache = xsync.NewMapOf[reflect.Type, map[string][]int]()

// structKeys maps member names to exported field indexes, including fields
// promoted from embedded structs.
func structKeys(t reflect.Type) map[string][]int {
	keys, _ := structKeyCache.LoadOrCompute(t, func() map[string][]int {
		return resolveStructKeys(t)
	})
	return keys
}

func resolveStructKeys(t reflect.Type) map[string][]int {
	keys := make(map[string][]int)
	depths := make(map[string]int)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && indirectType(sf.Type).Kind() == reflect.Struct && sf.Tag == "" {
			continue
		}
		key := structKey(sf)
		if key == "-" {
			continue
		}
		if depth, seen := depths[key]; seen && depth <= len(sf.Index) {
			continue
		}
		keys[key] = sf.Index
		depths[key] = len(sf.Index)
	}
	return keys
}

// structKey resolves a field's member name: the seqproto tag, then the
// json tag, then the Go field name. "-" excludes the field.
func structKey(sf reflect.StructField) string {
	for _, tagName := range []string{"seqproto", "json"} {
		tag, ok := sf.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		if tag == "-" {
			return "-"
		}
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return sf.Name
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
