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

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/ilteoood/seqproto-schemify/syntax"
)

type SyntaxError struct {
	code    uint32
	message string
	pattern *regexp.Regexp
}

func (err *SyntaxError) Code() uint32 {
	return err.code
}

func (err *SyntaxError) Message() string {
	return err.message
}

func (err *SyntaxError) MessagePattern() *regexp.Regexp {
	return err.pattern
}

func LoadSyntaxErrors(testdata fs.FS) (map[string]*SyntaxError, error) {
	type syntaxError struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, "diagnostics/syntax_errors.json")
	if err != nil {
		return nil, err
	}

	var rawErrors map[string]syntaxError
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&rawErrors); err != nil {
		return nil, err
	}

	out := make(map[string]*SyntaxError, len(rawErrors))
	codes := make(map[uint32]struct{}, len(rawErrors))
	for key, raw := range rawErrors {
		if key[0] == '_' {
			if raw.Code != 0 {
				if _, conflict := codes[raw.Code]; conflict {
					return nil, fmt.Errorf("duplicate syntax error code %d", raw.Code)
				}
				codes[raw.Code] = struct{}{}
			}
			continue
		}

		if raw.Code == 0 {
			return nil, fmt.Errorf("syntax error %q has no error code", key)
		}
		if _, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("duplicate syntax error code %d", raw.Code)
		}
		codes[raw.Code] = struct{}{}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile("(?i)" + raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &SyntaxError{
			code:    raw.Code,
			message: raw.Message,
			pattern: pattern,
		}
	}

	return out, nil
}

func SpanOrDie(t *testing.T, raw interface{}) syntax.Span {
	t.Helper()
	obj, ok := raw.(map[string]interface{})
	if !ok {
		t.Fatalf("invalid span %#v", raw)
	}
	start, err := obj["start"].(json.Number).Int64()
	if err != nil {
		t.Fatalf("invalid span start %#v: %v", obj["start"], err)
	}
	spanLen, err := obj["len"].(json.Number).Int64()
	if err != nil {
		t.Fatalf("invalid span len %#v: %v", obj["len"], err)
	}
	return syntax.NewSpan(uint32(start), uint32(spanLen))
}

// DumpJSON renders a parsed schema as indented JSON for golden-file
// comparison. Spans are omitted; error tests cover them.
func DumpJSON(schema *syntax.Schema) []byte {
	var buf bytes.Buffer
	buf.WriteString("{\"messages\": [")
	for ii, msg := range schema.Messages() {
		if ii > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
		dumpMessageJSON(&buf, msg, 1)
	}
	if schema.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]}")
	return buf.Bytes()
}

func quoteJSON(s string) []byte {
	quoted, _ := json.Marshal(s)
	return quoted
}

func dumpMessageJSON(buf *bytes.Buffer, msg *syntax.Message, indent int) {
	pad := strings.Repeat("    ", indent)
	buf.WriteString(pad)
	buf.WriteString("{\"identifier\": ")
	buf.Write(quoteJSON(msg.Identifier()))
	buf.WriteString(", \"fields\": [")
	for ii, field := range msg.Fields() {
		if ii > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
		buf.WriteString(strings.Repeat("    ", indent+1))
		buf.WriteString("{\"name\": ")
		buf.Write(quoteJSON(field.Name()))
		buf.WriteString(", \"type\": ")
		buf.Write(quoteJSON(field.TypeName()))
		buf.WriteString(fmt.Sprintf(", \"ordinal\": %d", field.Ordinal()))
		buf.WriteString(", \"presence\": ")
		buf.Write(quoteJSON(field.Presence().String()))
		buf.WriteString("}")
	}
	if msg.NumFields() > 0 {
		buf.WriteString("\n")
		buf.WriteString(pad)
	}
	buf.WriteString("]}")
}
