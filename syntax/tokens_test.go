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

package syntax_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/ilteoood/seqproto-schemify/internal/testutil"
	"github.com/ilteoood/seqproto-schemify/syntax"
)

type spanToken struct {
	text  string
	start uint32
	len   uint32
}

func tokensTest(t *testing.T, testName string) {
	t.Parallel()

	testsPath := fmt.Sprintf("tokens/%s.json", testName)
	t.Logf("reading test cases from %q", "testdata/"+testsPath)

	testsJSON, err := fs.ReadFile(testdata, testsPath)
	testutil.AssertNoError(t, err)

	tests := make(map[string][]map[string]interface{})
	decoder := json.NewDecoder(bytes.NewReader(testsJSON))
	decoder.UseNumber()
	testutil.AssertNoError(t, decoder.Decode(&tests))

	for ii, test := range tests["expect_ok"] {
		src := test["source"].(string)
		tokensIfaces := test["tokens"].([]interface{})
		tokens := make([]spanToken, 0, len(tokensIfaces))
		for _, iface := range tokensIfaces {
			raw := iface.([]interface{})
			start, _ := raw[1].(json.Number).Int64()
			tokenLen, _ := raw[2].(json.Number).Int64()
			tokens = append(tokens, spanToken{
				text:  raw[0].(string),
				start: uint32(start),
				len:   uint32(tokenLen),
			})
		}
		t.Run(fmt.Sprintf("expect_ok/%d", ii), func(t *testing.T) {
			testTokensOK(t, src, tokens)
		})
	}
}

func testTokensOK(t *testing.T, src string, expect []spanToken) {
	got, err := syntax.Tokenize([]byte(src))
	testutil.AssertNoError(t, err)

	var gotTokens []spanToken
	for _, token := range got {
		gotTokens = append(gotTokens, spanToken{
			text:  token.Text,
			start: token.Span.Start(),
			len:   token.Span.Len(),
		})
	}
	testutil.ExpectSliceEq(t, expect, gotTokens)
}

func TestTokens(t *testing.T) {
	t.Parallel()

	testFiles, err := fs.ReadDir(testdata, "tokens")
	testutil.AssertNoError(t, err)

	for _, testFile := range testFiles {
		testName, ok := strings.CutSuffix(testFile.Name(), ".json")
		if !ok {
			continue
		}
		t.Run(testName, func(t *testing.T) {
			tokensTest(t, testName)
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	t.Parallel()

	tokens, err := syntax.NewTokens([]byte("message Foo { }"))
	testutil.AssertNoError(t, err)

	collect := func() []string {
		var out []string
		for token := range tokens.All() {
			out = append(out, token.Text)
		}
		return out
	}
	first := collect()
	testutil.ExpectSliceEq(t, []string{"message", "Foo", "{", "}"}, first)
	testutil.ExpectSliceEq(t, first, collect())

	var token syntax.Token
	tokens.Reset()
	testutil.AssertTrue(t, tokens.Next(&token))
	testutil.ExpectEq(t, "message", token.Text)
}
