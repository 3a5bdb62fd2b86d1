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

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/ilteoood/seqproto-schemify/schema"
)

type cmdEncode struct {
	schema   schemaFlags
	outPath  string
	compress bool
}

func (*cmdEncode) help() *commandHelp {
	return &commandHelp{
		usage:   "encode SCHEMA VALUE",
		summary: "Encode a JSON value to the binary format",
		minArgs: 2,
	}
}

func (cmd *cmdEncode) flags(flags *pflag.FlagSet) {
	cmd.schema.register(flags)
	flags.StringVarP(&cmd.outPath, "output", "o", "", "Write to this file instead of stdout")
	flags.BoolVarP(&cmd.compress, "compress", "z", false, "Compress the output with brotli")
}

func (cmd *cmdEncode) run(ctx context.Context, argv []string) int {
	codec, err := cmd.schema.compile(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	valuePath := argv[1]
	valueJSON, err := readInput(valuePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var value any
	dec := json.NewDecoder(bytes.NewReader(valueJSON))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", valuePath, err)
		return 1
	}

	output, err := codec.Marshal(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", valuePath, err)
		return 1
	}
	slog.Debug("encoded value", "bytes", len(output))
	if cmd.compress {
		encodedLen := len(output)
		if output, err = compress(output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		slog.Debug("compressed", "bytes", len(output), "uncompressed", encodedLen)
	}

	if err := writeOutput(cmd.outPath, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

type cmdDecode struct {
	schema   schemaFlags
	outPath  string
	compress bool
}

func (*cmdDecode) help() *commandHelp {
	return &commandHelp{
		usage:   "decode SCHEMA INPUT",
		summary: "Decode the binary format to JSON",
		minArgs: 2,
	}
}

func (cmd *cmdDecode) flags(flags *pflag.FlagSet) {
	cmd.schema.register(flags)
	flags.StringVarP(&cmd.outPath, "output", "o", "", "Write to this file instead of stdout")
	flags.BoolVarP(&cmd.compress, "compress", "z", false, "Input is compressed with brotli")
}

func (cmd *cmdDecode) run(ctx context.Context, argv []string) int {
	codec, err := cmd.schema.compile(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	inPath := argv[1]
	input, err := readInput(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cmd.compress {
		if input, err = decompress(input); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inPath, err)
			return 1
		}
	}
	slog.Debug("decoding", "path", inPath, "bytes", len(input))

	value, err := codec.Unmarshal(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inPath, err)
		return 1
	}

	var compact bytes.Buffer
	if err := appendValueJSON(&compact, codec.Type(), value); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var output bytes.Buffer
	if err := json.Indent(&output, compact.Bytes(), "", "  "); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	output.WriteByte('\n')

	if err := writeOutput(cmd.outPath, output.Bytes()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// appendValueJSON writes a decoded value as JSON with object members in
// wire order.
func appendValueJSON(buf *bytes.Buffer, t *schema.Type, v any) error {
	switch t.Kind() {
	case schema.KindObject:
		members, ok := v.(map[string]any)
		if !ok {
			break
		}
		buf.WriteByte('{')
		for ii := range t.NumFields() {
			field := t.Field(ii)
			if ii > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, field.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendValueJSON(buf, field.Type, members[field.Name]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case schema.KindArray:
		items, ok := v.([]any)
		if !ok {
			break
		}
		buf.WriteByte('[')
		for ii, item := range items {
			if ii > 0 {
				buf.WriteByte(',')
			}
			if err := appendValueJSON(buf, t.Elem(), item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	return appendJSON(buf, v)
}

func appendJSON(buf *bytes.Buffer, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
