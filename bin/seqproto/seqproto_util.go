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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/spf13/pflag"

	seqproto "github.com/ilteoood/seqproto-schemify"
	"github.com/ilteoood/seqproto-schemify/compiler"
	"github.com/ilteoood/seqproto-schemify/schema"
	"github.com/ilteoood/seqproto-schemify/syntax"
)

// schemaFlags selects the type to compile from a schema file.
type schemaFlags struct {
	message string
	deps    []string
}

func (sf *schemaFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&sf.message, "message", "m", "", "Message to compile (default: last message in the schema)")
	flags.StringArrayVarP(&sf.deps, "dependency", "d", nil, "Schema text whose messages may be referenced (repeatable, in order)")
}

// parseDeps parses dependency files in order, each able to reference the
// messages of those before it.
func (sf *schemaFlags) parseDeps() ([]*syntax.Schema, error) {
	var deps []*syntax.Schema
	for _, depPath := range sf.deps {
		src, err := readInput(depPath)
		if err != nil {
			return nil, err
		}
		dep, err := syntax.Parse(src, syntax.WithDependencies(deps...))
		if err != nil {
			return nil, locateError(depPath, src, err)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func (sf *schemaFlags) loadType(schemaPath string) (*schema.Type, error) {
	deps, err := sf.parseDeps()
	if err != nil {
		return nil, err
	}
	src, err := readInput(schemaPath)
	if err != nil {
		return nil, err
	}
	t, err := seqproto.LoadType(schemaPath, src, sf.message, deps...)
	if err != nil {
		return nil, locateError(schemaPath, src, err)
	}
	return t, nil
}

func (sf *schemaFlags) compile(schemaPath string) (*compiler.Codec, error) {
	t, err := sf.loadType(schemaPath)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	codec, err := compiler.Compile(t)
	if err != nil {
		return nil, err
	}
	slog.Debug("compiled schema",
		"path", schemaPath,
		"message", sf.message,
		"depth", t.Depth(),
		"elapsed", time.Since(start),
	)
	for _, warn := range codec.Warnings() {
		fmt.Fprintf(os.Stderr, "%s: %v\n", schemaPath, warn)
	}
	return codec, nil
}

type spanError interface {
	error
	Span() syntax.Span
}

// locateError prefixes diagnostics that carry a source span with the path,
// line and column they refer to.
func locateError(path string, src []byte, err error) error {
	var spanErr spanError
	if !errors.As(err, &spanErr) {
		return fmt.Errorf("%s: %w", path, err)
	}
	span := spanErr.Span()
	if span.Start() == 0 && span.Len() == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}
	line, col := lineColumn(src, span.Start())
	return fmt.Errorf("%s:%d:%d: %w", path, line, col, err)
}

// lineColumn returns the 1-based line and byte column of offset. "\r\n",
// "\n" and "\r" each end a line.
func lineColumn(src []byte, offset uint32) (int, int) {
	offset = min(offset, uint32(len(src)))
	line, lineStart := 1, 0
	for ii := 0; ii < int(offset); ii++ {
		switch src[ii] {
		case '\n':
			line++
			lineStart = ii + 1
		case '\r':
			if ii+1 < len(src) && src[ii+1] == '\n' {
				continue
			}
			line++
			lineStart = ii + 1
		}
	}
	return line, int(offset) - lineStart + 1
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, output []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(output)
		return err
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		return err
	}
	_, writeErr := fp.Write(output)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

func compress(buf []byte) ([]byte, error) {
	var out bytes.Buffer
	w := brotli.NewWriterLevel(&out, brotli.BestCompression)
	if _, err := w.Write(buf); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func decompress(buf []byte) ([]byte, error) {
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(buf)))
	if err != nil {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	return out, nil
}
