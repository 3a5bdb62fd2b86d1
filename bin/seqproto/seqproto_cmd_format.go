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
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/ilteoood/seqproto-schemify/encoding/seqtext"
	"github.com/ilteoood/seqproto-schemify/syntax"
)

type cmdFormat struct {
	schema  schemaFlags
	outPath string
}

func (*cmdFormat) help() *commandHelp {
	return &commandHelp{
		usage:   "format SCHEMA",
		summary: "Print schema text in canonical form",
		minArgs: 1,
	}
}

func (cmd *cmdFormat) flags(flags *pflag.FlagSet) {
	flags.StringArrayVarP(&cmd.schema.deps, "dependency", "d", nil, "Schema text whose messages may be referenced (repeatable, in order)")
	flags.StringVarP(&cmd.outPath, "output", "o", "", "Write to this file instead of stdout")
}

func (cmd *cmdFormat) run(ctx context.Context, argv []string) int {
	srcPath := argv[0]
	deps, err := cmd.schema.parseDeps()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	src, err := readInput(srcPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	parsed, err := syntax.Parse(src, syntax.WithDependencies(deps...))
	if err != nil {
		fmt.Fprintln(os.Stderr, locateError(srcPath, src, err))
		return 1
	}
	if err := writeOutput(cmd.outPath, []byte(seqtext.Encode(parsed))); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
