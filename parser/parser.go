// Copyright 2026 The BFF Language Server Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements a recursive-descent parser for BFF source
// text. Parsing is context-free and side-effect free: it never resolves
// names, only builds the tree described by package ast. A single parse is
// cacheable by (URI, content-hash), per spec §2/§5/§9.
package parser

import (
	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/scanner"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// keywords that introduce a statement form handled specially, rather than
// as a generic-function or user-function call.
var controlKeywords = map[string]bool{
	"ForEach": true,
	"If":      true,
	"Else":    true,
	"Using":   true,
	"Print":   true,
	"function": true,
}

// ParseResult is the output of Parse: a file plus the diagnostics
// accumulated during lexing and parsing.
type ParseResult struct {
	File *ast.File
	Errs errors.List
}

// Parse tokenizes and parses src, producing a parse tree for the given
// URI. file supplies the line table the scanner populates as it scans.
func Parse(uri string, src []byte, file *token.File) *ParseResult {
	p := &parser{uri: uri, file: file, src: src}

	var sc scanner.Scanner
	sc.Init(file, src, &p.errs)
	for {
		t := sc.Scan()
		if t.Kind != scanner.COMMENT {
			p.toks = append(p.toks, t)
		}
		if t.Kind == scanner.EOF {
			break
		}
	}

	stmts := p.parseStmts(nil)
	f := &ast.File{
		URI:   uri,
		Stmts: stmts,
		Rng:   p.rangeFrom(0, len(p.toks)-1),
	}
	return &ParseResult{File: f, Errs: p.errs}
}

type parser struct {
	uri  string
	file *token.File
	src  []byte
	toks []scanner.Token
	pos  int
	errs errors.List
}

func (p *parser) cur() scanner.Token  { return p.toks[p.pos] }
func (p *parser) atEnd() bool         { return p.cur().Kind == scanner.EOF }
func (p *parser) advance() scanner.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) ptFor(offset int) token.Point {
	return p.file.Point(token.Offset(offset))
}

func (p *parser) rangeTok(t scanner.Token) token.Range {
	return token.Range{Start: p.ptFor(t.Start), End: p.ptFor(t.End)}
}

// rangeFrom builds a Range spanning tokens at indices [from, to] inclusive.
func (p *parser) rangeFrom(from, to int) token.Range {
	if from > to || from < 0 || to >= len(p.toks) {
		pt := p.ptFor(0)
		return token.Range{Start: pt, End: pt}
	}
	return token.Range{Start: p.ptFor(p.toks[from].Start), End: p.ptFor(p.toks[to].End)}
}

func (p *parser) errorf(rng token.Range, format string, args ...interface{}) {
	p.errs.Add(errors.Newf(token.UriRange{URI: p.uri, Range: rng}, errors.KindSyntactic, format, args...))
}

func (p *parser) expect(k scanner.Kind) (scanner.Token, bool) {
	if p.cur().Kind == k {
		return p.advance(), true
	}
	p.errorf(p.rangeTok(p.cur()), "expected %s, got %s %q", k, p.cur().Kind, p.cur().Text)
	return p.cur(), false
}

// isStmtBoundary reports whether the current token looks like the start
// of a new statement, the recovery target spec §4.1 calls for.
func (p *parser) isStmtBoundary() bool {
	t := p.cur()
	switch t.Kind {
	case scanner.DOT, scanner.CARET,
		scanner.HASH_INCLUDE, scanner.HASH_ONCE, scanner.HASH_DEFINE, scanner.HASH_UNDEF,
		scanner.HASH_IF, scanner.HASH_ELSE, scanner.HASH_ENDIF,
		scanner.RBRACE, scanner.EOF:
		return true
	case scanner.IDENT:
		return true // any identifier may start a keyword or call statement
	default:
		return false
	}
}

// recover skips tokens until a statement boundary, so one malformed
// statement does not poison the rest of the file (spec §4.1).
func (p *parser) recover() {
	p.advance()
	for !p.atEnd() && !p.isStmtBoundary() {
		p.advance()
	}
}

// parseStmts parses statements until EOF or, if stop != nil, until stop
// returns true for the current token (used for `}`-delimited bodies).
func (p *parser) parseStmts(stop func(scanner.Token) bool) []ast.Stmt {
	var out []ast.Stmt
	for !p.atEnd() {
		if stop != nil && stop(p.cur()) {
			break
		}
		before := p.pos
		s := p.parseStmt()
		if s != nil {
			out = append(out, s)
		}
		if p.pos == before {
			// Safety net: parseStmt must always make progress.
			p.advance()
		}
	}
	return out
}

// rangeOffsets builds a Range between two raw byte offsets.
func (p *parser) rangeOffsets(start, end int) token.Range {
	return token.Range{Start: p.ptFor(start), End: p.ptFor(end)}
}

// parseBracedStmts parses a `{ stmts }` body, returning the statements and
// the range strictly inside the braces (used as
// GenericFuncCall.BodyInnerRng, spec §3/§4.4).
func (p *parser) parseBracedStmts() ([]ast.Stmt, token.Range) {
	lb, _ := p.expect(scanner.LBRACE)
	innerStart := lb.End
	inner := p.parseStmts(func(t scanner.Token) bool { return t.Kind == scanner.RBRACE })
	innerEnd := p.cur().Start
	innerRng := p.rangeOffsets(innerStart, innerEnd)
	p.expect(scanner.RBRACE)
	return inner, innerRng
}
