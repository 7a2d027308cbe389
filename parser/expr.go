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

package parser

import (
	"strconv"

	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/internal/core/strtmpl"
	"github.com/harrisont/fastbuild-ls-go/scanner"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// binOpPrec maps a token Kind to its binary-operator precedence; higher
// precedence binds tighter. binOpKind gives the matching BinaryOp.
// `in`/`not in` are recognized from IDENT text rather than a dedicated
// token kind.
var binOpPrec = map[scanner.Kind]int{
	scanner.LOR:  1,
	scanner.LAND: 2,
	scanner.EQL:  3,
	scanner.NEQ:  3,
	scanner.LSS:  3,
	scanner.GTR:  3,
	scanner.LEQ:  3,
	scanner.GEQ:  3,
	scanner.ADD:  4,
	scanner.SUB:  4,
}

var binOpKind = map[scanner.Kind]ast.BinaryOp{
	scanner.LOR:  ast.OpOr,
	scanner.LAND: ast.OpAnd,
	scanner.EQL:  ast.OpEq,
	scanner.NEQ:  ast.OpNeq,
	scanner.LSS:  ast.OpLt,
	scanner.GTR:  ast.OpGt,
	scanner.LEQ:  ast.OpLe,
	scanner.GEQ:  ast.OpGe,
	scanner.ADD:  ast.OpAdd,
	scanner.SUB:  ast.OpSub,
}

// parseExpr parses a full expression via precedence climbing, plus the
// `in` / `not in` membership operators which key off IDENT text.
func (p *parser) parseExpr() ast.Expr {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	startIdx := p.pos
	lhs := p.parseUnary()

	for {
		if p.cur().Kind == scanner.IDENT && (p.cur().Text == "in" || p.cur().Text == "not") {
			op, ok := p.tryMembershipOp()
			if !ok {
				break
			}
			rhs := p.parseUnary()
			lhs = &ast.BinaryExpr{Op: op, X: lhs, Y: rhs, Rng: p.rangeFrom(startIdx, p.pos-1)}
			continue
		}
		prec, ok := binOpPrec[p.cur().Kind]
		if !ok || prec < minPrec {
			break
		}
		op := binOpKind[p.cur().Kind]
		p.advance()
		rhs := p.parseBinary(prec + 1)
		lhs = &ast.BinaryExpr{Op: op, X: lhs, Y: rhs, Rng: p.rangeFrom(startIdx, p.pos-1)}
	}
	return lhs
}

// tryMembershipOp consumes `in` or `not in` if present, reporting whether
// it matched.
func (p *parser) tryMembershipOp() (ast.BinaryOp, bool) {
	if p.cur().Text == "in" {
		p.advance()
		return ast.OpIn, true
	}
	// "not" by itself (without a following "in") is not a membership
	// operator here; leave it for the caller to treat as unexpected.
	save := p.pos
	p.advance() // "not"
	if p.cur().Kind == scanner.IDENT && p.cur().Text == "in" {
		p.advance()
		return ast.OpNotIn, true
	}
	p.pos = save
	return 0, false
}

func (p *parser) parseUnary() ast.Expr {
	if p.cur().Kind == scanner.NOT {
		startIdx := p.pos
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{X: x, Rng: p.rangeFrom(startIdx, p.pos-1)}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case scanner.INT:
		p.advance()
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			p.errorf(p.rangeTok(t), "invalid integer literal %q", t.Text)
		}
		return &ast.IntLit{Value: v, Rng: p.rangeTok(t)}
	case scanner.STRING:
		return p.parseStringLit()
	case scanner.DOT, scanner.CARET:
		name := p.parseVarName()
		return &ast.VarRead{Name: name, Rng: name.Range()}
	case scanner.LBRACK:
		return p.parseStructLit()
	case scanner.LBRACE:
		return p.parseArrayLit()
	case scanner.IDENT:
		switch t.Text {
		case "true":
			p.advance()
			return &ast.BoolLit{Value: true, Rng: p.rangeTok(t)}
		case "false":
			p.advance()
			return &ast.BoolLit{Value: false, Rng: p.rangeTok(t)}
		}
		return p.parseCallExpr()
	default:
		p.errorf(p.rangeTok(t), "unexpected token %s %q in expression", t.Kind, t.Text)
		p.advance()
		return &ast.BadExpr{Rng: p.rangeTok(t)}
	}
}

// parseCallExpr parses a user-function call used as an expression, e.g.
// the RHS of an assignment.
func (p *parser) parseCallExpr() ast.Expr {
	startIdx := p.pos
	name := p.advance().Text
	p.expect(scanner.LPAREN)
	var args []ast.Expr
	if p.cur().Kind != scanner.RPAREN {
		args = append(args, p.parseExpr())
		for p.cur().Kind == scanner.COMMA {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(scanner.RPAREN)
	return &ast.FuncCall{Name: name, Args: args, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

// parseVarName parses `.Name`, `^Name`, `."A_$Mid$_B"`, or `^"..."`.
func (p *parser) parseVarName() *ast.VarName {
	startIdx := p.pos
	sigTok := p.advance() // DOT or CARET
	sigil := ast.SigilCurrent
	if sigTok.Kind == scanner.CARET {
		sigil = ast.SigilParent
	}
	if p.cur().Kind == scanner.STRING {
		lit := p.parseStringLit()
		return &ast.VarName{Sigil: sigil, Dynamic: lit, Rng: p.rangeFrom(startIdx, p.pos-1)}
	}
	if p.cur().Kind == scanner.IDENT {
		ident := p.advance().Text
		return &ast.VarName{Sigil: sigil, Ident: ident, Rng: p.rangeFrom(startIdx, p.pos-1)}
	}
	p.errorf(p.rangeTok(p.cur()), "expected identifier or string after %s", sigTok.Kind)
	return &ast.VarName{Sigil: sigil, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseStringLit() *ast.StringLit {
	t := p.advance() // STRING
	start := p.file.Pos(token.Offset(t.Start))
	segs := strtmpl.Parse(t.Text)
	ranges := make([]token.Range, len(segs))
	for i, s := range segs {
		ranges[i] = strtmpl.RangeAt(start, s.Start, s.End)
	}
	return &ast.StringLit{Segments: segs, SegmentRanges: ranges, Rng: p.rangeTok(t)}
}

func (p *parser) parseStructLit() ast.Expr {
	startIdx := p.pos
	p.advance() // [
	stmts := p.parseStmts(func(t scanner.Token) bool { return t.Kind == scanner.RBRACK })
	p.expect(scanner.RBRACK)
	return &ast.StructLit{Stmts: stmts, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseArrayLit() ast.Expr {
	startIdx := p.pos
	p.advance() // {
	var elems []ast.Expr
	if p.cur().Kind != scanner.RBRACE {
		elems = append(elems, p.parseExpr())
		for p.cur().Kind == scanner.COMMA {
			p.advance()
			if p.cur().Kind == scanner.RBRACE {
				break // trailing comma
			}
			elems = append(elems, p.parseExpr())
		}
	}
	p.expect(scanner.RBRACE)
	return &ast.ArrayLit{Elems: elems, Rng: p.rangeFrom(startIdx, p.pos-1)}
}
