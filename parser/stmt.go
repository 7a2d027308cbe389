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
	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/scanner"
)

// parseStmt parses one statement. On a syntax error it records a
// diagnostic, recovers to the next statement boundary, and returns a
// BadStmt so callers can continue processing the rest of the file.
func (p *parser) parseStmt() ast.Stmt {
	startIdx := p.pos
	t := p.cur()

	switch t.Kind {
	case scanner.DOT, scanner.CARET:
		return p.parseAssign()
	case scanner.HASH_INCLUDE:
		return p.parseInclude()
	case scanner.HASH_ONCE:
		p.advance()
		return &ast.Once{Rng: p.rangeTok(t)}
	case scanner.HASH_DEFINE, scanner.HASH_UNDEF:
		return p.parseDefine()
	case scanner.HASH_IF:
		return p.parsePreprocIf()
	case scanner.HASH_ELSE, scanner.HASH_ENDIF:
		// Stray #else/#endif with no matching #if: report and recover.
		p.errorf(p.rangeTok(t), "unexpected %s with no matching #if", t.Kind)
		p.recover()
		return &ast.BadStmt{Rng: p.rangeTok(t)}
	case scanner.LBRACE:
		stmts, _ := p.parseBracedStmts()
		return &ast.Block{Stmts: stmts, Rng: p.rangeFrom(startIdx, p.pos-1)}
	case scanner.IDENT:
		return p.parseIdentStmt()
	default:
		p.errorf(p.rangeTok(t), "unexpected token %s %q", t.Kind, t.Text)
		p.recover()
		return &ast.BadStmt{Rng: p.rangeTok(t)}
	}
}

func (p *parser) parseAssign() ast.Stmt {
	startIdx := p.pos
	name := p.parseVarName()
	var op ast.AssignOp
	switch p.cur().Kind {
	case scanner.ASSIGN:
		op = ast.AssignSet
		p.advance()
	case scanner.ADD_ASSIGN:
		op = ast.AssignAdd
		p.advance()
	case scanner.SUB_ASSIGN:
		op = ast.AssignSub
		p.advance()
	default:
		p.errorf(p.rangeTok(p.cur()), "expected assignment operator, got %s", p.cur().Kind)
		p.recover()
		return &ast.BadStmt{Rng: name.Range()}
	}
	rhs := p.parseExpr()
	return &ast.Assign{LHS: name, Op: op, RHS: rhs, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseInclude() ast.Stmt {
	startIdx := p.pos
	p.advance() // #include
	if p.cur().Kind != scanner.STRING {
		p.errorf(p.rangeTok(p.cur()), "expected string literal after #include")
		p.recover()
		return &ast.BadStmt{Rng: p.rangeFrom(startIdx, p.pos-1)}
	}
	path := p.parseStringLit()
	return &ast.Include{Path: path, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseDefine() ast.Stmt {
	startIdx := p.pos
	undef := p.cur().Kind == scanner.HASH_UNDEF
	p.advance()
	if p.cur().Kind != scanner.IDENT {
		p.errorf(p.rangeTok(p.cur()), "expected name after #define/#undef")
		p.recover()
		return &ast.BadStmt{Rng: p.rangeFrom(startIdx, p.pos-1)}
	}
	name := p.advance().Text
	return &ast.Define{Name: name, Undef: undef, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parsePreprocIf() ast.Stmt {
	startIdx := p.pos
	p.advance() // #if
	negated := false
	if p.cur().Kind == scanner.NOT {
		negated = true
		p.advance()
	}
	name := ""
	if p.cur().Kind == scanner.IDENT {
		name = p.advance().Text
	} else {
		p.errorf(p.rangeTok(p.cur()), "expected identifier in #if predicate")
	}
	then := p.parseStmts(func(t scanner.Token) bool {
		return t.Kind == scanner.HASH_ELSE || t.Kind == scanner.HASH_ENDIF
	})
	var els []ast.Stmt
	if p.cur().Kind == scanner.HASH_ELSE {
		p.advance()
		els = p.parseStmts(func(t scanner.Token) bool { return t.Kind == scanner.HASH_ENDIF })
	}
	if p.cur().Kind == scanner.HASH_ENDIF {
		p.advance()
	} else {
		p.errorf(p.rangeTok(p.cur()), "expected #endif")
	}
	return &ast.PreprocIf{
		Pred: ast.PreprocPred{Name: name, Negated: negated},
		Then: then,
		Else: els,
		Rng:  p.rangeFrom(startIdx, p.pos-1),
	}
}

// parseIdentStmt dispatches on a leading IDENT: the control-flow keywords
// (ForEach/If/Using/Print), a user-function declaration (`function`), or
// a call — which is a GenericFuncCall if a `{` body follows, otherwise a
// plain FuncCall statement.
func (p *parser) parseIdentStmt() ast.Stmt {
	name := p.cur().Text
	switch name {
	case "ForEach":
		return p.parseForEach()
	case "If":
		return p.parseIf()
	case "Using":
		return p.parseUsing()
	case "Print":
		return p.parsePrint()
	case "function":
		return p.parseFuncDecl()
	}
	return p.parseCallStmt()
}

func (p *parser) parseForEach() ast.Stmt {
	startIdx := p.pos
	p.advance() // ForEach
	p.expect(scanner.LPAREN)
	var bindings []ast.ForEachBinding
	for {
		v := p.parseVarName()
		if p.cur().Kind == scanner.IDENT && p.cur().Text == "in" {
			p.advance()
		} else {
			p.errorf(p.rangeTok(p.cur()), "expected 'in' in ForEach binding")
		}
		iter := p.parseExpr()
		bindings = append(bindings, ast.ForEachBinding{Var: v, Iter: iter})
		if p.cur().Kind == scanner.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(scanner.RPAREN)
	body, _ := p.parseBracedStmts()
	return &ast.ForEach{Bindings: bindings, Body: body, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseIf() ast.Stmt {
	startIdx := p.pos
	p.advance() // If
	p.expect(scanner.LPAREN)
	cond := p.parseExpr()
	p.expect(scanner.RPAREN)
	then, _ := p.parseBracedStmts()
	var els []ast.Stmt
	if p.cur().Kind == scanner.IDENT && p.cur().Text == "Else" {
		p.advance()
		els, _ = p.parseBracedStmts()
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseUsing() ast.Stmt {
	startIdx := p.pos
	p.advance() // Using
	p.expect(scanner.LPAREN)
	arg := p.parseExpr()
	p.expect(scanner.RPAREN)
	return &ast.Using{Arg: arg, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parsePrint() ast.Stmt {
	startIdx := p.pos
	p.advance() // Print
	p.expect(scanner.LPAREN)
	arg := p.parseExpr()
	p.expect(scanner.RPAREN)
	return &ast.Print{Arg: arg, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

func (p *parser) parseFuncDecl() ast.Stmt {
	startIdx := p.pos
	p.advance() // function
	var name string
	if p.cur().Kind == scanner.IDENT {
		name = p.advance().Text
	} else {
		p.errorf(p.rangeTok(p.cur()), "expected function name")
	}
	p.expect(scanner.LPAREN)
	var params []*ast.VarName
	if p.cur().Kind != scanner.RPAREN {
		for {
			params = append(params, p.parseVarName())
			if p.cur().Kind == scanner.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(scanner.RPAREN)
	body, _ := p.parseBracedStmts()
	return &ast.FuncDecl{Name: name, Params: params, Body: body, Rng: p.rangeFrom(startIdx, p.pos-1)}
}

// parseCallStmt parses `Name(args)`, then checks for a trailing `{ body }`
// to decide between a GenericFuncCall and a plain FuncCall statement.
func (p *parser) parseCallStmt() ast.Stmt {
	startIdx := p.pos
	nameTok := p.advance() // IDENT
	funcName := nameTok.Text
	funcNameRng := p.rangeTok(nameTok)

	p.expect(scanner.LPAREN)
	var targetName *ast.StringLit
	var args []ast.Expr
	if p.cur().Kind != scanner.RPAREN {
		if p.cur().Kind == scanner.STRING {
			targetName = p.parseStringLit()
			args = append(args, targetName)
		} else {
			args = append(args, p.parseExpr())
		}
		for p.cur().Kind == scanner.COMMA {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(scanner.RPAREN)

	if p.cur().Kind == scanner.LBRACE {
		if len(args) > 1 || (len(args) == 1 && targetName == nil) {
			p.errorf(funcNameRng, "generic function %s takes at most one string-literal name argument", funcName)
		}
		body, innerRng := p.parseBracedStmts()
		return &ast.GenericFuncCall{
			FuncName:     funcName,
			FuncNameRng:  funcNameRng,
			TargetName:   targetName,
			Body:         body,
			BodyInnerRng: innerRng,
			Rng:          p.rangeFrom(startIdx, p.pos-1),
		}
	}
	return &ast.FuncCall{Name: funcName, Args: args, Rng: p.rangeFrom(startIdx, p.pos-1)}
}
