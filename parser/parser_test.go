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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/token"
)

func parseSrc(t *testing.T, src string) *ParseResult {
	t.Helper()
	file := token.NewFile("test://p", []byte(src))
	return Parse("test://p", []byte(src), file)
}

func TestParseSimpleAssign(t *testing.T) {
	res := parseSrc(t, `.Out = "hello"`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))
	qt.Assert(t, qt.HasLen(res.File.Stmts, 1))

	assign, ok := res.File.Stmts[0].(*ast.Assign)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(assign.LHS.Ident, "Out"))
	qt.Assert(t, qt.Equals(assign.LHS.Sigil, ast.SigilCurrent))
	qt.Assert(t, qt.Equals(assign.Op, ast.AssignSet))

	lit, ok := assign.RHS.(*ast.StringLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsFalse(lit.HasSubstitutions()))
}

func TestParseParentSigilCompoundAssign(t *testing.T) {
	res := parseSrc(t, `^Out += "x"`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	assign := res.File.Stmts[0].(*ast.Assign)
	qt.Assert(t, qt.Equals(assign.LHS.Sigil, ast.SigilParent))
	qt.Assert(t, qt.Equals(assign.Op, ast.AssignAdd))
}

func TestParseStructAndArrayLit(t *testing.T) {
	res := parseSrc(t, `.S = [ .A = 1 ] .L = { "x", "y" }`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))
	qt.Assert(t, qt.HasLen(res.File.Stmts, 2))

	sAssign := res.File.Stmts[0].(*ast.Assign)
	_, ok := sAssign.RHS.(*ast.StructLit)
	qt.Assert(t, qt.IsTrue(ok))

	lAssign := res.File.Stmts[1].(*ast.Assign)
	arr, ok := lAssign.RHS.(*ast.ArrayLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(arr.Elems, 2))
}

func TestParseForEachMultiBinding(t *testing.T) {
	res := parseSrc(t, `ForEach(.X in .Xs, .Y in .Ys) { .Z = .X }`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	fe, ok := res.File.Stmts[0].(*ast.ForEach)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(fe.Bindings, 2))
	qt.Assert(t, qt.Equals(fe.Bindings[0].Var.Ident, "X"))
	qt.Assert(t, qt.Equals(fe.Bindings[1].Var.Ident, "Y"))
	qt.Assert(t, qt.HasLen(fe.Body, 1))
}

func TestParseIfElse(t *testing.T) {
	res := parseSrc(t, `If(.Cond) { .A = 1 } Else { .A = 2 }`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	ifStmt := res.File.Stmts[0].(*ast.If)
	qt.Assert(t, qt.HasLen(ifStmt.Then, 1))
	qt.Assert(t, qt.HasLen(ifStmt.Else, 1))
}

func TestParseUsing(t *testing.T) {
	res := parseSrc(t, `Using(.Base)`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	using, ok := res.File.Stmts[0].(*ast.Using)
	qt.Assert(t, qt.IsTrue(ok))
	_, ok = using.Arg.(*ast.VarRead)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestParseGenericFuncCallWithTargetName(t *testing.T) {
	res := parseSrc(t, `Alias("all") { .Targets = { "a" } }`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	call, ok := res.File.Stmts[0].(*ast.GenericFuncCall)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(call.FuncName, "Alias"))
	qt.Assert(t, qt.IsTrue(call.TargetName != nil))
	qt.Assert(t, qt.HasLen(call.Body, 1))
}

func TestParseUserFuncDeclAndCall(t *testing.T) {
	res := parseSrc(t, `function Helper(.A, .B) { .C = .A } Helper(1, 2)`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))
	qt.Assert(t, qt.HasLen(res.File.Stmts, 2))

	decl, ok := res.File.Stmts[0].(*ast.FuncDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(decl.Name, "Helper"))
	qt.Assert(t, qt.HasLen(decl.Params, 2))

	call, ok := res.File.Stmts[1].(*ast.FuncCall)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(call.Name, "Helper"))
	qt.Assert(t, qt.HasLen(call.Args, 2))
}

func TestParseIncludeAndOnce(t *testing.T) {
	res := parseSrc(t, `#once
#include 'shared.bff'`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))
	qt.Assert(t, qt.HasLen(res.File.Stmts, 2))

	_, ok := res.File.Stmts[0].(*ast.Once)
	qt.Assert(t, qt.IsTrue(ok))
	inc, ok := res.File.Stmts[1].(*ast.Include)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsFalse(inc.Path.HasSubstitutions()))
}

func TestParsePreprocIfElse(t *testing.T) {
	res := parseSrc(t, `#if !DEBUG
.A = 1
#else
.A = 2
#endif`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	pif, ok := res.File.Stmts[0].(*ast.PreprocIf)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(pif.Pred.Name, "DEBUG"))
	qt.Assert(t, qt.IsTrue(pif.Pred.Negated))
	qt.Assert(t, qt.HasLen(pif.Then, 1))
	qt.Assert(t, qt.HasLen(pif.Else, 1))
}

func TestParseBinaryExprPrecedence(t *testing.T) {
	res := parseSrc(t, `.X = 1 + 2 == 3`)
	qt.Assert(t, qt.HasLen(res.Errs, 0))

	assign := res.File.Stmts[0].(*ast.Assign)
	top, ok := assign.RHS.(*ast.BinaryExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(top.Op, ast.OpEq))

	lhs, ok := top.X.(*ast.BinaryExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(lhs.Op, ast.OpAdd))
}

func TestParseErrorRecoveryContinuesAfterBadStmt(t *testing.T) {
	res := parseSrc(t, `)))
.A = 1`)
	qt.Assert(t, qt.IsTrue(len(res.Errs) > 0))

	var sawAssign bool
	for _, s := range res.File.Stmts {
		if _, ok := s.(*ast.Assign); ok {
			sawAssign = true
		}
	}
	qt.Assert(t, qt.IsTrue(sawAssign))
}
