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

// Package ast declares the parse-tree node types produced by package
// parser. Every node carries a Range; the parser never performs name
// resolution or otherwise attaches semantic information to a node — that
// is entirely the evaluator's job, operating over this tree.
package ast

import (
	"github.com/harrisont/fastbuild-ls-go/internal/core/strtmpl"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// Node is implemented by every parse-tree node.
type Node interface {
	Range() token.Range
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// File is the root of a parsed document: a flat sequence of top-level
// statements.
type File struct {
	URI   string
	Stmts []Stmt
	Rng   token.Range
}

func (f *File) Range() token.Range { return f.Rng }

// ---- Identifiers and variable names ----------------------------------

// Sigil distinguishes the scope-selecting prefix of a variable name.
type Sigil int

const (
	SigilCurrent Sigil = iota // '.'
	SigilParent                // '^'
)

// VarName is a variable name reference: either a plain identifier
// (`.Foo`, `^Foo`) or a dynamic name computed from a string-with-
// substitutions expression (`."A_$Middle$_C"`).
type VarName struct {
	Sigil   Sigil
	Ident   string     // set when Dynamic == nil
	Dynamic *StringLit // set for `."..."` dynamic names
	Rng     token.Range
}

func (v *VarName) Range() token.Range { return v.Rng }

// ---- Literals ----------------------------------------------------------

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Rng   token.Range
}

func (x *IntLit) Range() token.Range { return x.Rng }
func (*IntLit) exprNode()            {}

// BoolLit is a boolean literal (`true`/`false`).
type BoolLit struct {
	Value bool
	Rng   token.Range
}

func (x *BoolLit) Range() token.Range { return x.Rng }
func (*BoolLit) exprNode()            {}

// StringLit is a quoted string, possibly containing substitution markers.
// A string with zero markers is an ordinary literal. Segments and their
// byte-offset spans are decoded by package strtmpl; SegmentRanges holds
// the resolved token.Range for each of Segments, parallel by index.
type StringLit struct {
	Segments      []strtmpl.Segment
	SegmentRanges []token.Range
	Rng           token.Range // spans the whole literal including quotes
}

func (x *StringLit) Range() token.Range { return x.Rng }
func (*StringLit) exprNode()            {}

// HasSubstitutions reports whether the literal contains any `$…$`/`^…^`
// markers.
func (x *StringLit) HasSubstitutions() bool {
	return strtmpl.HasSubstitutions(x.Segments)
}

// ---- Composite expressions ---------------------------------------------

// VarRead is a read of a variable, static (`.X`, `^X`) or dynamic
// (`."A_$X$_B"`).
type VarRead struct {
	Name *VarName
	Rng  token.Range
}

func (x *VarRead) Range() token.Range { return x.Rng }
func (*VarRead) exprNode()            {}

// StructLit is `[ stmts ]`: a sequence of statements (typically
// assignments) evaluated in a fresh frame whose resulting bindings become
// the struct's fields.
type StructLit struct {
	Stmts []Stmt
	Rng   token.Range
}

func (x *StructLit) Range() token.Range { return x.Rng }
func (*StructLit) exprNode()            {}

// ArrayLit is `{ expr, expr, ... }`.
type ArrayLit struct {
	Elems []Expr
	Rng   token.Range
}

func (x *ArrayLit) Range() token.Range { return x.Rng }
func (*ArrayLit) exprNode()            {}

// BinaryOp is the operator of a BinaryExpr.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
	OpIn
	OpNotIn
)

// BinaryExpr is a two-operand expression: concatenation/difference
// (`+`/`-`) or a boolean/comparison/membership test.
type BinaryExpr struct {
	Op    BinaryOp
	X, Y  Expr
	Rng   token.Range
}

func (x *BinaryExpr) Range() token.Range { return x.Rng }
func (*BinaryExpr) exprNode()            {}

// UnaryExpr is `!expr`.
type UnaryExpr struct {
	X   Expr
	Rng token.Range
}

func (x *UnaryExpr) Range() token.Range { return x.Rng }
func (*UnaryExpr) exprNode()            {}

// BadExpr is a placeholder inserted by the parser's error-recovery path
// so that the surrounding tree remains well-formed.
type BadExpr struct {
	Rng token.Range
}

func (x *BadExpr) Range() token.Range { return x.Rng }
func (*BadExpr) exprNode()            {}

// ---- Statements ---------------------------------------------------------

// AssignOp distinguishes `=`, `+=`, and `-=` style assignment.
type AssignOp int

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
)

// Assign is `.X = expr`, `.X += expr`, `^X -= expr`, etc.
type Assign struct {
	LHS *VarName
	Op  AssignOp
	RHS Expr
	Rng token.Range
}

func (s *Assign) Range() token.Range { return s.Rng }
func (*Assign) stmtNode()            {}

// Using is `Using(expr)`.
type Using struct {
	Arg Expr
	Rng token.Range
}

func (s *Using) Range() token.Range { return s.Rng }
func (*Using) stmtNode()            {}

// ForEachBinding is one `.X in expr` clause of a ForEach header.
type ForEachBinding struct {
	Var  *VarName
	Iter Expr
}

// ForEach is `ForEach(.X in expr [, .Y in expr2]*) { body }`.
type ForEach struct {
	Bindings []ForEachBinding
	Body     []Stmt
	Rng      token.Range
}

func (s *ForEach) Range() token.Range { return s.Rng }
func (*ForEach) stmtNode()            {}

// If is `If(cond) { then } [Else { els }]`.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Rng  token.Range
}

func (s *If) Range() token.Range { return s.Rng }
func (*If) stmtNode()            {}

// Print is `Print(expr)`.
type Print struct {
	Arg Expr
	Rng token.Range
}

func (s *Print) Range() token.Range { return s.Rng }
func (*Print) stmtNode()            {}

// Block is a bare `{ stmts }`, introducing a new scope with no other
// control-flow semantics.
type Block struct {
	Stmts []Stmt
	Rng   token.Range
}

func (s *Block) Range() token.Range { return s.Rng }
func (*Block) stmtNode()            {}

// GenericFuncCall is `Name('target') { body }` or `Name() { body }`
// (target name optional depending on schema), invoking one of the
// built-in generic functions (Alias, Compiler, ObjectList, ...).
type GenericFuncCall struct {
	FuncName       string
	FuncNameRng    token.Range
	TargetName     *StringLit // nil if the function takes no name
	Body           []Stmt
	BodyInnerRng   token.Range // span strictly inside the braces
	Rng            token.Range
}

func (s *GenericFuncCall) Range() token.Range { return s.Rng }
func (*GenericFuncCall) stmtNode()            {}

// FuncDecl is `function Name(.arg1, .arg2) { body }` (spec §4.7).
type FuncDecl struct {
	Name   string
	Params []*VarName
	Body   []Stmt
	Rng    token.Range
}

func (s *FuncDecl) Range() token.Range { return s.Rng }
func (*FuncDecl) stmtNode()            {}

// FuncCall is `Name(expr1, expr2)`, a call to a user-defined function.
type FuncCall struct {
	Name string
	Args []Expr
	Rng  token.Range
}

func (s *FuncCall) Range() token.Range { return s.Rng }
func (*FuncCall) stmtNode()            {}
func (*FuncCall) exprNode()            {}

// Include is `#include 'path'`.
type Include struct {
	Path    *StringLit
	Rng     token.Range
}

func (s *Include) Range() token.Range { return s.Rng }
func (*Include) stmtNode()            {}

// Once is `#once`.
type Once struct {
	Rng token.Range
}

func (s *Once) Range() token.Range { return s.Rng }
func (*Once) stmtNode()            {}

// Define is `#define name` / `#undef name`.
type Define struct {
	Name   string
	Undef  bool
	Rng    token.Range
}

func (s *Define) Range() token.Range { return s.Rng }
func (*Define) stmtNode()            {}

// PreprocIf is `#if pred … [#else …] #endif`. The predicate is a single
// `#define`d name, checked by the evaluator against the names defined so
// far, so it is represented directly rather than as a general Expr.
type PreprocIf struct {
	Pred    PreprocPred
	Then    []Stmt
	Else    []Stmt
	Rng     token.Range
}

func (s *PreprocIf) Range() token.Range { return s.Rng }
func (*PreprocIf) stmtNode()            {}

// PreprocPred is a `#if` predicate: `NAME` (true when NAME is defined),
// optionally negated as `!NAME`.
type PreprocPred struct {
	Name    string
	Negated bool
}

// BadStmt is a placeholder inserted by error recovery.
type BadStmt struct {
	Rng token.Range
}

func (s *BadStmt) Range() token.Range { return s.Rng }
func (*BadStmt) stmtNode()            {}
