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

package eval

import (
	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/internal/core/model"
	"github.com/harrisont/fastbuild-ls-go/internal/core/scope"
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// evalExpr evaluates e in frame, whose source lives in uri, recording
// VariableReferences and diagnostics as a side effect (spec §4.2-§4.3).
func (e *Evaluator) evalExpr(uri string, frame *scope.Frame, expr ast.Expr) value.Value {
	switch x := expr.(type) {
	case *ast.IntLit:
		return value.Int(x.Value)
	case *ast.BoolLit:
		return value.Bool(x.Value)
	case *ast.StringLit:
		return e.evalStringLit(uri, frame, x)
	case *ast.VarRead:
		return e.evalVarRead(uri, frame, x)
	case *ast.StructLit:
		return e.evalStructLit(uri, frame, x)
	case *ast.ArrayLit:
		return e.evalArrayLit(uri, frame, x)
	case *ast.BinaryExpr:
		return e.evalBinary(uri, frame, x)
	case *ast.UnaryExpr:
		return e.evalUnary(uri, frame, x)
	case *ast.FuncCall:
		return e.execFuncCall(uri, frame, x)
	case *ast.BadExpr:
		return value.UnknownValue()
	default:
		return value.UnknownValue()
	}
}

// evalStringLit evaluates a string literal, resolving and recording a
// VariableReference for each `$name$`/`^name^` substitution segment and
// concatenating the result (spec §4, §4.3). A literal with no
// substitutions is returned verbatim.
func (e *Evaluator) evalStringLit(uri string, frame *scope.Frame, lit *ast.StringLit) value.Value {
	if !lit.HasSubstitutions() {
		return value.Str(concatLiteral(lit))
	}
	var out []byte
	for i, seg := range lit.Segments {
		if seg.Ident == "" {
			out = append(out, seg.Literal...)
			continue
		}
		segRng := uriRange(uri, lit.SegmentRanges[i])
		sigil := ast.SigilCurrent
		if seg.Parent {
			sigil = ast.SigilParent
		}
		v := e.readNamed(uri, frame, seg.Ident, sigil, segRng)
		out = append(out, v.AsString()...)
	}
	return value.Str(string(out))
}

func concatLiteral(lit *ast.StringLit) string {
	var out []byte
	for _, seg := range lit.Segments {
		out = append(out, seg.Literal...)
	}
	return string(out)
}

// evalVarRead evaluates a static or dynamic variable read (spec §4.3). For
// a dynamic name (`."A_$X$_B"`), the embedded substitutions are resolved
// first (each recording its own reference), the composed string becomes
// the variable name, and a further reference spanning the whole literal is
// recorded against the resolved binding.
func (e *Evaluator) evalVarRead(uri string, frame *scope.Frame, vr *ast.VarRead) value.Value {
	name := vr.Name
	rng := uriRange(uri, vr.Rng)
	if name.Dynamic == nil {
		return e.readNamed(uri, frame, name.Ident, name.Sigil, rng)
	}
	composed := e.evalStringLit(uri, frame, name.Dynamic)
	return e.readNamed(uri, frame, composed.AsString(), name.Sigil, rng)
}

// readNamed resolves name in frame per sigil, recording a VariableReference
// at rng whose Definitions are the binding's accumulated provenance set
// (spec §4.3), and diagnosing an undefined name (spec §4.3 Name errors).
func (e *Evaluator) readNamed(uri string, frame *scope.Frame, name string, sigil ast.Sigil, rng token.UriRange) value.Value {
	var b *scope.Binding
	if sigil == ast.SigilParent {
		b, _ = frame.LookupParent(name)
	} else {
		b, _ = frame.LookupStatic(name)
	}
	ref := &model.VariableReference{ReferenceRange: rng}
	if b == nil {
		e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticName, "undefined variable %q", name))
		e.data.VariableReferences = append(e.data.VariableReferences, ref)
		return value.UnknownValue()
	}
	for _, d := range b.LHSRanges {
		ref.AddDefinition(d)
	}
	e.data.VariableReferences = append(e.data.VariableReferences, ref)
	return b.Value
}

// evalStructLit evaluates `[ stmts ]`: a fresh frame executes Stmts, and
// the frame's resulting local bindings become the struct's fields, in the
// order they were first bound (spec §4, §4.3 provenance carries over
// verbatim from each binding's LHSRanges).
func (e *Evaluator) evalStructLit(uri string, frame *scope.Frame, sl *ast.StructLit) value.Value {
	inner := frame.Push()
	e.execStmts(uri, inner, sl.Stmts)
	sv := value.NewStruct()
	for _, name := range inner.Names() {
		b, _ := inner.LookupStatic(name)
		if b == nil || len(b.LHSRanges) == 0 {
			continue
		}
		sv.Set(name, b.Value, b.LHSRanges[0], false)
		for _, extra := range b.LHSRanges[1:] {
			sv.AddProvenance(name, extra)
		}
	}
	return value.StructVal(sv)
}

// evalArrayLit evaluates `{ expr, ... }`. All elements must coerce to the
// same scalar-vs-struct shape; a mixed array yields ArrayOfStrings by
// coercing every element via AsString if any element is not a struct, and
// otherwise yields ArrayOfStructs (spec §4 array literal homogeneity is
// enforced loosely: a kind mismatch is diagnosed but evaluation proceeds
// with a best-effort coercion, per spec §4.2/§7 "never abort").
func (e *Evaluator) evalArrayLit(uri string, frame *scope.Frame, al *ast.ArrayLit) value.Value {
	if len(al.Elems) == 0 {
		return value.EmptyStrings()
	}
	vals := make([]value.Value, len(al.Elems))
	allStructs := true
	for i, elem := range al.Elems {
		v := e.evalExpr(uri, frame, elem)
		vals[i] = v
		if v.Kind != value.Struct {
			allStructs = false
		}
	}
	if allStructs {
		structs := make([]*value.StructValue, len(vals))
		for i, v := range vals {
			structs[i] = v.Struct
		}
		return value.StructsVal(structs)
	}
	strs := make([]string, len(vals))
	for i, v := range vals {
		if v.Kind == value.Struct {
			rng := uriRange(uri, al.Elems[i].Range())
			e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticKind,
				"struct value in a string array"))
			strs[i] = ""
			continue
		}
		strs[i] = v.AsString()
	}
	return value.StringsVal(strs)
}

func (e *Evaluator) evalUnary(uri string, frame *scope.Frame, x *ast.UnaryExpr) value.Value {
	v := e.evalExpr(uri, frame, x.X)
	return value.Bool(!toBool(v))
}

func (e *Evaluator) evalBinary(uri string, frame *scope.Frame, x *ast.BinaryExpr) value.Value {
	lhs := e.evalExpr(uri, frame, x.X)
	switch x.Op {
	case ast.OpAnd:
		if !toBool(lhs) {
			return value.Bool(false)
		}
		return value.Bool(toBool(e.evalExpr(uri, frame, x.Y)))
	case ast.OpOr:
		if toBool(lhs) {
			return value.Bool(true)
		}
		return value.Bool(toBool(e.evalExpr(uri, frame, x.Y)))
	}

	rhs := e.evalExpr(uri, frame, x.Y)
	switch x.Op {
	case ast.OpAdd:
		return evalAdd(lhs, rhs)
	case ast.OpSub:
		return evalSub(lhs, rhs)
	case ast.OpEq:
		return value.Bool(valuesEqual(lhs, rhs))
	case ast.OpNeq:
		return value.Bool(!valuesEqual(lhs, rhs))
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		return evalCompare(x.Op, lhs, rhs)
	case ast.OpIn, ast.OpNotIn:
		in := valueInArray(lhs, rhs)
		if x.Op == ast.OpNotIn {
			return value.Bool(!in)
		}
		return value.Bool(in)
	default:
		return value.UnknownValue()
	}
}

// evalAdd implements `+` (spec §4: string/array concatenation, integer
// addition, struct field merge).
func evalAdd(a, b value.Value) value.Value {
	switch {
	case a.Kind == value.Integer && b.Kind == value.Integer:
		return value.Int(a.Int + b.Int)
	case a.Kind == value.String || b.Kind == value.String:
		return value.Str(a.AsString() + b.AsString())
	case a.Kind == value.ArrayOfStrings && b.Kind == value.ArrayOfStrings:
		return value.StringsVal(append(append([]string{}, a.Strings...), b.Strings...))
	case a.Kind == value.ArrayOfStrings && b.Kind == value.String:
		return value.StringsVal(append(append([]string{}, a.Strings...), b.Str))
	case a.Kind == value.ArrayOfStructs && b.Kind == value.ArrayOfStructs:
		return value.StructsVal(append(append([]*value.StructValue{}, a.Structs...), b.Structs...))
	case a.Kind == value.ArrayOfStructs && b.Kind == value.Struct:
		return value.StructsVal(append(append([]*value.StructValue{}, a.Structs...), b.Struct))
	case a.Kind == value.Struct && b.Kind == value.Struct:
		merged := a.Struct.Clone()
		for _, name := range b.Struct.Names() {
			f := b.Struct.Get(name)
			if len(f.Provenance) == 0 {
				continue
			}
			merged.Set(name, f.Value, f.Provenance[0], false)
			for _, extra := range f.Provenance[1:] {
				merged.AddProvenance(name, extra)
			}
		}
		return value.StructVal(merged)
	default:
		return value.UnknownValue()
	}
}

// evalSub implements `-` (spec §4: integer subtraction, string/array
// element removal).
func evalSub(a, b value.Value) value.Value {
	switch {
	case a.Kind == value.Integer && b.Kind == value.Integer:
		return value.Int(a.Int - b.Int)
	case a.Kind == value.ArrayOfStrings && b.Kind == value.String:
		out := make([]string, 0, len(a.Strings))
		for _, s := range a.Strings {
			if s != b.Str {
				out = append(out, s)
			}
		}
		return value.StringsVal(out)
	case a.Kind == value.String && b.Kind == value.String:
		return value.Str(a.Str)
	default:
		return value.UnknownValue()
	}
}

func valuesEqual(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.Boolean:
		return a.Bool == b.Bool
	case value.Integer:
		return a.Int == b.Int
	case value.String:
		return a.Str == b.Str
	default:
		return false
	}
}

func evalCompare(op ast.BinaryOp, a, b value.Value) value.Value {
	if a.Kind != value.Integer || b.Kind != value.Integer {
		return value.Bool(false)
	}
	switch op {
	case ast.OpLt:
		return value.Bool(a.Int < b.Int)
	case ast.OpGt:
		return value.Bool(a.Int > b.Int)
	case ast.OpLe:
		return value.Bool(a.Int <= b.Int)
	case ast.OpGe:
		return value.Bool(a.Int >= b.Int)
	default:
		return value.Bool(false)
	}
}

func valueInArray(needle, haystack value.Value) bool {
	if haystack.Kind != value.ArrayOfStrings || needle.Kind != value.String {
		return false
	}
	for _, s := range haystack.Strings {
		if s == needle.Str {
			return true
		}
	}
	return false
}
