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

// execAssign handles `.X = expr`, `.X += expr`, `^X -= expr` (spec §4.2).
// `=` always (re)binds in the target frame selected by the LHS sigil;
// `+=`/`-=` first search for the variable's current binding (static for
// `.X`, parent-and-up for `^X`) and rewrite whichever frame holds it,
// falling back to the sigil's default target frame when the variable is
// not yet defined.
func (e *Evaluator) execAssign(uri string, frame *scope.Frame, st *ast.Assign) {
	rhs := e.evalExpr(uri, frame, st.RHS)
	lhsRng := uriRange(uri, st.LHS.Range())
	stmtRng := uriRange(uri, st.Rng)

	name, ok := e.resolveAssignName(uri, frame, st.LHS)
	if !ok {
		return
	}

	var newVal value.Value
	var target *scope.Frame
	switch st.Op {
	case ast.AssignSet:
		newVal = rhs
		target = assignTargetFrame(frame, st.LHS.Sigil)
	case ast.AssignAdd, ast.AssignSub:
		var existing *scope.Binding
		if st.LHS.Sigil == ast.SigilParent {
			existing, target = frame.LookupParent(name)
		} else {
			existing, target = frame.LookupStatic(name)
		}
		if target == nil {
			target = assignTargetFrame(frame, st.LHS.Sigil)
		}
		base := value.UnknownValue()
		if existing != nil {
			base = existing.Value
		}
		if st.Op == ast.AssignAdd {
			newVal = evalAdd(base, rhs)
		} else {
			newVal = evalSub(base, rhs)
		}
	}

	if target == nil {
		e.data.Diagnostics.Add(errors.Newf(lhsRng, errors.KindSemanticStructural,
			"%q has no enclosing parent scope to assign into", name))
		return
	}
	frame.SetIn(target, name, newVal, lhsRng)
	e.data.VariableDefinitions = append(e.data.VariableDefinitions, &model.VariableDefinition{
		Name: name, Range: stmtRng, LHSRange: lhsRng, Value: newVal,
	})
}

func assignTargetFrame(frame *scope.Frame, sigil ast.Sigil) *scope.Frame {
	if sigil == ast.SigilParent {
		return frame.Parent()
	}
	return frame
}

// resolveAssignName resolves the name an assignment's LHS targets,
// evaluating a dynamic name's substitutions first (spec §4.3) and
// diagnosing an empty result.
func (e *Evaluator) resolveAssignName(uri string, frame *scope.Frame, lhs *ast.VarName) (string, bool) {
	if lhs.Dynamic == nil {
		return lhs.Ident, true
	}
	composed := e.evalStringLit(uri, frame, lhs.Dynamic)
	name := composed.AsString()
	if name == "" {
		rng := uriRange(uri, lhs.Rng)
		e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticName,
			"dynamic variable name evaluated to an empty string"))
		return "", false
	}
	return name, true
}

// execUsing handles `Using(expr)` (spec §4.3): every field of expr's
// struct value is copied into the current frame, each carrying both the
// Using call's own range and the field's existing provenance — a field
// thereby accrues multiple reportable definition sites rather than losing
// the original one. If a ForEach-over-structs loop is active, the
// per-field provenance also accrues across that loop's iterations via
// usingAccum.
func (e *Evaluator) execUsing(uri string, frame *scope.Frame, st *ast.Using) {
	v := e.evalExpr(uri, frame, st.Arg)
	callRng := uriRange(uri, st.Rng)
	if v.Kind != value.Struct {
		e.data.Diagnostics.Add(errors.Newf(callRng, errors.KindSemanticKind,
			"Using expects a Struct value, got %s", v.Kind))
		return
	}

	accum := e.topUsingAccum()
	for _, name := range v.Struct.Names() {
		field := v.Struct.Get(name)

		ranges := append([]token.UriRange{callRng}, field.Provenance...)
		if accum != nil {
			ranges = append(append([]token.UriRange{}, accum[name]...), ranges...)
		}
		ranges = dedupRanges(ranges)
		if accum != nil {
			accum[name] = ranges
		}

		if existing, owner := frame.LookupStatic(name); owner == frame {
			ranges = dedupRanges(append(append([]token.UriRange{}, existing.LHSRanges...), ranges...))
		}
		frame.Bind(name, &scope.Binding{Value: field.Value, LHSRanges: ranges})

		e.data.VariableDefinitions = append(e.data.VariableDefinitions, &model.VariableDefinition{
			Name: name, Range: callRng, LHSRange: callRng, Value: field.Value,
		})
	}
}

func dedupRanges(ranges []token.UriRange) []token.UriRange {
	out := make([]token.UriRange, 0, len(ranges))
	for _, r := range ranges {
		dup := false
		for _, existing := range out {
			if existing == r {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}
