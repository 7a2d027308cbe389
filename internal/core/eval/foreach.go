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
)

type forEachIterand struct {
	binding  ast.ForEachBinding
	strs     []string
	structs  []*value.StructValue
	isStruct bool
}

// execForEach handles `ForEach(.X in expr [, .Y in expr2]*) { body }`
// (spec §4.5). All iterands are evaluated once, up front; if their
// lengths disagree, iteration proceeds for the shortest one and a single
// diagnostic reports the mismatch, rather than aborting. Each iteration
// pushes a fresh frame binding the loop variables to that iteration's
// elements; the loop variable's own range in the header is reused as the
// LHSRange of every iteration's loop-variable VariableDefinition, since it
// is the one physical binding site a reader hovers over.
func (e *Evaluator) execForEach(uri string, frame *scope.Frame, st *ast.ForEach) {
	iters := make([]forEachIterand, len(st.Bindings))
	for i, b := range st.Bindings {
		v := e.evalExpr(uri, frame, b.Iter)
		it := forEachIterand{binding: b}
		switch v.Kind {
		case value.ArrayOfStrings:
			it.strs = v.Strings
		case value.ArrayOfStructs:
			it.structs = v.Structs
			it.isStruct = true
		default:
			rng := uriRange(uri, b.Iter.Range())
			e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticKind,
				"ForEach iterand must be an array, got %s", v.Kind))
		}
		iters[i] = it
	}

	minLen := 0
	mismatched := false
	for i, it := range iters {
		l := len(it.strs)
		if it.isStruct {
			l = len(it.structs)
		}
		if i == 0 {
			minLen = l
			continue
		}
		if l != minLen {
			mismatched = true
		}
		if l < minLen {
			minLen = l
		}
	}
	if mismatched {
		e.data.Diagnostics.Add(errors.Newf(uriRange(uri, st.Rng), errors.KindSemanticStructural,
			"ForEach iterands have mismatched lengths; iterating %d times", minLen))
	}

	e.pushUsingAccum()
	defer e.popUsingAccum()

	for i := 0; i < minLen; i++ {
		iterFrame := frame.Push()
		for _, it := range iters {
			name, ok := e.resolveAssignName(uri, iterFrame, it.binding.Var)
			if !ok {
				continue
			}
			var val value.Value
			if it.isStruct {
				val = value.StructVal(it.structs[i])
			} else {
				val = value.Str(it.strs[i])
			}
			headerRng := uriRange(uri, it.binding.Var.Range())
			iterFrame.SetLocal(name, val, headerRng)
			e.data.VariableDefinitions = append(e.data.VariableDefinitions, &model.VariableDefinition{
				Name: name, Range: headerRng, LHSRange: headerRng, Value: val,
			})
		}
		e.execStmts(uri, iterFrame, st.Body)
		if e.stopped {
			return
		}
	}
}
