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
	"github.com/harrisont/fastbuild-ls-go/internal/core/scope"
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
)

// execFuncCall handles a call to a user-defined function (spec §4.7).
// The declaration is looked up in the evaluator's flat, global function
// registry (see DESIGN.md for why function visibility is not threaded
// through the frame stack). The call executes in a brand-new root frame
// with parameters bound positionally, and no parent chain back to the
// caller's frame — a `^X` inside the function body can only reach
// scopes the function itself introduces, never the caller's.
func (e *Evaluator) execFuncCall(uri string, frame *scope.Frame, st *ast.FuncCall) value.Value {
	fn := e.functions[st.Name]
	rng := uriRange(uri, st.Rng)
	if fn == nil {
		e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticName,
			"call to undefined function %q", st.Name))
		return value.UnknownValue()
	}
	if len(st.Args) != len(fn.Params) {
		e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticStructural,
			"%s expects %d argument(s), got %d", st.Name, len(fn.Params), len(st.Args)))
	}

	root := scope.NewRoot()
	for i, param := range fn.Params {
		if i >= len(st.Args) {
			break
		}
		argVal := e.evalExpr(uri, frame, st.Args[i])
		name, ok := e.resolveAssignName(uri, frame, param)
		if !ok {
			continue
		}
		root.SetLocal(name, argVal, uriRange(uri, param.Range()))
	}

	e.execStmts(uri, root, fn.Body)
	return value.UnknownValue()
}
