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
	"path"

	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/internal/core/model"
	"github.com/harrisont/fastbuild-ls-go/internal/core/scope"
)

// runFile loads uri (if not already loaded) and executes its statements
// inline in frame (spec §4.6: "Evaluation continues with the included
// file's statements executed in the current frame"). The caller is
// responsible for include-stack/cycle bookkeeping around this call.
// Cancellation is polled before the fetch, so a run whose context is
// already canceled still records its Canceled diagnostic.
func (e *Evaluator) runFile(uri string, frame *scope.Frame) {
	if e.checkCancel() {
		return
	}
	entry := e.loadFile(uri)
	if entry == nil {
		return
	}
	e.execStmts(uri, frame, entry.File.Stmts)
	e.ranFiles[uri] = true
}

// execIncludeStmt handles one `#include 'path'` statement (spec §4.6).
func (e *Evaluator) execIncludeStmt(fromURI string, frame *scope.Frame, st *ast.Include) {
	pathVal := e.evalStringLit(fromURI, frame, st.Path)
	pathStr := pathVal.AsString()
	rng := uriRange(fromURI, st.Path.Range())

	resolved, ok := e.resolveInclude(fromURI, pathStr)
	if !ok {
		e.data.Diagnostics.Add(errors.Newf(rng, errors.KindIO,
			"cannot resolve #include path %q", pathStr))
		return
	}

	e.data.IncludeEdges = append(e.data.IncludeEdges, &model.IncludeEdge{
		FromFile:           fromURI,
		IncludeStringRange: rng,
		ToFile:             resolved,
	})

	if e.includeStack[resolved] {
		e.data.Diagnostics.Add(errors.NewfSev(rng, errors.KindSemanticStructural, errors.SeverityWarning,
			"include cycle detected: %s is already being included", resolved))
		return
	}
	if e.onceFiles[resolved] && e.ranFiles[resolved] {
		return
	}

	e.includeStack[resolved] = true
	e.runFile(resolved, frame)
	delete(e.includeStack, resolved)
}

// resolveInclude resolves p relative to fromURI's directory, falling
// back to the root file's directory (spec §4.6).
func (e *Evaluator) resolveInclude(fromURI, p string) (string, bool) {
	candidates := []string{
		path.Join(path.Dir(fromURI), p),
		path.Join(path.Dir(e.rootURI), p),
	}
	for _, c := range candidates {
		if _, err := e.provider.Get(e.ctx, c); err == nil {
			return c, true
		}
	}
	// Neither candidate could be fetched: report the path as unresolved.
	return "", false
}

