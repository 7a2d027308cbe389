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

// Package eval implements the BFF evaluator (spec §4.2-§4.7): a
// statement-at-a-time walk of a parse tree that maintains a scope-frame
// stack, follows #include edges through a source.Provider, and
// accumulates a model.EvaluatedData. Semantic errors never abort
// evaluation; each produces a Diagnostic and the failing construct
// yields a best-effort value (spec §4.2, §7).
package eval

import (
	"context"

	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/internal/core/model"
	"github.com/harrisont/fastbuild-ls-go/internal/core/schema"
	"github.com/harrisont/fastbuild-ls-go/internal/core/scope"
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"github.com/harrisont/fastbuild-ls-go/source"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// StopAt requests partial evaluation: the evaluator stops just before
// entering any statement whose start is at or past Pos in URI (spec
// §4.2).
type StopAt struct {
	URI string
	Pos token.Point
}

// Options configures one evaluation run.
type Options struct {
	// StopAt requests partial evaluation (spec §4.2). Nil runs to
	// completion.
	StopAt *StopAt
	// Schema is the builtin generic-function property table (spec §6).
	// If nil, schema.MustLoad's default table is used.
	Schema *schema.Table
}

// Evaluator executes one root document's parse tree (spec §4.2). It is
// single-use: construct a fresh Evaluator (via Evaluate) per evaluation,
// never shared across concurrent runs (spec §5).
type Evaluator struct {
	ctx      context.Context
	provider source.Provider
	cache    *source.Cache
	schema   *schema.Table
	data     *model.EvaluatedData

	stopAt  *StopAt
	stopped bool

	// includeStack holds files currently being evaluated via #include,
	// for cycle detection (spec §4.6).
	includeStack map[string]bool
	// onceFiles holds files that declared #once, suppressing
	// re-inclusion within this evaluation (spec §4.6).
	onceFiles map[string]bool
	// loadedFiles remembers which files' parse diagnostics have already
	// been merged into data.Diagnostics, so re-including (pre-cycle-
	// detection) a file doesn't duplicate its syntax errors.
	loadedFiles map[string]bool

	// functions is the flat registry of user-defined function
	// declarations (spec §4.7). FASTBuild functions are effectively
	// global once declared; see DESIGN.md for why this evaluator does
	// not thread function visibility through the frame stack.
	functions map[string]*ast.FuncDecl

	// defines tracks #define/#undef names for #if predicates (spec
	// §4.1 grammar: "#if/#else/#endif with constant and defined-name
	// predicates").
	defines map[string]bool

	rootURI  string
	ranFiles map[string]bool

	// usingAccum is a stack of per-ForEach provenance accumulators, one
	// map pushed per active ForEach loop, whatever its iterand kind (spec §4.3: "every
	// iteration's Using extends the candidate set... the union across
	// iterations is reported"). execUsing consults the top entry, if any,
	// so a field copied on iteration 2 also carries iteration 1's sites.
	usingAccum []map[string][]token.UriRange
}

func (e *Evaluator) pushUsingAccum() {
	e.usingAccum = append(e.usingAccum, map[string][]token.UriRange{})
}

func (e *Evaluator) popUsingAccum() {
	e.usingAccum = e.usingAccum[:len(e.usingAccum)-1]
}

func (e *Evaluator) topUsingAccum() map[string][]token.UriRange {
	if len(e.usingAccum) == 0 {
		return nil
	}
	return e.usingAccum[len(e.usingAccum)-1]
}

// Evaluate parses (via cache) and evaluates the document at rootURI,
// following includes through provider, and returns the resulting
// EvaluatedData. It never returns an error: all failures become
// diagnostics in the returned data (spec §7).
func Evaluate(ctx context.Context, rootURI string, provider source.Provider, cache *source.Cache, opts Options) *model.EvaluatedData {
	sc := opts.Schema
	if sc == nil {
		sc = schema.MustLoad()
	}
	e := &Evaluator{
		ctx:          ctx,
		provider:     provider,
		cache:        cache,
		schema:       sc,
		data:         model.New(),
		stopAt:       opts.StopAt,
		includeStack: map[string]bool{},
		onceFiles:    map[string]bool{},
		loadedFiles:  map[string]bool{},
		functions:    map[string]*ast.FuncDecl{},
		defines:      map[string]bool{},
		rootURI:      rootURI,
		ranFiles:     map[string]bool{},
	}

	root := scope.NewRoot()
	e.includeStack[rootURI] = true
	e.runFile(rootURI, root)
	return e.data
}

// loadFile fetches and parses uri, merging its parse diagnostics into
// data.Diagnostics the first time it is loaded in this evaluation.
// It returns nil if the document could not be fetched.
func (e *Evaluator) loadFile(uri string) *source.Entry {
	doc, err := e.provider.Get(e.ctx, uri)
	if err != nil {
		return nil
	}
	entry := e.cache.Parse(doc)
	if !e.loadedFiles[uri] {
		e.loadedFiles[uri] = true
		e.data.Diagnostics = append(e.data.Diagnostics, entry.Errs...)
	}
	return entry
}

// checkCancel reports whether the run should stop because ctx was
// canceled, recording a Canceled diagnostic the first time it notices
// (spec §5 Cancellation).
func (e *Evaluator) checkCancel() bool {
	if e.stopped {
		return true
	}
	select {
	case <-e.ctx.Done():
		e.stopped = true
		e.data.Diagnostics = append(e.data.Diagnostics, errors.Newf(
			token.UriRange{}, errors.KindCanceled, "evaluation canceled"))
		return true
	default:
		return false
	}
}

// checkStopAt reports whether execution should stop before entering the
// statement at rng in uri (spec §4.2 partial evaluation).
func (e *Evaluator) checkStopAt(uri string, rng token.Range) bool {
	if e.stopped {
		return true
	}
	if e.stopAt == nil {
		return false
	}
	if uri != e.stopAt.URI {
		return false
	}
	if !rng.Start.Before(e.stopAt.Pos) && rng.Start != e.stopAt.Pos {
		// rng starts at or after the stop position.
		e.stopped = true
		return true
	}
	if rng.Start == e.stopAt.Pos {
		e.stopped = true
		return true
	}
	return false
}

func uriRange(uri string, rng token.Range) token.UriRange {
	return token.UriRange{URI: uri, Range: rng}
}

// execStmts executes stmts in order within frame, whose statements
// physically live in file uri, stopping early on cancellation or
// StopAt (spec §4.2).
func (e *Evaluator) execStmts(uri string, frame *scope.Frame, stmts []ast.Stmt) {
	for _, s := range stmts {
		if e.checkCancel() || e.checkStopAt(uri, s.Range()) {
			return
		}
		e.execStmt(uri, frame, s)
		if e.stopped {
			return
		}
	}
}

func (e *Evaluator) execStmt(uri string, frame *scope.Frame, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Assign:
		e.execAssign(uri, frame, st)
	case *ast.Using:
		e.execUsing(uri, frame, st)
	case *ast.ForEach:
		e.execForEach(uri, frame, st)
	case *ast.If:
		e.execIf(uri, frame, st)
	case *ast.Print:
		e.evalExpr(uri, frame, st.Arg)
	case *ast.Block:
		e.execStmts(uri, frame.Push(), st.Stmts)
	case *ast.GenericFuncCall:
		e.execGenericFuncCall(uri, frame, st)
	case *ast.FuncDecl:
		e.functions[st.Name] = st
	case *ast.FuncCall:
		e.execFuncCall(uri, frame, st)
	case *ast.Include:
		e.execIncludeStmt(uri, frame, st)
	case *ast.Once:
		e.onceFiles[uri] = true
	case *ast.Define:
		if st.Undef {
			delete(e.defines, st.Name)
		} else {
			e.defines[st.Name] = true
		}
	case *ast.PreprocIf:
		e.execPreprocIf(uri, frame, st)
	case *ast.BadStmt:
		// already diagnosed by the parser; nothing to evaluate.
	default:
	}
}

func (e *Evaluator) execIf(uri string, frame *scope.Frame, st *ast.If) {
	cond := e.evalExpr(uri, frame, st.Cond)
	if toBool(cond) {
		e.execStmts(uri, frame.Push(), st.Then)
	} else if st.Else != nil {
		e.execStmts(uri, frame.Push(), st.Else)
	}
}

func (e *Evaluator) execPreprocIf(uri string, frame *scope.Frame, st *ast.PreprocIf) {
	defined := e.defines[st.Pred.Name]
	take := defined
	if st.Pred.Negated {
		take = !defined
	}
	if take {
		e.execStmts(uri, frame, st.Then)
	} else if st.Else != nil {
		e.execStmts(uri, frame, st.Else)
	}
}

func toBool(v value.Value) bool {
	switch v.Kind {
	case value.Boolean:
		return v.Bool
	case value.Integer:
		return v.Int != 0
	case value.String:
		return v.Str != ""
	default:
		return false
	}
}
