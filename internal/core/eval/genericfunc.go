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
	"slices"

	"github.com/harrisont/fastbuild-ls-go/ast"
	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/internal/core/model"
	"github.com/harrisont/fastbuild-ls-go/internal/core/schema"
	"github.com/harrisont/fastbuild-ls-go/internal/core/scope"
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// execGenericFuncCall handles `Name('target') { body }` / `Name() { body }`
// invocations of the builtin generic functions (spec §4.4, §6). The body
// always executes, in a fresh frame, so that statements inside it still
// produce their own diagnostics and VariableDefinitions/References even
// when the function name itself is unrecognized; schema validation and
// target-table bookkeeping only run for a name the schema table knows.
func (e *Evaluator) execGenericFuncCall(uri string, frame *scope.Frame, st *ast.GenericFuncCall) {
	body := frame.Push()
	e.execStmts(uri, body, st.Body)

	headerRng := uriRange(uri, st.FuncNameRng)
	fn := e.schema.Get(st.FuncName)
	if fn == nil {
		e.data.Diagnostics.Add(errors.Newf(headerRng, errors.KindSemanticName,
			"unknown generic function %q", st.FuncName))
		return
	}

	var targetName string
	if st.TargetName != nil {
		targetName = e.evalStringLit(uri, frame, st.TargetName).AsString()
	}
	if fn.RequiresTargetName && st.TargetName == nil {
		e.data.Diagnostics.Add(errors.Newf(headerRng, errors.KindSemanticStructural,
			"%s requires a target name", st.FuncName))
	}

	bodyRng := uriRange(uri, st.BodyInnerRng)
	e.validateGenericFuncProperties(uri, body, st.Body, fn, headerRng)

	e.data.GenericFunctions.Add(uri, &model.GenericFunctionInvocation{
		FunctionName:           st.FuncName,
		HeaderRange:            headerRng,
		BodyRangeWithoutBraces: bodyRng,
		TargetName:             targetName,
	})

	if targetName != "" {
		e.data.TargetDefinitions.Add(&model.TargetDefinition{
			Name:      targetName,
			NameRange: uriRange(uri, st.TargetName.Range()),
		})
	}
}

// validateGenericFuncProperties diagnoses missing required properties,
// unrecognized properties, and kind mismatches (spec §4.4), and records a
// TargetReference for each property the schema flags as one (spec §4.4,
// §6).
func (e *Evaluator) validateGenericFuncProperties(uri string, body *scope.Frame, bodyStmts []ast.Stmt, fn *schema.Function, headerRng token.UriRange) {
	seen := map[string]bool{}
	for _, name := range body.Names() {
		seen[name] = true
		b, _ := body.LookupStatic(name)
		if b == nil {
			continue
		}
		prop := fn.Property(name)
		if prop == nil {
			rng := headerRng
			if len(b.LHSRanges) > 0 {
				rng = b.LHSRanges[0]
			}
			e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticName,
				"%q is not a recognized property", name))
			continue
		}
		if len(prop.PermittedKinds) > 0 && !slices.Contains(prop.PermittedKinds, b.Value.Kind) {
			rng := headerRng
			if len(b.LHSRanges) > 0 {
				rng = b.LHSRanges[0]
			}
			e.data.Diagnostics.Add(errors.Newf(rng, errors.KindSemanticKind,
				"property %q has kind %s, expected one of %v", name, b.Value.Kind, prop.PermittedKinds))
		}
		if prop.TargetReference {
			e.recordTargetReferences(uri, bodyStmts, name, b.Value, firstOr(b.LHSRanges, headerRng))
		}
	}
	for _, prop := range fn.Properties {
		if prop.Required && !seen[prop.Name] {
			e.data.Diagnostics.Add(errors.Newf(headerRng, errors.KindSemanticStructural,
				"missing required property %q", prop.Name))
		}
	}
}

// recordTargetReferences emits one TargetReference per literal array
// element of the property's RHS (spec §4.4 item 5), rather than a single
// reference spanning the whole property. It locates the last `name = ...`
// assignment among bodyStmts to recover each element's own ast.Expr range,
// then pairs those ranges positionally with v's already-computed strings
// (evalArrayLit preserves element order). If the RHS shape can't be
// resolved this way (a dynamic name, a non-literal expression, or a kind
// mismatch with v), it falls back to one reference spanning fallback.
func (e *Evaluator) recordTargetReferences(uri string, bodyStmts []ast.Stmt, name string, v value.Value, fallback token.UriRange) {
	elemRanges := targetPropertyElemRanges(bodyStmts, name, v)
	if elemRanges == nil {
		e.recordTargetReference(v, fallback)
		return
	}
	switch v.Kind {
	case value.String:
		e.data.TargetReferences = append(e.data.TargetReferences, &model.TargetReference{
			StringRange:    uriRange(uri, elemRanges[0]),
			CandidateNames: []string{v.Str},
		})
	case value.ArrayOfStrings:
		for i, s := range v.Strings {
			e.data.TargetReferences = append(e.data.TargetReferences, &model.TargetReference{
				StringRange:    uriRange(uri, elemRanges[i]),
				CandidateNames: []string{s},
			})
		}
	}
}

// targetPropertyElemRanges returns, for the last `name = ...` assignment
// in bodyStmts, one token.Range per element of its RHS (the literal's own
// range for a scalar StringLit, or each ast.ArrayLit element's range),
// provided the element count matches v's. Returns nil when no such
// assignment exists, the RHS isn't a literal shape, or the counts
// disagree (e.g. a `+=` built the value up across several statements).
func targetPropertyElemRanges(bodyStmts []ast.Stmt, name string, v value.Value) []token.Range {
	var rhs ast.Expr
	for _, s := range bodyStmts {
		assign, ok := s.(*ast.Assign)
		if !ok || assign.LHS.Dynamic != nil || assign.LHS.Ident != name {
			continue
		}
		rhs = assign.RHS
	}
	switch x := rhs.(type) {
	case *ast.StringLit:
		if v.Kind != value.String {
			return nil
		}
		return []token.Range{x.Range()}
	case *ast.ArrayLit:
		if v.Kind != value.ArrayOfStrings || len(x.Elems) != len(v.Strings) {
			return nil
		}
		out := make([]token.Range, len(x.Elems))
		for i, elem := range x.Elems {
			out[i] = elem.Range()
		}
		return out
	default:
		return nil
	}
}

func (e *Evaluator) recordTargetReference(v value.Value, at token.UriRange) {
	var names []string
	switch v.Kind {
	case value.String:
		names = []string{v.Str}
	case value.ArrayOfStrings:
		names = v.Strings
	default:
		return
	}
	e.data.TargetReferences = append(e.data.TargetReferences, &model.TargetReference{
		StringRange:    at,
		CandidateNames: names,
	})
}

func firstOr(ranges []token.UriRange, fallback token.UriRange) token.UriRange {
	if len(ranges) > 0 {
		return ranges[0]
	}
	return fallback
}
