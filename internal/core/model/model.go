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

// Package model declares EvaluatedData and the derived-artifact types an
// evaluation run emits (spec §3). It holds data only; nothing here
// resolves names or walks the parse tree — that is package eval's job,
// which appends to these structures as it executes.
package model

import (
	"encoding/json"
	"slices"

	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// VariableDefinition is emitted once per assignment expression executed,
// in temporal evaluation order (spec §3).
type VariableDefinition struct {
	Name     string
	Range    token.UriRange
	LHSRange token.UriRange
	Value    value.Value
}

// VariableReference is emitted once per read, including each substitution
// segment of a dynamic name (spec §4.3).
type VariableReference struct {
	ReferenceRange token.UriRange
	Definitions    []token.UriRange
}

// AddDefinition appends def to r's candidate set, collapsing an exact
// duplicate UriRange (spec §4.3 Duplicate suppression, §8 Duplicate
// collapse). Order is preserved: first static-binding, then Using sites,
// then struct-field sites, as callers append them — grounded in
// cue/errors.Positions(), which performs the same
// sort-then-remove-duplicates shape over a []token.Pos with
// slices.SortFunc/slices.Compact; here the "sort" step is unnecessary
// because emission order already carries meaning (spec §4.3), so only the
// duplicate-removal half applies, which slices.Contains already gives us
// without imposing an unwanted sort.
func (r *VariableReference) AddDefinition(def token.UriRange) {
	if slices.Contains(r.Definitions, def) {
		return
	}
	r.Definitions = append(r.Definitions, def)
}

// GenericFunctionInvocation is emitted once per invocation of a built-in
// generic function (spec §3, §4.4).
type GenericFunctionInvocation struct {
	FunctionName          string
	HeaderRange           token.UriRange
	BodyRangeWithoutBraces token.UriRange
	TargetName            string // "" if the function takes no name
}

// TargetDefinition is created when a generic function is invoked with a
// string-literal name (spec §3, §4.4).
type TargetDefinition struct {
	Name      string
	NameRange token.UriRange
}

// TargetReference is recorded for a string literal that may name a
// target after dynamic substitution (spec §3, §4.4).
type TargetReference struct {
	StringRange   token.UriRange
	CandidateNames []string
}

// IncludeEdge is emitted once per executed #include (spec §3, §4.6).
type IncludeEdge struct {
	FromFile          string
	IncludeStringRange token.UriRange
	ToFile            string
}

// FunctionsByFile holds, per file, the GenericFunctionInvocations found in
// it, kept sorted by BodyRangeWithoutBraces.Start (spec §3 invariant).
type FunctionsByFile struct {
	byFile map[string][]*GenericFunctionInvocation
}

// NewFunctionsByFile returns an empty FunctionsByFile.
func NewFunctionsByFile() *FunctionsByFile {
	return &FunctionsByFile{byFile: map[string][]*GenericFunctionInvocation{}}
}

// Add appends inv to its file's sequence, keeping the sequence sorted by
// body-start. Generic functions cannot nest (spec §3 invariant), so
// insertion order from evaluation already coincides with lexical order;
// Add still inserts at the correct sorted position defensively rather
// than assuming that.
func (f *FunctionsByFile) Add(uri string, inv *GenericFunctionInvocation) {
	list := f.byFile[uri]
	i, _ := slices.BinarySearchFunc(list, inv, func(a, b *GenericFunctionInvocation) int {
		return comparePoint(a.BodyRangeWithoutBraces.Range.Start, b.BodyRangeWithoutBraces.Range.Start)
	})
	list = slices.Insert(list, i, inv)
	f.byFile[uri] = list
}

// For returns the sorted sequence of invocations in uri.
func (f *FunctionsByFile) For(uri string) []*GenericFunctionInvocation {
	return f.byFile[uri]
}

// Files returns the set of URIs with at least one invocation.
func (f *FunctionsByFile) Files() []string {
	out := make([]string, 0, len(f.byFile))
	for uri := range f.byFile {
		out = append(out, uri)
	}
	return out
}

// ContainingPosition returns the invocation in uri whose
// BodyRangeWithoutBraces contains pos, via binary search, or nil if none
// does (spec §3: "at most one invocation... contains P").
func (f *FunctionsByFile) ContainingPosition(uri string, pos token.Point) *GenericFunctionInvocation {
	list := f.byFile[uri]
	i, found := slices.BinarySearchFunc(list, pos, func(a *GenericFunctionInvocation, p token.Point) int {
		return comparePoint(a.BodyRangeWithoutBraces.Range.Start, p)
	})
	if found {
		return list[i]
	}
	if i == 0 {
		return nil
	}
	cand := list[i-1]
	if token.PositionInRange(pos, cand.BodyRangeWithoutBraces.Range) {
		return cand
	}
	return nil
}

// MarshalJSON presents FunctionsByFile as a plain file->invocations map,
// since its sort invariant is an internal bookkeeping detail, not part of
// the wire shape a consumer (e.g. the debug CLI) needs.
func (f *FunctionsByFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.byFile)
}

func comparePoint(a, b token.Point) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

// TargetTable holds target definitions by name plus any duplicates.
type TargetTable struct {
	byName     map[string]*TargetDefinition
	Duplicates []*TargetDefinition
}

// NewTargetTable returns an empty TargetTable.
func NewTargetTable() *TargetTable {
	return &TargetTable{byName: map[string]*TargetDefinition{}}
}

// Add records def, moving it to Duplicates if its name is already taken.
func (t *TargetTable) Add(def *TargetDefinition) {
	if _, exists := t.byName[def.Name]; exists {
		t.Duplicates = append(t.Duplicates, def)
		return
	}
	t.byName[def.Name] = def
}

// Get returns the (first) definition for name, or nil.
func (t *TargetTable) Get(name string) *TargetDefinition {
	return t.byName[name]
}

// Names returns all defined (non-duplicate) target names.
func (t *TargetTable) Names() []string {
	out := make([]string, 0, len(t.byName))
	for n := range t.byName {
		out = append(out, n)
	}
	return out
}

// MarshalJSON presents TargetTable as its definitions plus its duplicates,
// rather than exposing the internal by-name index structure.
func (t *TargetTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Definitions map[string]*TargetDefinition `json:"definitions"`
		Duplicates  []*TargetDefinition           `json:"duplicates"`
	}{t.byName, t.Duplicates})
}

// EvaluatedData is the aggregate result of one evaluation (spec §3). It is
// produced fresh per root evaluation and is immutable once returned.
type EvaluatedData struct {
	VariableDefinitions []*VariableDefinition
	VariableReferences  []*VariableReference
	GenericFunctions    *FunctionsByFile
	TargetDefinitions   *TargetTable
	TargetReferences    []*TargetReference
	IncludeEdges        []*IncludeEdge
	Diagnostics         errors.List
}

// New returns an empty EvaluatedData ready for an evaluator to append to.
func New() *EvaluatedData {
	return &EvaluatedData{
		GenericFunctions:  NewFunctionsByFile(),
		TargetDefinitions: NewTargetTable(),
	}
}
