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
	"context"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/rogpeppe/go-internal/txtar"

	"github.com/harrisont/fastbuild-ls-go/errors"
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"github.com/harrisont/fastbuild-ls-go/source"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// loadArchive populates a MemoryProvider from a txtar archive, one file
// per "-- name --" section, so an include graph spanning several files
// can be written as a single readable fixture.
func loadArchive(t *testing.T, archive string) *source.MemoryProvider {
	t.Helper()
	a := txtar.Parse([]byte(archive))
	provider := source.NewMemoryProvider()
	for _, f := range a.Files {
		provider.Set(f.Name, f.Data)
	}
	return provider
}

func TestEvaluateSimpleAssignAndRead(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Base = "x"
.Derived = .Base
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.HasLen(data.VariableDefinitions, 2))
	qt.Assert(t, qt.Equals(data.VariableDefinitions[0].Name, "Base"))
	qt.Assert(t, qt.Equals(data.VariableDefinitions[0].Value.Str, "x"))
	qt.Assert(t, qt.Equals(data.VariableDefinitions[1].Name, "Derived"))
	qt.Assert(t, qt.Equals(data.VariableDefinitions[1].Value.Str, "x"))

	// The read of .Base on the RHS of the second assignment should
	// resolve to the first assignment's LHS range.
	var readBase *int
	for i, ref := range data.VariableReferences {
		if len(ref.Definitions) > 0 && ref.Definitions[0] == data.VariableDefinitions[0].LHSRange {
			idx := i
			readBase = &idx
		}
	}
	qt.Assert(t, qt.IsTrue(readBase != nil))
}

func TestEvaluateVariableDefinitionCarriesComputedValue(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.X = 1`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.HasLen(data.VariableDefinitions, 1))
	def := data.VariableDefinitions[0]
	qt.Assert(t, qt.Equals(def.Value.Kind, value.Integer))
	qt.Assert(t, qt.Equals(def.Value.Int, int64(1)))
}

func TestEvaluateUndefinedVariableDiagnostic(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.X = .NeverDefined`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 1))
	qt.Assert(t, qt.Equals(data.Diagnostics[0].Kind, errors.KindSemanticName))
}

func TestEvaluateIncludeMergesDefinitions(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("lib.bff", []byte(`.Shared = "from-lib"`))
	provider.Set("root.bff", []byte(`#include 'lib.bff'
.Out = .Shared
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.HasLen(data.IncludeEdges, 1))
	qt.Assert(t, qt.Equals(data.IncludeEdges[0].ToFile, "lib.bff"))

	var names []string
	for _, d := range data.VariableDefinitions {
		names = append(names, d.Name)
	}
	qt.Assert(t, qt.DeepEquals(names, []string{"Shared", "Out"}))
}

func TestEvaluateIncludeCycleDiagnosed(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("a.bff", []byte(`#include 'b.bff'`))
	provider.Set("b.bff", []byte(`#include 'a.bff'`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "a.bff", provider, cache, Options{})

	qt.Assert(t, qt.IsTrue(len(data.Diagnostics) > 0))
}

func TestEvaluateDiamondIncludeOnceSuppressesSecondRun(t *testing.T) {
	provider := loadArchive(t, `
-- root.bff --
#include 'left.bff'
#include 'right.bff'
-- left.bff --
#include 'common.bff'
.FromLeft = "left"
-- right.bff --
#include 'common.bff'
.FromRight = "right"
-- common.bff --
#once
.CommonCount += 1
`)
	cache := source.NewCache()
	data := Evaluate(context.Background(), "root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.HasLen(data.IncludeEdges, 4))

	var commonDefs int
	for _, d := range data.VariableDefinitions {
		if d.Name == "CommonCount" {
			commonDefs++
		}
	}
	qt.Assert(t, qt.Equals(commonDefs, 1))
}

func TestEvaluateForEachBindsEachIteration(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Items = { "a", "b", "c" }
.Last = ""
ForEach(.Item in .Items) {
  .Last = .Item
}
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))

	var itemDefs int
	for _, d := range data.VariableDefinitions {
		if d.Name == "Item" {
			itemDefs++
		}
	}
	qt.Assert(t, qt.Equals(itemDefs, 3))
}

func TestEvaluateUsingInForEachOverStructArrayHasNoDiagnostics(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Base = [ .A = 1 ]
.Bases = { .Base, .Base }
ForEach(.B in .Bases) {
  Using(.B)
}
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	// .Bases is a struct array built from two copies of the same
	// struct; this runs the ForEach+Using provenance path without
	// asserting the resulting provenance sets. The evaluation should
	// complete without diagnostics.
	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
}

func TestEvaluateGenericFunctionCallRecorded(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`Alias("all") {
  .Targets = { "a", "b" }
}
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	invs := data.GenericFunctions.For("mem://root.bff")
	qt.Assert(t, qt.HasLen(invs, 1))
	qt.Assert(t, qt.Equals(invs[0].FunctionName, "Alias"))
	qt.Assert(t, qt.Equals(invs[0].TargetName, "all"))

	def := data.TargetDefinitions.Get("all")
	qt.Assert(t, qt.IsTrue(def != nil))

	// Targets = { "a", "b" } must record one TargetReference per literal
	// array element, each anchored at that element's own range rather
	// than one reference spanning the whole `.Targets = ...` property.
	qt.Assert(t, qt.HasLen(data.TargetReferences, 2))
	qt.Assert(t, qt.DeepEquals(data.TargetReferences[0].CandidateNames, []string{"a"}))
	qt.Assert(t, qt.DeepEquals(data.TargetReferences[1].CandidateNames, []string{"b"}))
	qt.Assert(t, qt.IsTrue(data.TargetReferences[0].StringRange != data.TargetReferences[1].StringRange))
	qt.Assert(t, qt.IsTrue(data.TargetReferences[0].StringRange.Range.Start.Column <
		data.TargetReferences[1].StringRange.Range.Start.Column))
}

func TestEvaluateGenericFunctionMissingRequiredProperty(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`Alias("all") {
  .Hidden = true
}
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.IsTrue(len(data.Diagnostics) > 0))
	var sawStructural bool
	for _, d := range data.Diagnostics {
		if d.Kind == errors.KindSemanticStructural {
			sawStructural = true
		}
	}
	qt.Assert(t, qt.IsTrue(sawStructural))
}

func TestEvaluateIfElseTakesElseBranch(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Cond = false
.A = 0
If(.Cond) {
  .A = 1
} Else {
  .A = 2
}
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))

	var aDefs int
	for _, d := range data.VariableDefinitions {
		if d.Name == "A" {
			aDefs++
		}
	}
	// One from the initial `.A = 0` plus one from the Else branch.
	qt.Assert(t, qt.Equals(aDefs, 2))
}

func TestEvaluateComparisonAndMembership(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Fruits = { "apple", "pear" }
.HasApple = "apple" in .Fruits
.NoBanana = "banana" not in .Fruits
.Bigger = 2 > 1
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.HasLen(data.VariableDefinitions, 4))
}

func TestEvaluatePreprocessorDefineGatesBranch(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`#define DEBUG
#if DEBUG
.Mode = "debug"
#else
.Mode = "release"
#endif
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.HasLen(data.VariableDefinitions, 1))
	qt.Assert(t, qt.Equals(data.VariableDefinitions[0].Name, "Mode"))
}

func TestEvaluateDynamicVariableName(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Suffix = "Value"
.A_Value = "hit"
.Out = ."A_$Suffix$"
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))

	var names []string
	for _, d := range data.VariableDefinitions {
		names = append(names, d.Name)
	}
	qt.Assert(t, qt.DeepEquals(names, []string{"Suffix", "A_Value", "Out"}))
}

func TestEvaluatePrintDoesNotCrashAndRecordsReference(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.Msg = "hi"
Print(.Msg)
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.IsTrue(len(data.VariableReferences) > 0))
}

func TestEvaluateStopAtHaltsBeforeTargetStatement(t *testing.T) {
	provider := source.NewMemoryProvider()
	src := `.A = 1
.B = 2
.C = 3
`
	provider.Set("mem://root.bff", []byte(src))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{
		StopAt: &StopAt{URI: "mem://root.bff", Pos: token.Point{Line: 1}},
	})

	var names []string
	for _, d := range data.VariableDefinitions {
		names = append(names, d.Name)
	}
	qt.Assert(t, qt.DeepEquals(names, []string{"A"}))
}

func TestEvaluateCanceledContextStopsEarly(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`.A = 1
.B = 2
`))
	cache := source.NewCache()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := Evaluate(ctx, "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.VariableDefinitions, 0))
	var sawCanceled bool
	for _, d := range data.Diagnostics {
		if d.Kind == errors.KindCanceled {
			sawCanceled = true
		}
	}
	qt.Assert(t, qt.IsTrue(sawCanceled))
}

func TestEvaluateUserFunctionCall(t *testing.T) {
	provider := source.NewMemoryProvider()
	provider.Set("mem://root.bff", []byte(`function Helper(.Msg) {
  .Echoed = .Msg
}
Helper("hi")
`))
	cache := source.NewCache()
	data := Evaluate(context.Background(), "mem://root.bff", provider, cache, Options{})

	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))

	var sawEchoed bool
	for _, d := range data.VariableDefinitions {
		if d.Name == "Echoed" {
			sawEchoed = true
		}
	}
	qt.Assert(t, qt.IsTrue(sawEchoed))
}
