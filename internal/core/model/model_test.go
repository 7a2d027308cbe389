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

package model

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/harrisont/fastbuild-ls-go/token"
)

func rngAt(line int) token.UriRange {
	return token.UriRange{
		URI:   "test://f",
		Range: token.Range{Start: token.Point{Line: line}, End: token.Point{Line: line, Column: 1}},
	}
}

func TestVariableReferenceAddDefinitionDedups(t *testing.T) {
	ref := &VariableReference{}
	a := rngAt(0)
	b := rngAt(1)

	ref.AddDefinition(a)
	ref.AddDefinition(b)
	ref.AddDefinition(a) // duplicate, should not be re-added

	qt.Assert(t, qt.DeepEquals(ref.Definitions, []token.UriRange{a, b}))
}

func TestFunctionsByFileAddKeepsSortedAndContainingPosition(t *testing.T) {
	f := NewFunctionsByFile()

	mk := func(startLine, endLine int) *GenericFunctionInvocation {
		return &GenericFunctionInvocation{
			BodyRangeWithoutBraces: token.UriRange{
				URI:   "test://f",
				Range: token.Range{Start: token.Point{Line: startLine}, End: token.Point{Line: endLine}},
			},
		}
	}

	second := mk(10, 12)
	first := mk(1, 3)
	f.Add("test://f", second)
	f.Add("test://f", first)

	list := f.For("test://f")
	qt.Assert(t, qt.HasLen(list, 2))
	qt.Assert(t, qt.Equals(list[0], first))
	qt.Assert(t, qt.Equals(list[1], second))

	found := f.ContainingPosition("test://f", token.Point{Line: 2})
	qt.Assert(t, qt.Equals(found, first))

	qt.Assert(t, qt.IsNil(f.ContainingPosition("test://f", token.Point{Line: 6})))
	qt.Assert(t, qt.IsNil(f.ContainingPosition("missing", token.Point{Line: 2})))
}

func TestTargetTableAddRecordsDuplicates(t *testing.T) {
	tbl := NewTargetTable()
	first := &TargetDefinition{Name: "all", NameRange: rngAt(0)}
	dup := &TargetDefinition{Name: "all", NameRange: rngAt(5)}

	tbl.Add(first)
	tbl.Add(dup)

	qt.Assert(t, qt.Equals(tbl.Get("all"), first))
	qt.Assert(t, qt.DeepEquals(tbl.Duplicates, []*TargetDefinition{dup}))
	qt.Assert(t, qt.DeepEquals(tbl.Names(), []string{"all"}))
}

func TestNewEvaluatedDataStartsEmpty(t *testing.T) {
	data := New()
	qt.Assert(t, qt.HasLen(data.VariableDefinitions, 0))
	qt.Assert(t, qt.HasLen(data.Diagnostics, 0))
	qt.Assert(t, qt.IsNil(data.GenericFunctions.ContainingPosition("x", token.Point{})))
	qt.Assert(t, qt.IsNil(data.TargetDefinitions.Get("x")))
}
