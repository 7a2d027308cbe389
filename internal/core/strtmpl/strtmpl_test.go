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

package strtmpl

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParseLiteralOnly(t *testing.T) {
	segs := Parse(`"hello"`)
	qt.Assert(t, qt.IsFalse(HasSubstitutions(segs)))
	qt.Assert(t, qt.DeepEquals(segs, []Segment{{Literal: "hello", Start: 1, End: 6}}))
}

func TestParseSingleQuotedNeverSubstitutes(t *testing.T) {
	segs := Parse(`'a$b$c'`)
	qt.Assert(t, qt.IsFalse(HasSubstitutions(segs)))
	qt.Assert(t, qt.Equals(segs[0].Literal, "a$b$c"))
}

func TestParseCurrentAndParentSubstitution(t *testing.T) {
	segs := Parse(`"a_$Mid$_^Up^_b"`)
	qt.Assert(t, qt.IsTrue(HasSubstitutions(segs)))

	var idents []string
	var parents []bool
	for _, s := range segs {
		if s.Ident != "" {
			idents = append(idents, s.Ident)
			parents = append(parents, s.Parent)
		}
	}
	qt.Assert(t, qt.DeepEquals(idents, []string{"Mid", "Up"}))
	qt.Assert(t, qt.DeepEquals(parents, []bool{false, true}))
}

func TestParseEscapes(t *testing.T) {
	segs := Parse(`"a\nb"`)
	qt.Assert(t, qt.Equals(segs[0].Literal, "a\nb"))
}

func TestParseUnterminatedMarkerIsLiteral(t *testing.T) {
	segs := Parse(`"a$b"`)
	qt.Assert(t, qt.IsFalse(HasSubstitutions(segs)))
	qt.Assert(t, qt.Equals(segs[0].Literal, "a$b"))
}
