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

package value

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"github.com/harrisont/fastbuild-ls-go/token"
)

// cmpOpts lets cmp.Diff walk StructValue/Field's unexported fields, the
// same way the teacher's own internal/core/convert tests compare
// unexported-field structures.
var cmpOpts = cmp.AllowUnexported(StructValue{})

func rng(line int) token.UriRange {
	return token.UriRange{
		URI:   "test://f",
		Range: token.Range{Start: token.Point{Line: line}, End: token.Point{Line: line, Column: 1}},
	}
}

func TestStructValueCloneIsIndependent(t *testing.T) {
	s := NewStruct()
	s.Set("A", Int(1), rng(0), false)
	s.Set("B", Str("x"), rng(1), false)

	clone := s.Clone()
	if diff := cmp.Diff(s, clone, cmpOpts); diff != "" {
		t.Fatalf("clone diverged from original immediately after cloning:\n%s", diff)
	}

	// Mutating the clone must not affect the original.
	clone.Set("A", Int(2), rng(2), false)
	clone.AddProvenance("B", rng(3))

	qt.Assert(t, qt.Equals(s.Get("A").Value.Int, int64(1)))
	qt.Assert(t, qt.HasLen(s.Get("B").Provenance, 1))
	qt.Assert(t, qt.Equals(clone.Get("A").Value.Int, int64(2)))
	qt.Assert(t, qt.HasLen(clone.Get("B").Provenance, 2))

	if diff := cmp.Diff(s, clone, cmpOpts); diff == "" {
		t.Fatalf("expected clone to diverge from original after mutation, got no diff")
	}
}

func TestStructValueSetExtendProvenance(t *testing.T) {
	s := NewStruct()
	s.Set("A", Int(1), rng(0), false)
	s.Set("A", Int(2), rng(1), true)

	want := &StructValue{
		names: []string{"A"},
		fields: map[string]*Field{
			"A": {Value: Int(2), Provenance: []token.UriRange{rng(0), rng(1)}},
		},
	}
	if diff := cmp.Diff(want, s, cmpOpts); diff != "" {
		t.Fatalf("unexpected struct value (-want +got):\n%s", diff)
	}
}

func TestValueAsString(t *testing.T) {
	qt.Assert(t, qt.Equals(Str("hi").AsString(), "hi"))
	qt.Assert(t, qt.Equals(Int(42).AsString(), "42"))
	qt.Assert(t, qt.Equals(Bool(true).AsString(), "true"))
	qt.Assert(t, qt.Equals(Bool(false).AsString(), "false"))
	qt.Assert(t, qt.Equals(UnknownValue().AsString(), ""))
	qt.Assert(t, qt.Equals(StructVal(NewStruct()).AsString(), ""))
}
