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

// Package value implements the tagged-union runtime value that the
// evaluator computes: Value (spec §3). Struct carries, per field, the
// UriRange of its most recent assignment *and* the accumulated set of
// provenance ranges a field has picked up through Using/ForEach (spec
// §4.3), since a single field can have many definition sites.
package value

import (
	"strconv"

	"github.com/harrisont/fastbuild-ls-go/token"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	Unknown Kind = iota // best-effort placeholder after an error; suppresses cascades
	Boolean
	Integer
	String
	Struct
	ArrayOfStrings
	ArrayOfStructs
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case String:
		return "String"
	case Struct:
		return "Struct"
	case ArrayOfStrings:
		return "ArrayOfStrings"
	case ArrayOfStructs:
		return "ArrayOfStructs"
	default:
		return "Unknown"
	}
}

// Field is one field of a StructValue: its current value plus the set of
// UriRanges where it was assigned. A field normally has one provenance
// range; Using and ForEach-over-structs (spec §4.3) can extend it to
// several, all of which must be reported to a reader.
type Field struct {
	Value      Value
	Provenance []token.UriRange
}

// StructValue is an ordered mapping from field name to Field. Field order
// is insertion order, since it drives iteration/formatting in callers
// that display a struct's fields.
type StructValue struct {
	names  []string
	fields map[string]*Field
}

// NewStruct returns an empty struct value.
func NewStruct() *StructValue {
	return &StructValue{fields: map[string]*Field{}}
}

// Names returns field names in insertion order.
func (s *StructValue) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns the field named name, or nil if absent.
func (s *StructValue) Get(name string) *Field {
	return s.fields[name]
}

// Set assigns name := v at the given provenance range, replacing any
// prior value but preserving accumulated provenance when extend is true.
func (s *StructValue) Set(name string, v Value, at token.UriRange, extend bool) {
	f, ok := s.fields[name]
	if !ok {
		f = &Field{}
		s.fields[name] = f
		s.names = append(s.names, name)
	}
	f.Value = v
	if extend {
		f.Provenance = appendUnique(f.Provenance, at)
	} else {
		f.Provenance = []token.UriRange{at}
	}
}

// AddProvenance appends at to name's provenance set without changing its
// value, used when a Using(...) site additionally attributes an already-
// assigned field to itself.
func (s *StructValue) AddProvenance(name string, at token.UriRange) {
	f, ok := s.fields[name]
	if !ok {
		return
	}
	f.Provenance = appendUnique(f.Provenance, at)
}

// Clone returns a deep-enough copy of s: a new field map with copied
// provenance slices, safe to mutate independently (used as the base of a
// struct + struct field merge).
func (s *StructValue) Clone() *StructValue {
	c := NewStruct()
	for _, n := range s.names {
		f := s.fields[n]
		prov := make([]token.UriRange, len(f.Provenance))
		copy(prov, f.Provenance)
		c.names = append(c.names, n)
		c.fields[n] = &Field{Value: f.Value, Provenance: prov}
	}
	return c
}

func appendUnique(ranges []token.UriRange, r token.UriRange) []token.UriRange {
	for _, existing := range ranges {
		if existing == r {
			return ranges
		}
	}
	return append(ranges, r)
}

// Value is the tagged union described by spec §3.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Str     string
	Struct  *StructValue
	Strings []string
	Structs []*StructValue
}

// Bool/Int/Str/UnknownValue/EmptyStrings/EmptyStructs constructors keep
// call sites terse.
func Bool(b bool) Value         { return Value{Kind: Boolean, Bool: b} }
func Int(i int64) Value         { return Value{Kind: Integer, Int: i} }
func Str(s string) Value        { return Value{Kind: String, Str: s} }
func UnknownValue() Value       { return Value{Kind: Unknown} }
func EmptyStrings() Value       { return Value{Kind: ArrayOfStrings} }
func EmptyStructs() Value       { return Value{Kind: ArrayOfStructs} }

// StructVal wraps a *StructValue as a Value.
func StructVal(s *StructValue) Value { return Value{Kind: Struct, Struct: s} }

// StringsVal wraps a []string as a Value.
func StringsVal(ss []string) Value { return Value{Kind: ArrayOfStrings, Strings: ss} }

// StructsVal wraps a []*StructValue as a Value.
func StructsVal(ss []*StructValue) Value { return Value{Kind: ArrayOfStructs, Structs: ss} }

// AsString coerces v to a string for interpolation/concatenation purposes
// (spec §4: "`.Middle` coerced to string"). Non-scalar kinds coerce to ""
// and the caller is expected to have already raised a kind-mismatch
// diagnostic where relevant.
func (v Value) AsString() string {
	switch v.Kind {
	case String:
		return v.Str
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
