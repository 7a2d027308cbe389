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

// Package scope implements the evaluator's scope-frame stack (spec §4.2):
// a chain of frames, each a name-to-binding map, linked to its parent for
// `^`-resolution. A frame is pushed on entering `{ … }`, a ForEach
// iteration, a user-function call, or a generic-function body, and popped
// on exit.
package scope

import (
	"github.com/harrisont/fastbuild-ls-go/internal/core/value"
	"github.com/harrisont/fastbuild-ls-go/token"
)

// Binding is one variable's current value plus the set of UriRanges a
// reader should report as its candidate definitions. Ordinarily this is
// a single range (the assignment that set it); Using (spec §4.3) can
// extend it to several, so it is modeled as a set from the start rather
// than a single range, per spec §9's design note on struct-field
// provenance.
type Binding struct {
	Value     value.Value
	LHSRanges []token.UriRange
}

// PrimaryLHSRange returns the first (most authoritative) range in the
// binding's provenance set, or the zero UriRange if it has none.
func (b *Binding) PrimaryLHSRange() token.UriRange {
	if len(b.LHSRanges) == 0 {
		return token.UriRange{}
	}
	return b.LHSRanges[0]
}

// Frame is one level of the scope stack. Parent is nil for a root frame
// (the top of the include/eval stack, or a user-function's fresh frame —
// spec §4.7 gives function bodies a frame with "no parent chain to the
// caller").
type Frame struct {
	parent *Frame
	vars   map[string]*Binding
}

// NewRoot returns a parentless frame.
func NewRoot() *Frame {
	return &Frame{vars: map[string]*Binding{}}
}

// Push returns a new frame whose parent is f.
func (f *Frame) Push() *Frame {
	return &Frame{parent: f, vars: map[string]*Binding{}}
}

// Parent returns f's parent frame, or nil if f is a root frame.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// LookupStatic searches f and its ancestors, top-down, for name (spec
// §4.3 Static read).
func (f *Frame) LookupStatic(name string) (*Binding, *Frame) {
	for frame := f; frame != nil; frame = frame.parent {
		if b, ok := frame.vars[name]; ok {
			return b, frame
		}
	}
	return nil, nil
}

// LookupParent searches from f.parent downward (spec §4.3 Parent read),
// used for `^X` reads and compound `^X` assignment.
func (f *Frame) LookupParent(name string) (*Binding, *Frame) {
	if f.parent == nil {
		return nil, nil
	}
	return f.parent.LookupStatic(name)
}

// SetLocal binds name := v in f itself, creating or overwriting it (spec
// §4.2 "`.X = expr` assigns in the current (top) frame"), replacing any
// prior provenance set with the single range lhs.
func (f *Frame) SetLocal(name string, v value.Value, lhs token.UriRange) {
	f.vars[name] = &Binding{Value: v, LHSRanges: []token.UriRange{lhs}}
}

// SetIn binds name := v in a specific ancestor frame (used for `+=`/`-=`
// which rewrite the frame that currently defines the variable, and for
// `^X =` which targets the parent frame).
func (f *Frame) SetIn(target *Frame, name string, v value.Value, lhs token.UriRange) {
	target.vars[name] = &Binding{Value: v, LHSRanges: []token.UriRange{lhs}}
}

// Bind installs b directly as name's binding in f, used by Using (spec
// §4.3) which constructs a multi-range provenance set itself.
func (f *Frame) Bind(name string, b *Binding) {
	f.vars[name] = b
}

// Names returns the variable names bound directly in f (not ancestors),
// used by completion-style consumers that want "what's in scope here".
func (f *Frame) Names() []string {
	out := make([]string, 0, len(f.vars))
	for n := range f.vars {
		out = append(out, n)
	}
	return out
}

// AllVisible returns every name visible from f, walking to the root,
// nearest-scope-wins on shadowing (spec §8 scenario 5: "exactly the
// variables reachable via `^` at cursor").
func (f *Frame) AllVisible() []string {
	seen := map[string]bool{}
	var out []string
	for frame := f; frame != nil; frame = frame.parent {
		for n := range frame.vars {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
